package handler

import (
	"net/http"
	"strconv"

	"foboh/internal/apierror"
	"foboh/internal/dto"
	"foboh/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct {
	svc      service.ProductService
	profiles service.ProfileService
}

func NewProductsHandler(svc service.ProductService, profiles service.ProfileService) *ProductsHandler {
	return &ProductsHandler{svc: svc, profiles: profiles}
}

// List godoc
// @Summary List catalog products
// @Tags products
// @Produce json
// @Param q query string false "Title or SKU substring"
// @Param category query string false "Category"
// @Param subCategory query string false "Sub-category"
// @Param segment query string false "Segment"
// @Param brand query string false "Brand"
// @Success 200 {array} dto.ProductResponse
// @Security BearerAuth
// @Router /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Facets godoc
// @Summary Distinct catalog filter values
// @Tags products
// @Produce json
// @Success 200 {object} dto.CatalogFacets
// @Security BearerAuth
// @Router /v1/products/facets [get]
func (h *ProductsHandler) Facets(c *gin.Context) {
	resp, err := h.svc.Facets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get one product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/products/{id} [get]
func (h *ProductsHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProfilePrices godoc
// @Summary Frozen prices of a product across saved profiles
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 50, max 200)"
// @Success 200 {object} dto.ProfilePriceListResponse
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/products/{id}/profile-prices [get]
func (h *ProductsHandler) ProfilePrices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.profiles.ListProductPrices(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
