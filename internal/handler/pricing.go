package handler

import (
	"net/http"

	"foboh/internal/dto"
	"foboh/internal/pricing"
	"foboh/internal/service"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct{ svc service.PricingService }

func NewPricingHandler(svc service.PricingService) *PricingHandler {
	return &PricingHandler{svc: svc}
}

// Preview godoc
// @Summary Preview adjusted prices without saving
// @Description Rows come back in request order, one per request row.
// @Tags pricing
// @Accept json
// @Produce json
// @Param body body dto.PreviewRequest true "Adjustment batch"
// @Success 200 {array} dto.PreviewRow
// @Failure 400 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Security BearerAuth
// @Router /v1/pricing/preview [post]
func (h *PricingHandler) Preview(c *gin.Context) {
	var req dto.PreviewRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Preview(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Check godoc
// @Summary Resolve one product's base price under a basis
// @Tags pricing
// @Produce json
// @Param productId path string true "Product ID"
// @Param basis query string false "Profile ID or 'global' (default)"
// @Success 200 {object} dto.PriceCheckResponse
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/pricing/check/{productId} [get]
func (h *PricingHandler) Check(c *gin.Context) {
	raw := c.Query("basis")
	resp, err := h.svc.CheckPrice(c.Request.Context(), c.Param("productId"), pricing.ParseBasis(&raw))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
