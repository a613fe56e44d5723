package handler

import (
	"fmt"
	"net/http"

	"foboh/internal/dto"
	"foboh/internal/service"

	"github.com/gin-gonic/gin"
)

const profileNotFoundMsg = "pricing profile not found"

type ProfilesHandler struct {
	pricing  service.PricingService
	profiles service.ProfileService
}

func NewProfilesHandler(pricingSvc service.PricingService, profiles service.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{pricing: pricingSvc, profiles: profiles}
}

// List godoc
// @Summary List saved pricing profiles, newest first
// @Tags profiles
// @Produce json
// @Success 200 {array} dto.ProfileResponse
// @Security BearerAuth
// @Router /v1/profiles [get]
func (h *ProfilesHandler) List(c *gin.Context) {
	resp, err := h.profiles.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Save an adjustment batch as a pricing profile
// @Description Every item stores the price resolved at save time.
// @Tags profiles
// @Accept json
// @Produce json
// @Param body body dto.SaveProfileRequest true "Profile"
// @Success 201 {object} dto.ProfileResponse
// @Failure 400 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Security BearerAuth
// @Router /v1/profiles [post]
func (h *ProfilesHandler) Create(c *gin.Context) {
	var req dto.SaveProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.pricing.SaveProfile(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/v1/profiles/"+resp.ID)
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary Get one pricing profile
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} dto.ProfileResponse
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/profiles/{id} [get]
func (h *ProfilesHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", profileNotFoundMsg)
	if !ok {
		return
	}
	resp, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete a pricing profile
// @Tags profiles
// @Param id path string true "Profile ID"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/profiles/{id} [delete]
func (h *ProfilesHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", profileNotFoundMsg)
	if !ok {
		return
	}
	if err := h.profiles.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PriceSheet godoc
// @Summary Download the profile's price sheet
// @Tags profiles
// @Produce application/pdf
// @Param id path string true "Profile ID"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/profiles/{id}/price-sheet [get]
func (h *ProfilesHandler) PriceSheet(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", profileNotFoundMsg)
	if !ok {
		return
	}
	pdf, name, err := h.profiles.PriceSheet(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
