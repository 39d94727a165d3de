package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
	"github.com/realronaldrump/faculty-schedules-sub011/internal/service"
	"github.com/realronaldrump/faculty-schedules-sub011/pkg/response"
)

// SpaceHandler exposes space catalog endpoints.
type SpaceHandler struct {
	spaces *service.SpaceService
}

// NewSpaceHandler constructs a space handler.
func NewSpaceHandler(spaces *service.SpaceService) *SpaceHandler {
	return &SpaceHandler{spaces: spaces}
}

// List godoc
// @Summary List spaces
// @Description List catalog spaces with filters
// @Tags Spaces
// @Produce json
// @Param buildingCode query string false "Filter by building code"
// @Param search query string false "Search display names"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /spaces [get]
func (h *SpaceHandler) List(c *gin.Context) {
	var filter models.SpaceFilter
	filter.BuildingCode = c.Query("buildingCode")
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}

	spaces, pagination, err := h.spaces.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, spaces, pagination)
}
