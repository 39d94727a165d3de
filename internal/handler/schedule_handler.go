package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
	"github.com/realronaldrump/faculty-schedules-sub011/internal/service"
	appErrors "github.com/realronaldrump/faculty-schedules-sub011/pkg/errors"
	"github.com/realronaldrump/faculty-schedules-sub011/pkg/response"
)

// ScheduleHandler exposes schedule record endpoints.
type ScheduleHandler struct {
	schedules  *service.ScheduleService
	reconciler *service.ReconcilerService
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(schedules *service.ScheduleService, reconciler *service.ReconcilerService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, reconciler: reconciler}
}

// List godoc
// @Summary List schedule records
// @Description List schedule records with filters
// @Tags Schedules
// @Produce json
// @Param term query string false "Filter by term"
// @Param courseCode query string false "Filter by course code"
// @Param section query string false "Filter by section"
// @Param instructorId query string false "Filter by instructor"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	var filter models.ScheduleFilter
	filter.Term = c.Query("term")
	filter.CourseCode = c.Query("courseCode")
	filter.Section = c.Query("section")
	filter.InstructorID = c.Query("instructorId")
	filter.Status = c.Query("status")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	records, pagination, err := h.schedules.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Get godoc
// @Summary Get schedule record
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule record id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	record, err := h.schedules.Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Reconcile godoc
// @Summary Save an edited schedule row
// @Description Reconciles one edited view row into its backing records
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "View row identifier"
// @Param payload body service.ReconcileScheduleRequest true "Edited row"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) Reconcile(c *gin.Context) {
	var req service.ReconcileScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload"))
		return
	}

	result, err := h.reconciler.Reconcile(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete schedule record
// @Tags Schedules
// @Param id path string true "Schedule record id"
// @Success 204
// @Security BearerAuth
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
