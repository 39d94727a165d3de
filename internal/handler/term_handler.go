package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/service"
	"github.com/realronaldrump/faculty-schedules-sub011/pkg/response"
)

// TermHandler exposes term endpoints.
type TermHandler struct {
	terms *service.TermService
	locks *service.TermLockService
}

// NewTermHandler constructs a term handler.
func NewTermHandler(terms *service.TermService, locks *service.TermLockService) *TermHandler {
	return &TermHandler{terms: terms, locks: locks}
}

// List godoc
// @Summary List terms
// @Tags Terms
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /terms [get]
func (h *TermHandler) List(c *gin.Context) {
	terms, err := h.terms.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, terms, nil)
}

// Get godoc
// @Summary Get term
// @Tags Terms
// @Produce json
// @Param name path string true "Term name or code"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /terms/{name} [get]
func (h *TermHandler) Get(c *gin.Context) {
	term, err := h.terms.Find(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}

// LockStatus godoc
// @Summary Get term lock status
// @Tags Terms
// @Produce json
// @Param name path string true "Term name or code"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /terms/{name}/lock [get]
func (h *TermHandler) LockStatus(c *gin.Context) {
	term := service.NormalizeTermLabel(c.Param("name"))
	locked, err := h.locks.IsTermLocked(c.Request.Context(), term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"term": term, "locked": locked}, nil)
}
