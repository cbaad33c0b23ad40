package schedule

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/service/schedule"
	"github.com/medibook/booking-api/pkg/httputil"
)

type Handler struct {
	service *schedule.Service
}

func NewHandler(service *schedule.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/doctors/:id/schedules", h.CreateWindow)
	r.GET("/doctors/:id/schedules", h.ListWindows)

	schedules := r.Group("/schedules")
	{
		schedules.GET("/:id", h.GetWindow)
		schedules.PUT("/:id", h.UpdateWindow)
		schedules.DELETE("/:id", h.DeleteWindow)
	}
}

func (h *Handler) CreateWindow(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid doctor ID")
		return
	}

	var req model.CreateScheduleWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return
	}

	window, err := h.service.CreateWindow(c.Request.Context(), doctorID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, window)
}

func (h *Handler) ListWindows(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid doctor ID")
		return
	}

	windows, err := h.service.ListForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, windows)
}

func (h *Handler) GetWindow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid schedule window ID")
		return
	}

	window, err := h.service.GetWindow(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, window)
}

func (h *Handler) UpdateWindow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid schedule window ID")
		return
	}

	var req model.UpdateScheduleWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return
	}

	window, err := h.service.UpdateWindow(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, window)
}

func (h *Handler) DeleteWindow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid schedule window ID")
		return
	}

	if err := h.service.DeleteWindow(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, nil)
}
