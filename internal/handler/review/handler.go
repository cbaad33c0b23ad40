package review

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/service/review"
	"github.com/medibook/booking-api/pkg/httputil"
)

type Handler struct {
	service *review.Service
}

func NewHandler(service *review.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/doctors/:id/reviews", h.CreateReview)
	r.GET("/doctors/:id/reviews", h.ListReviews)
	r.GET("/doctors/:id/reviews/summary", h.GetSummary)
}

func (h *Handler) CreateReview(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid doctor ID")
		return
	}

	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), doctorID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, created)
}

func (h *Handler) ListReviews(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid doctor ID")
		return
	}

	reviews, err := h.service.ListByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, reviews)
}

func (h *Handler) GetSummary(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid doctor ID")
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, summary)
}
