package doctor

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/service/doctor"
	"github.com/medibook/booking-api/pkg/httputil"
)

type Handler struct {
	service *doctor.Service
}

func NewHandler(service *doctor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)
		doctors.PUT("/:id", h.UpdateDoctor)
		doctors.GET("/:id/patients", h.ListPatients)
	}
	r.GET("/specializations", h.ListSpecializations)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	filters := &model.DoctorFilters{Search: c.Query("search")}

	if id := c.Query("specialization_id"); id != "" {
		specID, err := uuid.Parse(id)
		if err != nil {
			httputil.RespondWithBadRequest(c, "invalid specialization ID")
			return
		}
		filters.SpecializationID = &specID
	}

	doctors, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid doctor ID")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid doctor ID")
		return
	}

	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) ListPatients(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid doctor ID")
		return
	}

	patients, err := h.service.ListPatientsSeen(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, patients)
}

func (h *Handler) ListSpecializations(c *gin.Context) {
	specs, err := h.service.ListSpecializations(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, specs)
}
