package appointment

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/scheduling"
	"github.com/medibook/booking-api/internal/service/booking"
	"github.com/medibook/booking-api/pkg/httputil"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("/availability", h.GetAvailability)
		appointments.POST("", h.BookSlot)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PATCH("/:id/status", h.TransitionStatus)
	}
}

func (h *Handler) GetAvailability(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Query("doctor_id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid doctor ID")
		return
	}

	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid from date, expected YYYY-MM-DD")
		return
	}

	to := from
	if v := c.Query("to"); v != "" {
		to, err = time.Parse(dateLayout, v)
		if err != nil {
			httputil.RespondWithBadRequest(c, "invalid to date, expected YYYY-MM-DD")
			return
		}
	}

	days, err := h.service.GetAvailability(c.Request.Context(), doctorID, from, to)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, days)
}

func (h *Handler) BookSlot(c *gin.Context) {
	var req model.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}

	minutes, err := scheduling.ParseClock(req.SlotStart)
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid slot start, expected HH:MM")
		return
	}
	slotStart := date.Add(time.Duration(minutes) * time.Minute)

	appointment, err := h.service.BookSlot(c.Request.Context(), req.DoctorID, req.PatientID, date, slotStart, req.Notes)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, appointment)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid appointment ID")
		return
	}

	appointment, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointment)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{}

	if v := c.Query("doctor_id"); v != "" {
		doctorID, err := uuid.Parse(v)
		if err != nil {
			httputil.RespondWithBadRequest(c, "invalid doctor ID")
			return
		}
		filters.DoctorID = &doctorID
	}

	if v := c.Query("patient_id"); v != "" {
		patientID, err := uuid.Parse(v)
		if err != nil {
			httputil.RespondWithBadRequest(c, "invalid patient ID")
			return
		}
		filters.PatientID = &patientID
	}

	if v := c.Query("status"); v != "" {
		status := model.AppointmentStatus(v)
		if !status.Valid() {
			httputil.RespondWithBadRequest(c, "invalid status")
			return
		}
		filters.Status = status
	}

	if v := c.Query("from"); v != "" {
		from, err := time.Parse(dateLayout, v)
		if err != nil {
			httputil.RespondWithBadRequest(c, "invalid from date")
			return
		}
		filters.From = from
	}

	if v := c.Query("to"); v != "" {
		to, err := time.Parse(dateLayout, v)
		if err != nil {
			httputil.RespondWithBadRequest(c, "invalid to date")
			return
		}
		filters.To = to
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) TransitionStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid appointment ID")
		return
	}

	var req model.TransitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return
	}

	appointment, err := h.service.TransitionStatus(c.Request.Context(), id, req.Status, req.Reason)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointment)
}
