package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository/memory"
	"github.com/medibook/booking-api/internal/service/booking"
	"github.com/medibook/booking-api/pkg/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validator.RegisterCustomValidations(); err != nil {
		panic(err)
	}
}

type testServer struct {
	engine   *gin.Engine
	doctorID uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	doctors := memory.NewDoctorRepository()
	schedules := memory.NewScheduleRepository()
	appointments := memory.NewAppointmentRepository()

	doctor := &model.Doctor{Name: "Dr. Grant", Email: "grant@example.com"}
	require.NoError(t, doctors.Create(context.Background(), doctor))

	count := 2
	window := &model.ScheduleWindow{
		DoctorID:  doctor.ID,
		Day:       model.Monday,
		StartTime: "09:00",
		EndTime:   "10:00",
		SlotCount: &count,
		Status:    model.WindowStatusAvailable,
	}
	require.NoError(t, schedules.Create(context.Background(), window))

	svc := booking.NewService(appointments, schedules, doctors, nil, nil, nil, nil)

	engine := gin.New()
	NewHandler(svc).RegisterRoutes(engine.Group("/api/v1"))

	return &testServer{engine: engine, doctorID: doctor.ID}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func bookBody(doctorID uuid.UUID, slotStart string) map[string]interface{} {
	return map[string]interface{}{
		"doctor_id":  doctorID,
		"patient_id": uuid.New(),
		"date":       "2025-03-03",
		"slot_start": slotStart,
	}
}

func TestBookSlotEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/appointments", bookBody(s.doctorID, "09:00"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Success bool              `json:"success"`
		Data    model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, model.AppointmentStatusPending, resp.Data.Status)
	assert.Equal(t, time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC), resp.Data.SlotStart.UTC())
}

func TestBookSlotEndpoint_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]interface{}
		want int
	}{
		{
			name: "malformed slot start rejected by binding",
			body: bookBody(s.doctorID, "9:00"),
			want: http.StatusBadRequest,
		},
		{
			name: "malformed date",
			body: func() map[string]interface{} {
				b := bookBody(s.doctorID, "09:00")
				b["date"] = "03/03/2025"
				return b
			}(),
			want: http.StatusBadRequest,
		},
		{
			name: "slot not offered",
			body: bookBody(s.doctorID, "09:15"),
			want: http.StatusBadRequest,
		},
		{
			name: "unknown doctor",
			body: bookBody(uuid.New(), "09:00"),
			want: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/appointments", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestBookSlotEndpoint_Conflict(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/appointments", bookBody(s.doctorID, "09:00"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/appointments", bookBody(s.doctorID, "09:00"))
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestAvailabilityEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/appointments", bookBody(s.doctorID, "09:00"))
	require.Equal(t, http.StatusCreated, rec.Code)

	path := fmt.Sprintf("/api/v1/appointments/availability?doctor_id=%s&from=2025-03-03&to=2025-03-03", s.doctorID)
	rec = s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data []model.DayAvailability `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Len(t, resp.Data[0].Slots, 2)
	assert.False(t, resp.Data[0].Slots[0].IsFree)
	assert.True(t, resp.Data[0].Slots[1].IsFree)
}

func TestAvailabilityEndpoint_BadQuery(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/appointments/availability?doctor_id=nope&from=2025-03-03", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	path := fmt.Sprintf("/api/v1/appointments/availability?doctor_id=%s&from=yesterday", s.doctorID)
	rec = s.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransitionStatusEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/appointments", bookBody(s.doctorID, "09:00"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	path := fmt.Sprintf("/api/v1/appointments/%s/status", created.Data.ID)

	rec = s.do(t, http.MethodPatch, path, map[string]interface{}{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Confirmed cannot jump back to pending.
	rec = s.do(t, http.MethodPatch, path, map[string]interface{}{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, path, map[string]interface{}{"status": "cancelled", "reason": "patient request"})
	require.Equal(t, http.StatusOK, rec.Code)

	var cancelled struct {
		Data model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancelled))
	require.NotNil(t, cancelled.Data.CancelReason)
	assert.Equal(t, "patient request", *cancelled.Data.CancelReason)
}

func TestGetAppointmentEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/appointments/%s", uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/appointments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
