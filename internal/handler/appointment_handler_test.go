package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
	"github.com/cliniccore/clinic-appointment-service/internal/notification"
	"github.com/cliniccore/clinic-appointment-service/internal/repository"
	"github.com/cliniccore/clinic-appointment-service/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	patientRepo := repository.NewMemoryPatientRepository()
	doctorRepo := repository.NewMemoryDoctorRepository()
	appointmentRepo := repository.NewMemoryAppointmentRepository()

	require.NoError(t, patientRepo.Save(&domain.Patient{
		PatientId: "patient1", Name: "Zhang San", Phone: "12345678901", Email: "zhangsan@example.com",
	}))
	require.NoError(t, doctorRepo.Save(&domain.Doctor{
		DoctorId: 1, Name: "Dr. Zhang", Department: "Internal Medicine", Schedule: "Mon-Fri 9:00-17:00", Fee: 50.0,
	}))

	dispatcher := notification.NewConsoleDispatcher(io.Discard)

	appointments, err := service.NewAppointmentService(appointmentRepo, patientRepo, doctorRepo, dispatcher, logger)
	require.NoError(t, err)
	payments := service.NewPaymentService(appointmentRepo, patientRepo, doctorRepo, dispatcher, logger)
	patients := service.NewPatientService(patientRepo, logger)

	router := gin.New()
	NewAppointmentHandler(patients, appointments, payments).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func bookOne(t *testing.T, router *gin.Engine) int {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/appointments", gin.H{
		"patient_id":     "patient1",
		"doctor_id":      1,
		"scheduled_time": "2025-06-01 10:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			AppointmentId int `json:"appointment_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data.AppointmentId
}

func TestBookAppointmentEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/v1/appointments", gin.H{
		"patient_id":     "patient1",
		"doctor_id":      1,
		"scheduled_time": "2025-06-01 10:00",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Pending"`)
	assert.Contains(t, rec.Body.String(), `"fee":50`)
}

func TestBookAppointmentEndpointUnknownPatient(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/v1/appointments", gin.H{
		"patient_id":     "ghost",
		"doctor_id":      1,
		"scheduled_time": "2025-06-01 10:00",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookAppointmentEndpointBadDate(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/v1/appointments", gin.H{
		"patient_id":     "patient1",
		"doctor_id":      1,
		"scheduled_time": "June 1st",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayAppointmentEndpoint(t *testing.T) {
	router := newTestRouter(t)
	id := bookOne(t, router)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/appointments/%d/pay", id), gin.H{
		"patient_id": "patient1",
		"method":     "bank_card",
		"amount":     50.00,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"Paid"`)

	// Second pay conflicts.
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/appointments/%d/pay", id), gin.H{
		"patient_id": "patient1",
		"method":     "bank_card",
		"amount":     50.00,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPayAppointmentEndpointAmountMismatch(t *testing.T) {
	router := newTestRouter(t)
	id := bookOne(t, router)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/appointments/%d/pay", id), gin.H{
		"patient_id": "patient1",
		"method":     "bank_card",
		"amount":     49.00,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayAppointmentEndpointForeignOwner(t *testing.T) {
	router := newTestRouter(t)
	id := bookOne(t, router)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/appointments/%d/pay", id), gin.H{
		"patient_id": "patient2",
		"method":     "bank_card",
		"amount":     50.00,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPayAppointmentEndpointBadMethod(t *testing.T) {
	router := newTestRouter(t)
	id := bookOne(t, router)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/appointments/%d/pay", id), gin.H{
		"patient_id": "patient1",
		"method":     "cash",
		"amount":     50.00,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelAppointmentEndpoint(t *testing.T) {
	router := newTestRouter(t)
	id := bookOne(t, router)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/appointments/%d/cancel", id), gin.H{
		"patient_id": "patient1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Cancelled"`)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/appointments/%d/cancel", id), gin.H{
		"patient_id": "patient1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListDoctorsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/doctors", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dr. Zhang")
	assert.Contains(t, rec.Body.String(), "Internal Medicine")
}

func TestRegisterAndFetchPatientEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/patients", gin.H{
		"patient_id": "patient9",
		"name":       "Wang Wu",
		"phone":      "12345678909",
		"email":      "wangwu@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/patients/patient9", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wang Wu")

	rec = doJSON(t, router, http.MethodGet, "/api/v1/patients/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPatientAppointmentsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	bookOne(t, router)
	bookOne(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/patients/patient1/appointments", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}
