package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
	"github.com/cliniccore/clinic-appointment-service/internal/service"
)

const dateTimeLayout = "2006-01-02 15:04"

type AppointmentHandler struct {
	patients     service.PatientService
	appointments service.AppointmentService
	payments     service.PaymentService
}

func NewAppointmentHandler(patients service.PatientService, appointments service.AppointmentService, payments service.PaymentService) *AppointmentHandler {
	return &AppointmentHandler{
		patients:     patients,
		appointments: appointments,
		payments:     payments,
	}
}

func (h *AppointmentHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.POST("/patients", h.RegisterPatient)
		api.GET("/patients/:id", h.GetPatient)
		api.GET("/patients/:id/appointments", h.ListPatientAppointments)
		api.GET("/doctors", h.ListDoctors)
		api.POST("/appointments", h.BookAppointment)
		api.POST("/appointments/:id/cancel", h.CancelAppointment)
		api.POST("/appointments/:id/pay", h.PayAppointment)
	}
}

type registerPatientRequest struct {
	PatientId string `json:"patient_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

func (h *AppointmentHandler) RegisterPatient(c *gin.Context) {
	var req registerPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patient, err := h.patients.Register(req.PatientId, req.Name, req.Phone, req.Email)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Patient registered successfully",
		"data":    patientResponse(patient),
	})
}

func (h *AppointmentHandler) GetPatient(c *gin.Context) {
	patient, err := h.patients.GetProfile(c.Param("id"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": patientResponse(patient)})
}

func (h *AppointmentHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.appointments.ListDoctors()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	data := make([]gin.H, 0, len(doctors))
	for _, doctor := range doctors {
		data = append(data, gin.H{
			"doctor_id":  doctor.DoctorId,
			"name":       doctor.Name,
			"department": doctor.Department,
			"schedule":   doctor.Schedule,
			"fee":        doctor.Fee,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

type bookAppointmentRequest struct {
	PatientId     string `json:"patient_id" binding:"required"`
	DoctorId      int    `json:"doctor_id" binding:"required"`
	ScheduledTime string `json:"scheduled_time" binding:"required"`
}

func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var req bookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheduledTime, err := time.ParseInLocation(dateTimeLayout, req.ScheduledTime, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_time must match format " + dateTimeLayout})
		return
	}

	appointment, err := h.appointments.BookAppointment(req.PatientId, req.DoctorId, scheduledTime)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Appointment booked successfully",
		"data":    appointmentResponse(appointment),
	})
}

type cancelAppointmentRequest struct {
	PatientId string `json:"patient_id" binding:"required"`
}

func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	appointmentId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment id"})
		return
	}
	var req cancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appointment, err := h.appointments.CancelAppointment(appointmentId, req.PatientId)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Appointment cancelled successfully",
		"data":    appointmentResponse(appointment),
	})
}

type payAppointmentRequest struct {
	PatientId string  `json:"patient_id" binding:"required"`
	Method    string  `json:"method" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
}

func (h *AppointmentHandler) PayAppointment(c *gin.Context) {
	appointmentId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment id"})
		return
	}
	var req payAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	method, ok := domain.ParsePaymentMethod(req.Method)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "method must be one of alipay, wechat_pay, bank_card"})
		return
	}

	appointment, err := h.payments.PayForAppointment(appointmentId, req.PatientId, method, req.Amount)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment successful",
		"data":    appointmentResponse(appointment),
	})
}

func (h *AppointmentHandler) ListPatientAppointments(c *gin.Context) {
	appointments, err := h.appointments.FetchAppointmentsByPatient(c.Param("id"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	data := make([]gin.H, 0, len(appointments))
	for _, appointment := range appointments {
		data = append(data, appointmentResponse(appointment))
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func patientResponse(patient domain.Patient) gin.H {
	return gin.H{
		"patient_id": patient.PatientId,
		"name":       patient.Name,
		"phone":      patient.Phone,
		"email":      patient.Email,
	}
}

func appointmentResponse(appointment domain.Appointment) gin.H {
	return gin.H{
		"appointment_id": appointment.AppointmentId,
		"patient_id":     appointment.PatientId,
		"doctor_id":      appointment.DoctorId,
		"scheduled_time": appointment.ScheduledTime.Format(dateTimeLayout),
		"fee":            appointment.Fee,
		"status":         appointment.Status,
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownPatient),
		errors.Is(err, domain.ErrUnknownDoctor),
		errors.Is(err, domain.ErrUnknownAppointment):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOwnershipViolation):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAmountMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
