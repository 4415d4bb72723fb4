package config

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/cliniccore/clinic-appointment-service/internal/handler"
	"github.com/cliniccore/clinic-appointment-service/internal/notification"
	"github.com/cliniccore/clinic-appointment-service/internal/repository"
	"github.com/cliniccore/clinic-appointment-service/internal/service"
	"github.com/cliniccore/clinic-appointment-service/internal/utils"
	"github.com/cliniccore/clinic-appointment-service/logs"
)

// ServerSetup wires the Postgres-backed service graph and returns the
// HTTP router.
func ServerSetup() *gin.Engine {
	logger := logs.NewLogger()
	db := InitDatabase()

	appointmentRepo := repository.NewAppointmentRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)

	dispatcher := newDispatcher()

	appointmentService, err := service.NewAppointmentService(appointmentRepo, patientRepo, doctorRepo, dispatcher, logger)
	if err != nil {
		log.Fatalf("Failed to initialize appointment service: %v", err)
	}
	paymentService := service.NewPaymentService(appointmentRepo, patientRepo, doctorRepo, dispatcher, logger)
	patientService := service.NewPatientService(patientRepo, logger)

	utils.StartCronScheduler(appointmentService)

	appointmentHandler := handler.NewAppointmentHandler(patientService, appointmentService, paymentService)
	router := gin.Default()
	appointmentHandler.RegisterRoutes(router)

	return router
}

// newDispatcher picks the notification channel from NOTIFY_MODE:
// "kafka", "email", or anything else for plain log output.
func newDispatcher() notification.Dispatcher {
	switch os.Getenv("NOTIFY_MODE") {
	case "kafka":
		return notification.NewKafkaDispatcher(os.Getenv("KAFKA_BROKER"))
	case "email":
		return notification.NewEmailDispatcher()
	default:
		return notification.NewConsoleDispatcher(os.Stdout)
	}
}
