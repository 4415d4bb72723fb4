package di

import (
	"io"
	"log"

	"github.com/cliniccore/clinic-appointment-service/internal/console"
	"github.com/cliniccore/clinic-appointment-service/internal/domain"
	"github.com/cliniccore/clinic-appointment-service/internal/notification"
	"github.com/cliniccore/clinic-appointment-service/internal/repository"
	"github.com/cliniccore/clinic-appointment-service/internal/service"
	"github.com/cliniccore/clinic-appointment-service/logs"
)

// BuildConsoleApp wires the in-memory service graph behind the
// interactive menu and seeds the doctor catalogue and demo patients.
func BuildConsoleApp(in io.Reader, out io.Writer) *console.Menu {
	logger := logs.NewLogger()

	patientRepo := repository.NewMemoryPatientRepository()
	doctorRepo := repository.NewMemoryDoctorRepository()
	appointmentRepo := repository.NewMemoryAppointmentRepository()
	seedData(patientRepo, doctorRepo)

	dispatcher := notification.NewConsoleDispatcher(out)

	appointmentService, err := service.NewAppointmentService(appointmentRepo, patientRepo, doctorRepo, dispatcher, logger)
	if err != nil {
		log.Fatalf("Failed to initialize appointment service: %v", err)
	}
	paymentService := service.NewPaymentService(appointmentRepo, patientRepo, doctorRepo, dispatcher, logger)
	patientService := service.NewPatientService(patientRepo, logger)

	return console.NewMenu(patientService, appointmentService, paymentService, in, out)
}

func seedData(patients repository.PatientRepository, doctors repository.DoctorRepository) {
	catalogue := []domain.Doctor{
		{DoctorId: 1, Name: "Dr. Zhang", Department: "Internal Medicine", Schedule: "Mon-Fri 9:00-12:00, 14:00-17:00", Fee: 50.0},
		{DoctorId: 2, Name: "Dr. Li", Department: "Surgery", Schedule: "Tue, Thu, Sat 8:00-12:00", Fee: 60.0},
		{DoctorId: 3, Name: "Dr. Wang", Department: "Pediatrics", Schedule: "Mon-Sat 13:00-18:00", Fee: 45.0},
	}
	for i := range catalogue {
		if err := doctors.Save(&catalogue[i]); err != nil {
			log.Fatalf("Failed to seed doctors: %v", err)
		}
	}

	demo := []domain.Patient{
		{PatientId: "patient1", Name: "Zhang San", Phone: "12345678901", Email: "zhangsan@example.com"},
		{PatientId: "patient2", Name: "Li Si", Phone: "12345678902", Email: "lisi@example.com"},
	}
	for i := range demo {
		if err := patients.Save(&demo[i]); err != nil {
			log.Fatalf("Failed to seed patients: %v", err)
		}
	}
}
