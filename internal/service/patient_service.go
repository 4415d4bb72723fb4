package service

import (
	"github.com/sirupsen/logrus"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
	"github.com/cliniccore/clinic-appointment-service/internal/repository"
)

// PatientService adapts the patient directory for the surfaces. The
// directory keeps simple save-or-overwrite semantics; the
// identify-or-register flow lives in the console and HTTP layers.
type PatientService interface {
	GetProfile(patientId string) (domain.Patient, error)
	Register(patientId, name, phone, email string) (domain.Patient, error)
}

type patientService struct {
	repo   repository.PatientRepository
	logger *logrus.Logger
}

func NewPatientService(repo repository.PatientRepository, logger *logrus.Logger) PatientService {
	return &patientService{
		repo:   repo,
		logger: logger,
	}
}

func (s *patientService) GetProfile(patientId string) (domain.Patient, error) {
	return s.repo.GetById(patientId)
}

func (s *patientService) Register(patientId, name, phone, email string) (domain.Patient, error) {
	s.logger.WithFields(logrus.Fields{
		"Function":  "Register",
		"PatientId": patientId,
	}).Info("Registering patient")

	patient := domain.Patient{
		PatientId: patientId,
		Name:      name,
		Phone:     phone,
		Email:     email,
	}
	if err := s.repo.Save(&patient); err != nil {
		s.logger.WithError(err).Error("Failed to register patient")
		return domain.Patient{}, err
	}
	return patient, nil
}
