package repository

import (
	"errors"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
	"gorm.io/gorm"
)

// PatientRepository is the directory contract the booking core
// consumes. Registration rules beyond save-or-overwrite stay with the
// directory itself.
type PatientRepository interface {
	GetById(patientId string) (domain.Patient, error)
	Save(patient *domain.Patient) error
}

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{
		db: db,
	}
}

func (r *patientRepository) GetById(patientId string) (domain.Patient, error) {
	var patient domain.Patient
	err := r.db.Where("patient_id = ?", patientId).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Patient{}, domain.ErrUnknownPatient
		}
		return domain.Patient{}, err
	}
	return patient, nil
}

func (r *patientRepository) Save(patient *domain.Patient) error {
	return r.db.Save(patient).Error
}
