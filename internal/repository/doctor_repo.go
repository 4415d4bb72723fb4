package repository

import (
	"errors"

	"github.com/cliniccore/clinic-appointment-service/internal/domain"
	"gorm.io/gorm"
)

// DoctorRepository is the read side of the preloaded doctor catalogue.
// ListAll keeps a stable insertion order for schedule display.
type DoctorRepository interface {
	GetById(doctorId int) (domain.Doctor, error)
	ListAll() ([]domain.Doctor, error)
	Save(doctor *domain.Doctor) error
}

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &doctorRepository{
		db: db,
	}
}

func (r *doctorRepository) GetById(doctorId int) (domain.Doctor, error) {
	var doctor domain.Doctor
	err := r.db.Where("doctor_id = ?", doctorId).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Doctor{}, domain.ErrUnknownDoctor
		}
		return domain.Doctor{}, err
	}
	return doctor, nil
}

func (r *doctorRepository) ListAll() ([]domain.Doctor, error) {
	var doctors []domain.Doctor
	err := r.db.Order("doctor_id ASC").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Save(doctor *domain.Doctor) error {
	return r.db.Save(doctor).Error
}
