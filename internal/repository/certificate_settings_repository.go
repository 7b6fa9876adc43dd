package repository

import (
	"aula_virtual_backend/internal/model"
	"errors"

	"gorm.io/gorm"
)

const settingsRowID = 1

type CertificateSettingsRepository struct {
	DB *gorm.DB
}

func NewCertificateSettingsRepository(db *gorm.DB) *CertificateSettingsRepository {
	return &CertificateSettingsRepository{DB: db}
}

// Get reads the settings singleton, creating the empty row on first use.
func (r *CertificateSettingsRepository) Get(tx *gorm.DB) (*model.CertificateSettings, error) {
	if tx == nil {
		tx = r.DB
	}
	var s model.CertificateSettings
	err := tx.First(&s, settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = model.CertificateSettings{}
		s.ID = settingsRowID
		if err := tx.Create(&s).Error; err != nil {
			return nil, err
		}
		return &s, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update replaces the mutable fields of the singleton. Issued certificates
// keep their own frozen snapshots and are unaffected.
func (r *CertificateSettingsRepository) Update(s *model.CertificateSettings) error {
	s.ID = settingsRowID
	return r.DB.Save(s).Error
}
