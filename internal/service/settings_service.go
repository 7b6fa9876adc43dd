package service

import (
	"aula_virtual_backend/internal/model"
	"aula_virtual_backend/internal/repository"
)

// SettingsService fronts the single mutable presentation record. Issuance
// never goes through here; it reads the row inside its own transaction.
type SettingsService struct {
	Repo *repository.CertificateSettingsRepository
}

func NewSettingsService(repo *repository.CertificateSettingsRepository) *SettingsService {
	return &SettingsService{Repo: repo}
}

type CertificateSettingsRequest struct {
	InstitutionName string `json:"institutionName" binding:"required,max=255"`
	HeaderLine      string `json:"headerLine" binding:"max=255"`
	LogoURL         string `json:"logoUrl" binding:"omitempty,max=512"`
	WatermarkURL    string `json:"watermarkUrl" binding:"omitempty,max=512"`
	Signer1Name     string `json:"signer1Name" binding:"max=120"`
	Signer1Title    string `json:"signer1Title" binding:"max=120"`
	Signer1ImageURL string `json:"signer1ImageUrl" binding:"omitempty,max=512"`
	Signer2Name     string `json:"signer2Name" binding:"max=120"`
	Signer2Title    string `json:"signer2Title" binding:"max=120"`
	Signer2ImageURL string `json:"signer2ImageUrl" binding:"omitempty,max=512"`
	FooterNote      string `json:"footerNote"`
}

func (s *SettingsService) Get() (*model.CertificateSettings, error) {
	return s.Repo.Get(nil)
}

func (s *SettingsService) Update(req CertificateSettingsRequest) (*model.CertificateSettings, error) {
	current, err := s.Repo.Get(nil)
	if err != nil {
		return nil, err
	}

	current.InstitutionName = req.InstitutionName
	current.HeaderLine = req.HeaderLine
	current.LogoURL = req.LogoURL
	current.WatermarkURL = req.WatermarkURL
	current.Signer1Name = req.Signer1Name
	current.Signer1Title = req.Signer1Title
	current.Signer1ImageURL = req.Signer1ImageURL
	current.Signer2Name = req.Signer2Name
	current.Signer2Title = req.Signer2Title
	current.Signer2ImageURL = req.Signer2ImageURL
	current.FooterNote = req.FooterNote

	if err := s.Repo.Update(current); err != nil {
		return nil, err
	}
	return current, nil
}
