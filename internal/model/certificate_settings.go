package model

import "encoding/json"

// CertificateSettings is the single admin-editable presentation record.
// Issuance reads it (inside its own transaction) and freezes a snapshot on
// every certificate; it never writes back.
// swagger:model CertificateSettings
type CertificateSettings struct {
	BaseModel
	InstitutionName string `gorm:"size:255" json:"institutionName"`
	HeaderLine      string `gorm:"size:255" json:"headerLine"`
	LogoURL         string `gorm:"size:512" json:"logoUrl"`
	WatermarkURL    string `gorm:"size:512" json:"watermarkUrl"`
	Signer1Name     string `gorm:"size:120" json:"signer1Name"`
	Signer1Title    string `gorm:"size:120" json:"signer1Title"`
	Signer1ImageURL string `gorm:"size:512" json:"signer1ImageUrl"`
	Signer2Name     string `gorm:"size:120" json:"signer2Name"`
	Signer2Title    string `gorm:"size:120" json:"signer2Title"`
	Signer2ImageURL string `gorm:"size:512" json:"signer2ImageUrl"`
	FooterNote      string `gorm:"type:text" json:"footerNote"`
}

func (CertificateSettings) TableName() string {
	return "certificate_settings"
}

// SignerBlock is one signature line on the rendered credential.
type SignerBlock struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// SettingsSnapshot is the typed, immutable copy of the presentation settings
// captured at issuance time. It deliberately shares no memory with the live
// settings row.
type SettingsSnapshot struct {
	InstitutionName string        `json:"institutionName"`
	HeaderLine      string        `json:"headerLine"`
	LogoURL         string        `json:"logoUrl,omitempty"`
	WatermarkURL    string        `json:"watermarkUrl,omitempty"`
	Signers         []SignerBlock `json:"signers"`
	FooterNote      string        `json:"footerNote,omitempty"`
}

// Snapshot deep-copies the current settings into the frozen form stored on
// certificates.
func (s *CertificateSettings) Snapshot() SettingsSnapshot {
	return SettingsSnapshot{
		InstitutionName: s.InstitutionName,
		HeaderLine:      s.HeaderLine,
		LogoURL:         s.LogoURL,
		WatermarkURL:    s.WatermarkURL,
		Signers: []SignerBlock{
			{Name: s.Signer1Name, Title: s.Signer1Title, ImageURL: s.Signer1ImageURL},
			{Name: s.Signer2Name, Title: s.Signer2Title, ImageURL: s.Signer2ImageURL},
		},
		FooterNote: s.FooterNote,
	}
}

func (s SettingsSnapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}
