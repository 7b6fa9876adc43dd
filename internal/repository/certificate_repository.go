package repository

import (
	"aula_virtual_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) FindByAttemptID(tx *gorm.DB, attemptID string) (*model.Certificate, error) {
	var c model.Certificate
	err := tx.Where("attempt_id = ?", attemptID).First(&c).Error
	return &c, err
}

// FindByVerifyCode resolves a public verification code. The match is exact
// and joins back to the attempt so a code can never resolve through a failed
// attempt, whatever state the certificate table is in.
func (r *CertificateRepository) FindByVerifyCode(code string) (*model.Certificate, error) {
	var c model.Certificate
	err := r.DB.
		Joins("JOIN quiz_attempts ON quiz_attempts.id = certificates.attempt_id AND quiz_attempts.passed = ?", true).
		Where("certificates.verify_code = ?", code).
		First(&c).Error
	return &c, err
}

// AllocateFolioNumber locks the counter row, returns its value and bumps it.
// Must run inside the issuance transaction: the row lock is what serializes
// concurrent issuances onto distinct numbers.
func (r *CertificateRepository) AllocateFolioNumber(tx *gorm.DB) (int64, error) {
	var counter model.FolioCounter
	q := tx
	// sqlite has no FOR UPDATE; its single writer serializes the bump anyway
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Where("id = ?", 1).First(&counter).Error; err != nil {
		return 0, err
	}

	n := counter.NextNumber
	if err := tx.Model(&model.FolioCounter{}).
		Where("id = ?", 1).
		Update("next_number", n+1).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// FolioCodesByAttemptIDs maps attempt ids to their folio codes in one query.
func (r *CertificateRepository) FolioCodesByAttemptIDs(attemptIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(attemptIDs))
	if len(attemptIDs) == 0 {
		return out, nil
	}
	var rows []model.Certificate
	err := r.DB.Select("attempt_id", "folio_code").
		Where("attempt_id IN ?", attemptIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, c := range rows {
		out[c.AttemptID] = c.FolioCode
	}
	return out, nil
}

func (r *CertificateRepository) Create(tx *gorm.DB, cert *model.Certificate) error {
	return tx.Create(cert).Error
}

func (r *CertificateRepository) ListIssued(page, limit int) ([]model.Certificate, int64, error) {
	var cs []model.Certificate
	var total int64
	query := r.DB.Model(&model.Certificate{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("folio_number desc").Offset(offset).Limit(limit).Find(&cs).Error
	return cs, total, err
}
