package service

import (
	"aula_virtual_backend/internal/config"
	"aula_virtual_backend/internal/model"
	"aula_virtual_backend/internal/repository"
	"aula_virtual_backend/internal/util"
	"aula_virtual_backend/pkg/logger"
	"aula_virtual_backend/pkg/monitoring"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CertificateService is the issuance ledger. Every passing attempt gets
// exactly one certificate with a gapless, monotonically increasing folio
// number and a settings snapshot frozen at the moment of issuance.
type CertificateService struct {
	DB           *gorm.DB
	CertRepo     *repository.CertificateRepository
	CourseRepo   *repository.CourseRepository
	SettingsRepo *repository.CertificateSettingsRepository

	mu           sync.RWMutex
	folioPrefix  string
	issueRetries int
}

func NewCertificateService(
	db *gorm.DB,
	certRepo *repository.CertificateRepository,
	courseRepo *repository.CourseRepository,
	settingsRepo *repository.CertificateSettingsRepository,
	cfg *config.Config,
) *CertificateService {
	return &CertificateService{
		DB:           db,
		CertRepo:     certRepo,
		CourseRepo:   courseRepo,
		SettingsRepo: settingsRepo,
		folioPrefix:  cfg.Certificate.FolioPrefix,
		issueRetries: cfg.Certificate.IssueRetries,
	}
}

// SetFolioPrefix applies a hot-reloaded prefix. Already-issued folio codes
// are immutable and keep whatever prefix they were stamped with.
func (s *CertificateService) SetFolioPrefix(prefix string) {
	if prefix == "" {
		return
	}
	s.mu.Lock()
	s.folioPrefix = prefix
	s.mu.Unlock()
}

func (s *CertificateService) folioCode(n int64) string {
	s.mu.RLock()
	prefix := s.folioPrefix
	s.mu.RUnlock()
	return fmt.Sprintf("%s-%06d", prefix, n)
}

// Issue creates the certificate for a passing attempt, or returns the
// existing one. Safe to call any number of times for the same attempt.
//
// The existence check, the folio allocation, the settings read and the
// insert all run in one transaction: a lost race rolls the whole unit back,
// so no folio number is ever burned without its certificate.
func (s *CertificateService) Issue(attempt *model.QuizAttempt) (*model.Certificate, error) {
	if attempt == nil || !attempt.Passed || attempt.VerifyCode == nil {
		return nil, util.ErrAttemptNotPassed
	}

	var lastErr error
	for i := 0; i < s.issueRetries; i++ {
		cert, created, err := s.issueOnce(attempt)
		if err == nil {
			if created {
				monitoring.CertificateCounter.Inc()
				logger.Log.Info("certificate issued",
					zap.String("attemptId", attempt.ID),
					zap.String("folioCode", cert.FolioCode))
			}
			return cert, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race for this attempt: the next pass returns the
			// certificate the winner committed
			lastErr = err
			continue
		}
		if !util.Transient(err) {
			return nil, err
		}
		lastErr = err
		time.Sleep(time.Duration(i+1) * 50 * time.Millisecond)
	}
	return nil, fmt.Errorf("certificate issuance exhausted retries: %w", lastErr)
}

func (s *CertificateService) issueOnce(attempt *model.QuizAttempt) (*model.Certificate, bool, error) {
	// catalog read, no need to hold the issuance transaction open for it
	course, err := s.CourseRepo.FindByID(attempt.CourseID)
	if err != nil {
		return nil, false, err
	}

	var issued *model.Certificate
	created := false

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := s.CertRepo.FindByAttemptID(tx, attempt.ID)
		if err == nil {
			issued = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		n, err := s.CertRepo.AllocateFolioNumber(tx)
		if err != nil {
			return err
		}

		// read inside the transaction: one self-consistent version, never a
		// mix of pre- and post-edit fields
		settings, err := s.SettingsRepo.Get(tx)
		if err != nil {
			return err
		}
		snapshot, err := settings.Snapshot().Marshal()
		if err != nil {
			return err
		}

		cert := &model.Certificate{
			AttemptID:        attempt.ID,
			FolioNumber:      n,
			FolioCode:        s.folioCode(n),
			VerifyCode:       *attempt.VerifyCode,
			FullName:         attempt.FullName,
			CollegiateNumber: attempt.CollegiateNumber,
			CourseTitle:      course.Title,
			DurationSeconds:  course.DurationSeconds,
			SettingsSnapshot: snapshot,
			IssuedAt:         time.Now(),
		}
		if err := s.CertRepo.Create(tx, cert); err != nil {
			return err
		}
		issued = cert
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return issued, created, nil
}

func (s *CertificateService) ListIssued(page, limit int) ([]model.Certificate, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CertRepo.ListIssued(page, limit)
}
