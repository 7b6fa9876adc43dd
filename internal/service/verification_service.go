package service

import (
	"aula_virtual_backend/internal/config"
	"aula_virtual_backend/internal/model"
	"aula_virtual_backend/internal/repository"
	"aula_virtual_backend/internal/util"
	"aula_virtual_backend/pkg/logger"
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CertificateView is the owner/admin projection: everything the document
// renderer collaborator needs, display strings preformatted.
type CertificateView struct {
	AttemptID        string                 `json:"attemptId"`
	FolioCode        string                 `json:"folioCode"`
	VerifyCode       string                 `json:"verifyCode"`
	VerifyURL        string                 `json:"verifyUrl"`
	FullName         string                 `json:"fullName"`
	CollegiateNumber string                 `json:"collegiateNumber"`
	CourseTitle      string                 `json:"courseTitle"`
	DurationSeconds  int                    `json:"durationSeconds"`
	DurationLabel    string                 `json:"durationLabel"`
	IssuedAt         time.Time              `json:"issuedAt"`
	IssuedDateLabel  string                 `json:"issuedDateLabel"`
	Settings         model.SettingsSnapshot `json:"settings"`
}

// PublicCertificateView proves validity without leaking internal identifiers.
// No attempt id and no user id: the verify code is the only key it echoes.
type PublicCertificateView struct {
	FolioCode        string                 `json:"folioCode"`
	VerifyCode       string                 `json:"verifyCode"`
	FullName         string                 `json:"fullName"`
	CollegiateNumber string                 `json:"collegiateNumber"`
	CourseTitle      string                 `json:"courseTitle"`
	DurationSeconds  int                    `json:"durationSeconds"`
	DurationLabel    string                 `json:"durationLabel"`
	IssuedAt         time.Time              `json:"issuedAt"`
	IssuedDateLabel  string                 `json:"issuedDateLabel"`
	Settings         model.SettingsSnapshot `json:"settings"`
}

// VerificationService resolves certificate lookups under the two visibility
// policies: authenticated owner/admin by attempt id, anonymous by verify code.
type VerificationService struct {
	AttemptRepo *repository.AttemptRepository
	CertRepo    *repository.CertificateRepository
	Redis       *redis.Client
	BaseURL     string
}

const publicCacheTTL = 24 * time.Hour

func NewVerificationService(
	attemptRepo *repository.AttemptRepository,
	certRepo *repository.CertificateRepository,
	rdb *redis.Client,
	cfg *config.Config,
) *VerificationService {
	return &VerificationService{
		AttemptRepo: attemptRepo,
		CertRepo:    certRepo,
		Redis:       rdb,
		BaseURL:     cfg.Server.BaseURL,
	}
}

// ResolveByAttempt returns the full certificate view for the attempt's owner
// or an administrator.
func (s *VerificationService) ResolveByAttempt(principal *util.Claims, attemptID string) (*CertificateView, error) {
	if principal == nil {
		return nil, util.ErrPermissionDenied
	}

	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}

	isOwner := attempt.UserID != nil && *attempt.UserID == principal.UserID
	if !isOwner && principal.Role != model.Admin {
		return nil, util.ErrPermissionDenied
	}

	cert, err := s.CertRepo.FindByAttemptID(s.CertRepo.DB, attempt.ID)
	if err != nil {
		// failed attempts have no certificate; same shape as a missing one
		return nil, util.ErrCertificateNotFound
	}

	snapshot, err := decodeSnapshot(cert)
	if err != nil {
		return nil, err
	}

	return &CertificateView{
		AttemptID:        attempt.ID,
		FolioCode:        cert.FolioCode,
		VerifyCode:       cert.VerifyCode,
		VerifyURL:        s.verifyURL(cert.VerifyCode),
		FullName:         cert.FullName,
		CollegiateNumber: cert.CollegiateNumber,
		CourseTitle:      cert.CourseTitle,
		DurationSeconds:  cert.DurationSeconds,
		DurationLabel:    util.FormatDuration(cert.DurationSeconds),
		IssuedAt:         cert.IssuedAt,
		IssuedDateLabel:  util.FormatIssuedDate(cert.IssuedAt),
		Settings:         snapshot,
	}, nil
}

// ResolveByCode serves the public verification page. Every miss (malformed
// code, unknown code, code on a failed attempt) collapses into the one
// ErrCertificateNotFound so responses carry no oracle.
func (s *VerificationService) ResolveByCode(ctx context.Context, code string) (*PublicCertificateView, error) {
	if code == "" {
		return nil, util.ErrCertificateNotFound
	}

	if view := s.cachedView(ctx, code); view != nil {
		return view, nil
	}

	cert, err := s.CertRepo.FindByVerifyCode(code)
	if err != nil {
		return nil, util.ErrCertificateNotFound
	}

	snapshot, err := decodeSnapshot(cert)
	if err != nil {
		return nil, err
	}

	view := &PublicCertificateView{
		FolioCode:        cert.FolioCode,
		VerifyCode:       cert.VerifyCode,
		FullName:         cert.FullName,
		CollegiateNumber: cert.CollegiateNumber,
		CourseTitle:      cert.CourseTitle,
		DurationSeconds:  cert.DurationSeconds,
		DurationLabel:    util.FormatDuration(cert.DurationSeconds),
		IssuedAt:         cert.IssuedAt,
		IssuedDateLabel:  util.FormatIssuedDate(cert.IssuedAt),
		Settings:         snapshot,
	}

	s.cacheView(ctx, code, view)
	return view, nil
}

// AttemptSummary is one row of a learner's own history: the scored result
// plus the folio code of the certificate it earned, when one exists.
type AttemptSummary struct {
	AttemptID    string    `json:"attemptId"`
	QuizID       uint      `json:"quizId"`
	CourseID     uint      `json:"courseId"`
	ScorePercent int       `json:"scorePercent"`
	Passed       bool      `json:"passed"`
	SubmittedAt  time.Time `json:"submittedAt"`
	VerifyCode   *string   `json:"verifyCode,omitempty"`
	FolioCode    string    `json:"folioCode,omitempty"`
}

// ListMyAttempts returns the principal's own attempts, newest first, joined
// to the folio codes of issued certificates.
func (s *VerificationService) ListMyAttempts(principal *util.Claims, page, limit int) ([]AttemptSummary, int64, error) {
	if principal == nil {
		return nil, 0, util.ErrPermissionDenied
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	attempts, total, err := s.AttemptRepo.ListByUser(principal.UserID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	passedIDs := make([]string, 0, len(attempts))
	for _, a := range attempts {
		if a.Passed {
			passedIDs = append(passedIDs, a.ID)
		}
	}
	folios, err := s.CertRepo.FolioCodesByAttemptIDs(passedIDs)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		summaries = append(summaries, AttemptSummary{
			AttemptID:    a.ID,
			QuizID:       a.QuizID,
			CourseID:     a.CourseID,
			ScorePercent: a.ScorePercent,
			Passed:       a.Passed,
			SubmittedAt:  a.CreatedAt,
			VerifyCode:   a.VerifyCode,
			FolioCode:    folios[a.ID],
		})
	}
	return summaries, total, nil
}

func (s *VerificationService) verifyURL(code string) string {
	if s.BaseURL == "" {
		return "/certificates/" + code
	}
	return s.BaseURL + "/certificates/" + code
}

// Certificates are immutable once issued, so cached views never go stale.
// The cache is best-effort: redis being down only costs a DB read.
func (s *VerificationService) cachedView(ctx context.Context, code string) *PublicCertificateView {
	if s.Redis == nil {
		return nil
	}
	raw, err := s.Redis.Get(ctx, publicCacheKey(code)).Bytes()
	if err != nil {
		return nil
	}
	var view PublicCertificateView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil
	}
	return &view
}

func (s *VerificationService) cacheView(ctx context.Context, code string, view *PublicCertificateView) {
	if s.Redis == nil {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, publicCacheKey(code), raw, publicCacheTTL).Err(); err != nil {
		logger.Log.Debug("public certificate cache write failed", zap.Error(err))
	}
}

func publicCacheKey(code string) string {
	return "cert:public:" + code
}

func decodeSnapshot(cert *model.Certificate) (model.SettingsSnapshot, error) {
	var snapshot model.SettingsSnapshot
	if len(cert.SettingsSnapshot) == 0 {
		return snapshot, nil
	}
	err := json.Unmarshal(cert.SettingsSnapshot, &snapshot)
	return snapshot, err
}
