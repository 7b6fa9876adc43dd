package service

import (
	"aula_virtual_backend/internal/config"
	"aula_virtual_backend/internal/model"
	"aula_virtual_backend/internal/repository"
	"aula_virtual_backend/internal/util"
	"aula_virtual_backend/pkg/logger"
	"aula_virtual_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ScoringService grades submissions against the quiz answer key and persists
// one append-only attempt per submission. Passing attempts get a verify code
// and are handed to the issuance ledger.
type ScoringService struct {
	QuizRepo     *repository.QuizRepository
	CourseRepo   *repository.CourseRepository
	AttemptRepo  *repository.AttemptRepository
	Certificates *CertificateService
	Config       *config.Config
}

func NewScoringService(
	quizRepo *repository.QuizRepository,
	courseRepo *repository.CourseRepository,
	attemptRepo *repository.AttemptRepository,
	certificates *CertificateService,
	cfg *config.Config,
) *ScoringService {
	return &ScoringService{
		QuizRepo:     quizRepo,
		CourseRepo:   courseRepo,
		AttemptRepo:  attemptRepo,
		Certificates: certificates,
		Config:       cfg,
	}
}

type QuizSubmissionRequest struct {
	FullName         string                      `json:"fullName" binding:"required,min=3,max=120"`
	CollegiateNumber string                      `json:"collegiateNumber" binding:"required,min=1,max=50"`
	Answers          map[uint]model.ChoiceOption `json:"answers" binding:"required"`
}

type SubmissionResult struct {
	AttemptID    string  `json:"attemptId"`
	ScorePercent int     `json:"scorePercent"`
	Passed       bool    `json:"passed"`
	VerifyCode   *string `json:"verifyCode,omitempty"`
	FolioCode    *string `json:"folioCode,omitempty"`
}

// SubmitQuiz validates, grades and persists one attempt. Re-submissions are
// independent attempts; nothing here ever updates a previous row.
func (s *ScoringService) SubmitQuiz(principal *util.Claims, quizID uint, req QuizSubmissionRequest) (*SubmissionResult, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil || !quiz.Enabled {
		return nil, util.ErrQuizUnavailable
	}

	course, err := s.CourseRepo.FindByID(quiz.CourseID)
	if err != nil || !course.Published {
		return nil, util.ErrCourseUnavailable
	}

	questions, err := s.QuizRepo.ListQuestions(quiz.ID)
	if err != nil {
		return nil, err
	}
	// guaranteed upstream by quiz administration, re-checked anyway
	if len(questions) != model.QuizQuestionCount {
		return nil, util.ErrMalformedQuiz
	}

	correct, err := gradeAnswers(questions, req.Answers)
	if err != nil {
		return nil, err
	}

	score := scorePercent(correct, len(questions))
	passPercent := quiz.PassPercent
	if passPercent <= 0 {
		passPercent = model.DefaultPassPercent
	}
	passed := score >= passPercent

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, err
	}

	attempt := &model.QuizAttempt{
		QuizID:           quiz.ID,
		CourseID:         quiz.CourseID,
		FullName:         req.FullName,
		CollegiateNumber: req.CollegiateNumber,
		Answers:          answersJSON,
		ScorePercent:     score,
		Passed:           passed,
	}
	if principal != nil {
		uid := principal.UserID
		attempt.UserID = &uid
	}

	if err := s.createWithVerifyCode(attempt, passed); err != nil {
		return nil, err
	}

	monitoring.ObserveAttempt(passed)

	result := &SubmissionResult{
		AttemptID:    attempt.ID,
		ScorePercent: score,
		Passed:       passed,
		VerifyCode:   attempt.VerifyCode,
	}

	if passed {
		cert, err := s.Certificates.Issue(attempt)
		if err != nil {
			// The attempt is committed; a retried issuance lands on the
			// idempotent path. Surface the result the learner earned.
			logger.Log.Error("certificate issuance failed after scoring",
				zap.String("attemptId", attempt.ID), zap.Error(err))
		} else {
			result.FolioCode = &cert.FolioCode
		}
	}

	return result, nil
}

// createWithVerifyCode inserts the attempt, minting a fresh verify code for
// passing attempts. A collision on the verify_code unique index regenerates
// with new randomness; running out of retries means the random source is
// broken, which is an operator problem, not the client's.
func (s *ScoringService) createWithVerifyCode(attempt *model.QuizAttempt, passed bool) error {
	if !passed {
		return s.AttemptRepo.Create(attempt)
	}

	retries := s.Config.Certificate.VerifyCodeRetries
	for i := 0; i < retries; i++ {
		code, err := generateVerifyCode()
		if err != nil {
			return util.ErrVerifyCodeEntropy
		}
		attempt.VerifyCode = &code

		err = s.AttemptRepo.Create(attempt)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		logger.Log.Warn("verify code collision, regenerating",
			zap.Int("attempt", i+1))
	}
	return util.ErrVerifyCodeEntropy
}

// gradeAnswers counts correct choices. Every configured question must carry
// a submitted choice in {A,B,C}; anything else is a malformed submission.
func gradeAnswers(questions []model.QuizQuestion, answers map[uint]model.ChoiceOption) (int, error) {
	correct := 0
	for _, q := range questions {
		choice, ok := answers[q.ID]
		if !ok || !choice.Valid() {
			return 0, util.ErrMalformedSubmission
		}
		if choice == q.CorrectOption {
			correct++
		}
	}
	return correct, nil
}

// scorePercent rounds half-up: 9/10 correct scores 90.
func scorePercent(correct, total int) int {
	return int(math.Round(float64(correct) / float64(total) * 100))
}
