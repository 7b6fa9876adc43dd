package service

import (
	"fmt"
	"testing"

	"aula_virtual_backend/internal/config"
	"aula_virtual_backend/internal/model"
	"aula_virtual_backend/internal/repository"
	"aula_virtual_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database with the production schema and seed
// rows. A single connection keeps sqlite's writer semantics deterministic
// under the concurrency tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			BaseURL: "https://aula.example.com",
		},
		Certificate: config.CertificateConfig{
			FolioPrefix:       "CPG-AV",
			VerifyCodeRetries: 5,
			IssueRetries:      3,
		},
	}
}

type testEnv struct {
	DB           *gorm.DB
	Config       *config.Config
	Scoring      *ScoringService
	Certificates *CertificateService
	Verification *VerificationService
	Settings     *SettingsService
	Attempts     *repository.AttemptRepository
	Certs        *repository.CertificateRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	cfg := testConfig()

	quizRepo := repository.NewQuizRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	certRepo := repository.NewCertificateRepository(db)
	settingsRepo := repository.NewCertificateSettingsRepository(db)

	certs := NewCertificateService(db, certRepo, courseRepo, settingsRepo, cfg)

	return &testEnv{
		DB:           db,
		Config:       cfg,
		Scoring:      NewScoringService(quizRepo, courseRepo, attemptRepo, certs, cfg),
		Certificates: certs,
		Verification: NewVerificationService(attemptRepo, certRepo, nil, cfg),
		Settings:     NewSettingsService(settingsRepo),
		Attempts:     attemptRepo,
		Certs:        certRepo,
	}
}

// seedQuiz creates a published course with an enabled ten-question quiz.
// Every question's correct choice is A.
func seedQuiz(t *testing.T, db *gorm.DB) *model.Quiz {
	t.Helper()

	course := &model.Course{
		Title:           "Ética profesional",
		DurationSeconds: 8100,
		Published:       true,
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}

	quiz := &model.Quiz{
		CourseID:    course.ID,
		Title:       "Evaluación final",
		PassPercent: 80,
		Enabled:     true,
	}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	for i := 1; i <= model.QuizQuestionCount; i++ {
		q := &model.QuizQuestion{
			QuizID:        quiz.ID,
			Prompt:        fmt.Sprintf("Pregunta %d", i),
			OptionA:       "a",
			OptionB:       "b",
			OptionC:       "c",
			CorrectOption: model.ChoiceA,
			SortOrder:     i,
		}
		if err := db.Create(q).Error; err != nil {
			t.Fatalf("seed question %d: %v", i, err)
		}
	}
	return quiz
}

// answersWithCorrect builds a full answer map with exactly correct answers
// matching the seeded key (A) and the rest set to B.
func answersWithCorrect(t *testing.T, db *gorm.DB, quizID uint, correct int) map[uint]model.ChoiceOption {
	t.Helper()

	var questions []model.QuizQuestion
	if err := db.Where("quiz_id = ?", quizID).Order("sort_order asc").Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}

	answers := make(map[uint]model.ChoiceOption, len(questions))
	for i, q := range questions {
		if i < correct {
			answers[q.ID] = model.ChoiceA
		} else {
			answers[q.ID] = model.ChoiceB
		}
	}
	return answers
}

func submission(answers map[uint]model.ChoiceOption) QuizSubmissionRequest {
	return QuizSubmissionRequest{
		FullName:         "María Pérez",
		CollegiateNumber: "COL-1234",
		Answers:          answers,
	}
}
