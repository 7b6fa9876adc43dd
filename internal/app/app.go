package app

import (
	"aula_virtual_backend/internal/config"
	"aula_virtual_backend/internal/controller"
	"aula_virtual_backend/internal/repository"
	"aula_virtual_backend/internal/service"
	"aula_virtual_backend/pkg/database"
	"aula_virtual_backend/pkg/logger"
	"aula_virtual_backend/pkg/monitoring"
	"aula_virtual_backend/pkg/security"
	"aula_virtual_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	quiz        *repository.QuizRepository
	attempt     *repository.AttemptRepository
	certificate *repository.CertificateRepository
	settings    *repository.CertificateSettingsRepository
}

type services struct {
	storage      *service.StorageService
	settings     *service.SettingsService
	certificate  *service.CertificateService
	scoring      *service.ScoringService
	verification *service.VerificationService
}

type controllers struct {
	quiz        *controller.QuizController
	certificate *controller.CertificateController
	settings    *controller.SettingsController
	health      *controller.HealthController
}

// RegisterConfigCallback subscribes to hot config reloads.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig fans a reloaded config out to subscribers.
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		quiz:        repository.NewQuizRepository(db),
		attempt:     repository.NewAttemptRepository(db),
		certificate: repository.NewCertificateRepository(db),
		settings:    repository.NewCertificateSettingsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.settings = service.NewSettingsService(repos.settings)
	s.certificate = service.NewCertificateService(db, repos.certificate, repos.course, repos.settings, cfg)
	s.scoring = service.NewScoringService(repos.quiz, repos.course, repos.attempt, s.certificate, cfg)
	s.verification = service.NewVerificationService(repos.attempt, repos.certificate, rdb, cfg)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		quiz:        controller.NewQuizController(s.scoring),
		certificate: controller.NewCertificateController(s.verification, s.certificate),
		settings:    controller.NewSettingsController(s.settings, s.storage),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// verification falls back to direct DB reads without the cache
		logger.Log.Warn("Redis unavailable, public lookups will not be cached", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		services.certificate.SetFolioPrefix(newCfg.Certificate.FolioPrefix)
	})

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("aula-virtual", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
