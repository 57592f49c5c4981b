package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"formation_quiz_backend/internal/config"
	"formation_quiz_backend/internal/controller"
	"formation_quiz_backend/internal/repository"
	"formation_quiz_backend/internal/service"
	"formation_quiz_backend/internal/util"
	"formation_quiz_backend/pkg/database"
	"formation_quiz_backend/pkg/logger"
	"formation_quiz_backend/pkg/monitoring"
	"formation_quiz_backend/pkg/security"
	"formation_quiz_backend/pkg/tracing"

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
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user          *repository.UserRepository
	questionnaire *repository.QuestionnaireRepository
	question      *repository.QuestionRepository
	parcours      *repository.ParcoursRepository
	stats         *repository.StatsRepository
}

type services struct {
	auth          *service.AuthService
	user          *service.UserService
	questionnaire *service.QuestionnaireService
	parcours      *service.ParcoursService
	stats         *service.StatsService
	report        *service.ReportService
	export        *service.ExportService
	storage       service.StorageProvider
}

type controllers struct {
	auth          *controller.AuthController
	trainee       *controller.TraineeController
	questionnaire *controller.QuestionnaireController
	parcours      *controller.ParcoursController
	report        *controller.ReportController
	health        *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig swaps the active configuration and notifies the registered
// callbacks. Listen address and database settings require a restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		questionnaire: repository.NewQuestionnaireRepository(db),
		question:      repository.NewQuestionRepository(db),
		parcours:      repository.NewParcoursRepository(db),
		stats:         repository.NewStatsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageProvider(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.questionnaire = service.NewQuestionnaireService(repos.questionnaire, repos.question)
	s.parcours = service.NewParcoursService(repos.parcours, repos.questionnaire)
	s.stats = service.NewStatsService(repos.stats, repos.parcours, repos.question, repos.questionnaire, repos.user, rdb)
	s.report = service.NewReportService(s.stats, repos.stats, repos.parcours, repos.question, repos.questionnaire, repos.user, rdb)
	s.export = service.NewExportService(repos.parcours, repos.user, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:          controller.NewAuthController(s.auth, s.user),
		trainee:       controller.NewTraineeController(s.user),
		questionnaire: controller.NewQuestionnaireController(s.questionnaire),
		parcours:      controller.NewParcoursController(s.parcours, s.user),
		report:        controller.NewReportController(s.report, s.stats, s.export),
		health:        controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
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

	if cfg.MigrateOnly {
		logger.Log.Info("Migration-only run, exiting")
		os.Exit(0)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The reports fall back to the database when the cache is down.
		logger.Log.Warn("Redis unavailable, report caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("formation-quiz", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/exports", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(cfg *config.Config) {
		logger.InitLogger(cfg)
	})

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
