package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tedp_backend/internal/config"
	"tedp_backend/internal/controller"
	"tedp_backend/internal/repository"
	"tedp_backend/internal/service"
	"tedp_backend/pkg/database"
	"tedp_backend/pkg/logger"
	"tedp_backend/pkg/monitoring"
	"tedp_backend/pkg/security"
	"tedp_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user       *repository.UserRepository
	survey     *repository.SurveyRepository
	passation  *repository.PassationRepository
	accessCode *repository.AccessCodeRepository
	response   *repository.ResponseRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	survey     *service.SurveyService
	passation  *service.PassationService
	accessCode *service.AccessCodeService
	respondent *service.RespondentService
	export     *service.ExportService
	sessions   service.SessionStore
}

type controllers struct {
	auth       *controller.AuthController
	survey     *controller.SurveyController
	passation  *controller.PassationController
	respondent *controller.RespondentController
	export     *controller.ExportController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		survey:     repository.NewSurveyRepository(db),
		passation:  repository.NewPassationRepository(db),
		accessCode: repository.NewAccessCodeRepository(db),
		response:   repository.NewResponseRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.sessions = service.NewRedisSessionStore(rdb, cfg.Session.TTL())
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.survey = service.NewSurveyService(repos.survey)
	s.passation = service.NewPassationService(repos.passation, repos.survey)
	s.accessCode = service.NewAccessCodeService(repos.accessCode, repos.passation)
	s.respondent = service.NewRespondentService(
		repos.accessCode,
		repos.passation,
		repos.survey,
		repos.response,
		s.sessions,
		db,
	)
	s.export = service.NewExportService(repos.passation, repos.survey, repos.response, s.storage)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		survey:     controller.NewSurveyController(s.survey),
		passation:  controller.NewPassationController(s.passation, s.accessCode),
		respondent: controller.NewRespondentController(s.respondent),
		export:     controller.NewExportController(s.export, repos.response),
		health:     controller.NewHealthController(db, rdb),
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

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("tedp-survey", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/exports", cfg.Storage.LocalPath)
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
