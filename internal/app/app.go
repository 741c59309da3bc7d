package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyp_portal_backend/internal/config"
	"fyp_portal_backend/internal/controller"
	"fyp_portal_backend/internal/repository"
	"fyp_portal_backend/internal/service"
	"fyp_portal_backend/internal/util"
	"fyp_portal_backend/pkg/configwatcher"
	"fyp_portal_backend/pkg/database"
	"fyp_portal_backend/pkg/logger"
	"fyp_portal_backend/pkg/monitoring"
	"fyp_portal_backend/pkg/security"
	"fyp_portal_backend/pkg/tracing"

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
	user              *repository.UserRepository
	groupRequest      *repository.GroupRequestRepository
	supervisorRequest *repository.SupervisorRequestRepository
	document          *repository.DocumentRepository
	evaluation        *repository.EvaluationRepository
	milestone         *repository.MilestoneRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	storage     *service.StorageService
	group       *service.GroupService
	supervision *service.SupervisionService
	document    *service.DocumentService
	evaluation  *service.EvaluationService
	milestone   *service.MilestoneService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	group       *controller.GroupController
	supervision *controller.SupervisionController
	document    *controller.DocumentController
	evaluation  *controller.EvaluationController
	milestone   *controller.MilestoneController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:              repository.NewUserRepository(db),
		groupRequest:      repository.NewGroupRequestRepository(db, rdb),
		supervisorRequest: repository.NewSupervisorRequestRepository(db),
		document:          repository.NewDocumentRepository(db),
		evaluation:        repository.NewEvaluationRepository(db),
		milestone:         repository.NewMilestoneRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.groupRequest)
	s.group = service.NewGroupService(repos.groupRequest, repos.user)
	s.supervision = service.NewSupervisionService(repos.supervisorRequest, repos.user)
	s.document = service.NewDocumentService(repos.document, s.storage)
	s.evaluation = service.NewEvaluationService(repos.evaluation, repos.user)
	s.milestone = service.NewMilestoneService(repos.milestone)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.user),
		user:        controller.NewUserController(s.user),
		group:       controller.NewGroupController(s.group),
		supervision: controller.NewSupervisionController(s.supervision),
		document:    controller.NewDocumentController(s.document, s.storage),
		evaluation:  controller.NewEvaluationController(s.evaluation),
		milestone:   controller.NewMilestoneController(s.milestone),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
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

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
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

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("fyp-portal", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// Hot-reload tunables (capacity defaults, CORS, rate limits) without a
	// restart. Services share the config pointer, so swapping its contents is
	// enough.
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		*cfg = *newCfg
		logger.Log.Info("Configuration reloaded")
	})
	if !cfg.MigrateOnly {
		go configwatcher.WatchConfig("configs/config.yaml", cfg, func(raw interface{}) {
			newCfg, ok := raw.(*config.Config)
			if !ok {
				return
			}
			for _, cb := range app.configCallbacks {
				cb(newCfg)
			}
		})
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

	logger.Log.Sync()
	log.Println("Server exiting")
}
