package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"surveyhub_backend/internal/config"
	"surveyhub_backend/internal/controller"
	"surveyhub_backend/internal/repository"
	"surveyhub_backend/internal/service"
	"surveyhub_backend/pkg/cache"
	"surveyhub_backend/pkg/database"
	"surveyhub_backend/pkg/logger"
	"surveyhub_backend/pkg/monitoring"
	"surveyhub_backend/pkg/security"
	"surveyhub_backend/pkg/tracing"

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
	user         *repository.UserRepository
	survey       *repository.SurveyRepository
	questionBank *repository.QuestionBankRepository
	invitation   *repository.InvitationRepository
	response     *repository.ResponseRepository
}

type services struct {
	auth         *service.AuthService
	survey       *service.SurveyService
	questionBank *service.QuestionBankService
	source       *service.QuestionSourceService
	scoring      *service.ScoringService
	invitation   *service.InvitationService
	gate         *service.InvitationGate
	response     *service.ResponseService
}

type controllers struct {
	auth         *controller.AuthController
	survey       *controller.SurveyController
	questionBank *controller.QuestionBankController
	invitation   *controller.InvitationController
	response     *controller.ResponseController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		survey:       repository.NewSurveyRepository(db),
		questionBank: repository.NewQuestionBankRepository(db),
		invitation:   repository.NewInvitationRepository(db),
		response:     repository.NewResponseRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	surveyCache := cache.NewSurveyCache(rdb, time.Duration(cfg.Survey.CacheTTLMinutes)*time.Minute)

	s.auth = service.NewAuthService(repos.user, cfg)
	s.source = service.NewQuestionSourceService(repos.questionBank)
	s.scoring = service.NewScoringService(cfg.Survey.DefaultPassingThreshold)
	s.survey = service.NewSurveyService(repos.survey, s.source, surveyCache)
	s.questionBank = service.NewQuestionBankService(repos.questionBank, s.source)
	s.invitation = service.NewInvitationService(repos.invitation, repos.survey, cfg.Survey.BaseURL)
	s.gate = service.NewInvitationGate(repos.invitation)
	s.response = service.NewResponseService(repos.response, repos.survey, s.source, s.scoring, s.gate)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		survey:       controller.NewSurveyController(s.survey, s.gate),
		questionBank: controller.NewQuestionBankController(s.questionBank),
		invitation:   controller.NewInvitationController(s.invitation, s.gate, s.survey),
		response:     controller.NewResponseController(s.response),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	// 配置注入，供中间件和控制器读取
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	})

	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
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
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("surveyhub", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
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
