package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/TPNayana/TimeTableSolver-TimeFold-03/api/swagger"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/handler"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/middleware"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/repository"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/service"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/solver"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/cache"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/config"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/database"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/logger"
	corsmiddleware "github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/middleware/cors"
	reqidmiddleware "github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/middleware/requestid"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/storage"
)

// @title Timetable Solver API
// @version 1.0.0
// @description Upload a timetable workbook, delegate scheduling to an external solver with a greedy fallback, and manage the resulting class schedule.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	archive, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare uploads directory", "error", err)
	}

	teacherRepo := repository.NewTeacherRepository(db)
	groupRepo := repository.NewStudentGroupRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	classRepo := repository.NewClassRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	solverClient := solver.New(cfg.Solver.BaseURL, cfg.Solver.RequestTimeout, logr)
	greedy := service.NewGreedyScheduler(logr)

	solveSvc := service.NewSolveService(cfg.Solver, solverClient, greedy, metricsSvc,
		classRepo, teacherRepo, groupRepo, courseRepo, availabilityRepo, cacheRepo, logr)
	importSvc := service.NewImportService(cfg.Uploads, solveSvc, metricsSvc, archive,
		classRepo, teacherRepo, groupRepo, courseRepo, availabilityRepo, cacheRepo, logr)
	classSvc := service.NewClassService(cfg.Cache, classRepo, cacheRepo, metricsSvc, logr)
	entitySvc := service.NewEntityService(teacherRepo, groupRepo, courseRepo, availabilityRepo)
	authSvc := service.NewAuthService(userRepo, validate, logr, cfg.JWT)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	solveSvc.Start(ctx)
	defer solveSvc.Stop()

	authHandler := handler.NewAuthHandler(authSvc)
	uploadHandler := handler.NewUploadHandler(importSvc)
	solveHandler := handler.NewSolveHandler(solveSvc)
	classHandler := handler.NewClassHandler(classSvc)
	entityHandler := handler.NewEntityHandler(entitySvc)
	exportHandler := handler.NewExportHandler(classSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	auth := middleware.JWT(authSvc)

	api.POST("/auth/login", authHandler.Login)

	api.POST("/upload", auth, uploadHandler.Upload)
	api.POST("/clear", auth, uploadHandler.Clear)

	api.POST("/solve", auth, solveHandler.Solve)
	api.GET("/solution", solveHandler.Solution)
	api.GET("/solution/status", solveHandler.Status)
	api.GET("/solution/result", solveHandler.Result)

	// Static class routes must register before the id route.
	api.GET("/classes", classHandler.List)
	api.GET("/classes/enriched", classHandler.ListEnriched)
	api.GET("/classes/suggestions", classHandler.Suggestions)
	api.POST("/classes/check-conflicts", classHandler.CheckConflicts)
	api.GET("/classes/:id", classHandler.Get)
	api.POST("/classes", auth, classHandler.Create)
	api.PATCH("/classes/:id", auth, classHandler.Patch)
	api.DELETE("/classes/:id", auth, classHandler.Delete)

	api.GET("/teachers", entityHandler.Teachers)
	api.GET("/student-groups", entityHandler.StudentGroups)
	api.GET("/courses", entityHandler.Courses)
	api.GET("/availabilities", entityHandler.Availabilities)

	api.GET("/export/csv", exportHandler.CSV)
	api.GET("/export/pdf", exportHandler.PDF)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
