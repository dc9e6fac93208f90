package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "sacra/api/swagger" // swagger docs
	"sacra/internal/cache"
	"sacra/internal/config"
	"sacra/internal/database"
	"sacra/internal/handler"
	"sacra/internal/lock"
	"sacra/internal/logger"
	"sacra/internal/middleware"
	"sacra/internal/repository"
	"sacra/internal/service"
	"sacra/internal/websocket"
	"sacra/pkg/token"

	"github.com/bsm/redislock"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	gormlogger "gorm.io/gorm/logger"
)

const devJWTSecret = "default_super_secret_key"

// @title           Sacra Installment Sales API
// @version         1.0
// @description     Figurine catalog, installment sales, payments and the customer portal.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	logg := logger.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		if cfg.GinMode == gin.ReleaseMode {
			logg.Fatal("JWT_SECRET environment variable is required in release mode")
		}
		logg.Warn("JWT_SECRET not set, using the development secret")
		jwtSecret = devJWTSecret
	}

	gormLevel := gormlogger.Warn
	if cfg.GinMode == gin.DebugMode {
		gormLevel = gormlogger.Info
	}
	db, err := database.NewConnection(database.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DatabaseDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		Logger:       logg,
		LogLevel:     gormLevel,
	})
	if err != nil {
		logger.LogError(logg, "main", "main", "database connection", cfg.DBDriver, err)
		os.Exit(1)
	}
	logg.WithField("driver", cfg.DBDriver).Info("database connected")

	// Redis is optional: without it the dashboard is not cached and sale
	// locks only serialize requests inside this process.
	store := cache.NewNoopStore()
	locker := lock.NewLocalLocker()
	var rdb *redis.Client
	if cfg.RedisAddress != "" {
		rdb, err = cache.Connect(context.Background(), cfg.RedisAddress, cfg.RedisPassword)
		if err != nil {
			logg.WithError(err).WithField("address", cfg.RedisAddress).Warn("redis unavailable, continuing without it")
			rdb = nil
		} else {
			store = cache.NewRedisStore(rdb)
			locker = lock.NewRedisLocker(redislock.New(rdb), cfg.SaleLockTTL, cfg.SaleLockTTL)
			logg.WithField("address", cfg.RedisAddress).Info("redis connected")
		}
	}

	stop := make(chan struct{})
	wsHub := websocket.NewHub(logg)
	go wsHub.Run(stop)

	tokens := token.NewManager(jwtSecret, token.DefaultTTL)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	figurineRepo := repository.NewFigurineRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)

	catalogService := service.NewCatalogService(figurineRepo, saleRepo, paymentRepo, movementRepo, auditRepo, txManager, store, wsHub, logg)
	saleService := service.NewSaleService(figurineRepo, saleRepo, movementRepo, auditRepo, txManager, locker, store, wsHub, logg, cfg.PhoneRegion)
	paymentService := service.NewPaymentService(saleRepo, paymentRepo, auditRepo, txManager, store, wsHub, logg)
	dashboardService := service.NewDashboardService(dashboardRepo, saleRepo, paymentRepo, store, cfg.DashboardCacheTTL, cfg.Location(), logg)
	portalService := service.NewPortalService(saleRepo)
	exportService := service.NewExportService(saleRepo)
	auditService := service.NewAuditService(auditRepo)
	roleService := service.NewRoleService(roleRepo, txManager)
	userService := service.NewUserService(userRepo, saleRepo, roleRepo, auditRepo, txManager, tokens, logg)

	ctx := context.Background()
	if err := roleService.SeedDefaultRolesAndPermissions(ctx); err != nil {
		logger.LogError(logg, "main", "main", "seed roles", nil, err)
		os.Exit(1)
	}
	if err := userService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.LogError(logg, "main", "main", "bootstrap admin", cfg.AdminUsername, err)
		os.Exit(1)
	}

	if err := handler.RegisterValidators(); err != nil {
		logger.LogError(logg, "main", "main", "register validators", nil, err)
		os.Exit(1)
	}

	auth := middleware.NewAuth(tokens, roleService, cfg.GinMode == gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), logger.GinLogger(logg))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	router.GET("/ws", websocket.ServeWs(wsHub, tokens))

	api := router.Group("")
	handler.NewUserHandler(userService, auth, logg).RegisterRoutes(api)
	handler.NewPortalHandler(portalService, userService, auth, logg).RegisterRoutes(api)
	handler.NewCatalogHandler(catalogService, saleService, auth, logg).RegisterRoutes(api)
	handler.NewSaleHandler(saleService, paymentService, exportService, auth, logg).RegisterRoutes(api)
	handler.NewDashboardHandler(dashboardService, auth, logg).RegisterRoutes(api)
	handler.NewAuditHandler(auditService, auth, logg).RegisterRoutes(api)
	handler.NewRoleHandler(roleService, auth, logg).RegisterRoutes(api)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logg.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.WithError(err).Error("graceful shutdown failed")
	}
	close(stop)

	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
