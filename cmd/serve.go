package cmd

import (
	"database/sql"
	"fmt"
	"net"
	"net/http"

	"github.com/space2study/ms-go-api/app/cache"
	"github.com/space2study/ms-go-api/app/controller"
	"github.com/space2study/ms-go-api/app/middleware"
	"github.com/space2study/ms-go-api/app/repository"
	"github.com/space2study/ms-go-api/app/service"
	"github.com/space2study/ms-go-api/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the HTTP (Echo) server exposing the auth, catalog and location endpoints.`,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	locationCache, err := cache.NewRedisCache(cfg.RedisAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to redis")
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	offerRepo := repository.NewOfferRepository(db)

	tokenService := service.NewTokenService(tokenRepo, cfg)
	hasher := service.NewHasher(cfg.Hash)
	emailService := service.NewEmailService(service.NewSMTPSender(cfg.SMTP), cfg.SMTP)
	googleVerifier := service.NewGoogleVerifier(cfg.Google)
	authService := service.NewAuthService(db, userRepo, tokenService, hasher, emailService, googleVerifier, cfg)
	catalogService := service.NewCatalogService(categoryRepo, subjectRepo, offerRepo)
	locationService := service.NewLocationService(http.DefaultClient, locationCache, cfg.Location)

	startHTTPServer(cfg, authService, tokenService, catalogService, locationService)
}

func startHTTPServer(
	cfg *config.Config,
	authService *service.AuthService,
	tokenService *service.TokenService,
	catalogService *service.CatalogService,
	locationService *service.LocationService,
) {
	e := echo.New()
	defer e.Close()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
	}))
	e.Use(middleware.AppLanguage)

	authController := controller.NewAuthController(authService, cfg)
	catalogController := controller.NewCatalogController(catalogService)
	locationController := controller.NewLocationController(locationService)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	auth := e.Group("/auth")
	auth.POST("/signup", authController.Signup)
	auth.POST("/login", authController.Login)
	auth.POST("/logout", authController.Logout)
	auth.GET("/refresh", authController.RefreshAccessToken)
	auth.POST("/forgot-password", authController.ForgotPassword)
	auth.PATCH("/reset-password/:token", authController.ResetPassword)
	auth.GET("/confirm-email/:token", authController.ConfirmEmail)
	auth.POST("/google-auth", authController.GoogleAuth)

	protected := e.Group("", authMiddleware.RequireAuth)
	protected.GET("/categories", catalogController.ListCategories)
	protected.GET("/categories/:id", catalogController.GetCategory)
	protected.GET("/categories/:id/subjects", catalogController.ListCategorySubjects)
	protected.GET("/subjects", catalogController.ListSubjects)
	protected.GET("/offers", catalogController.ListOffers)
	protected.GET("/spoken-languages", catalogController.ListSpokenLanguages)
	protected.GET("/location/countries", locationController.ListCountries)
	protected.GET("/location/countries/:iso2/cities", locationController.ListCities)

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}

func configureLogging(cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logrus.SetLevel(level)

	switch cfg.LogFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	return nil
}
