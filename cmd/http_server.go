package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/api"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/auth"
	authPostgres "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/auth/postgres"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/category"
	categoryPostgres "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/category/postgres"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/contact"
	contactPostgres "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/contact/postgres"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/database"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/events"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/mailer"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/notification"
	notificationPostgres "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/notification/postgres"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/product"
	productPostgres "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/product/postgres"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/report"
	reportPostgres "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/report/postgres"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/supplier"
	supplierPostgres "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/supplier/postgres"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport/middleware"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport/rest"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport/ws"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/user"
	userPostgres "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/user/postgres"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/pkg/logger"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/pkg/storage"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

// Dependencies holds the process-wide resources every command builds on.
type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Logger   *slog.Logger
	EventBus *events.EventBus
	Mail     *mailer.Dispatcher
	Sender   mailer.Sender
	Images   storage.ImageStorage
}

// Services is the wired domain layer shared by the server, worker and CLI.
type Services struct {
	Auth         *auth.Service
	Accounts     *user.Service
	Categories   *category.Service
	Suppliers    *supplier.Service
	Products     *product.Service
	Notification *notification.Service
	Reports      *report.Service
	Contact      *contact.Service
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	if _, err := api.Load(context.Background()); err != nil {
		deps.Logger.Error("openapi document failed validation", "error", err)
		os.Exit(1)
	}

	svc := buildServices(deps)
	origins := middleware.SplitOrigins(deps.Config.Server.AllowedOrigins)

	base := transport.NewBaseHandler(deps.Logger)
	hub := ws.NewHub(base, svc.Auth, origins)
	hub.Subscribe(deps.EventBus)
	defer hub.Close()

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Handlers{
		Auth:         auth.NewHandler(base, svc.Auth),
		RBAC:         auth.NewRBACAuthorization(base),
		Accounts:     user.NewHandler(base, svc.Accounts),
		Products:     product.NewHandler(base, svc.Products),
		Categories:   category.NewHandler(base, svc.Categories),
		Suppliers:    supplier.NewHandler(base, svc.Suppliers),
		Notification: notification.NewHandler(base, svc.Notification),
		Reports:      report.NewHandler(base, svc.Reports),
		Contact:      contact.NewHandler(base, svc.Contact),
		Alerts:       hub,
		Health:       rest.NewHealthHandler(deps.DB),
	}, origins)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.EventBus.Wait(ctx); err != nil {
			deps.Logger.Warn("event handlers still running at shutdown", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db, lg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	var images storage.ImageStorage
	if config.Storage.CloudinaryURL != "" {
		images, err = storage.NewCloudinaryStorage(config.Storage.CloudinaryURL)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize image storage: %w", err)
		}
	} else {
		lg.Warn("cloudinary_url not set; image uploads are disabled")
	}

	sender := mailer.NewSender(config.Mail, lg)

	return &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gdb,
		Logger:   lg,
		EventBus: events.NewEventBus(lg),
		Sender:   sender,
		Mail: mailer.NewDispatcher(sender, mailer.DispatcherConfig{
			Workers:   config.Mail.Workers,
			QueueSize: config.Mail.QueueSize,
		}, lg),
		Images: images,
	}, nil
}

// Close drains the mail queue and releases the database.
func (d *Dependencies) Close() {
	if d.Mail != nil {
		d.Mail.Shutdown()
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func buildServices(deps *Dependencies) *Services {
	cfg := deps.Config
	lg := deps.Logger
	tx := database.NewTransactionManager(deps.Gorm)
	windowDays := cfg.Notification.WindowDays()

	categories := category.NewService(categoryPostgres.NewCategoryRepository(deps.Gorm), lg)
	suppliers := supplier.NewService(supplierPostgres.NewSupplierRepository(deps.Gorm), deps.Images, cfg.Storage.SupplierFolder, lg)

	notifications := notification.NewService(notificationPostgres.NewNotificationRepository(deps.Gorm), deps.Sender, windowDays, lg).
		WithPublisher(deps.EventBus)

	products := product.NewService(productPostgres.NewProductRepository(deps.Gorm), tx, categories, suppliers, lg).
		WithNotifier(notifications).
		WithImages(deps.Images, cfg.Storage.ProductFolder).
		WithPublisher(deps.EventBus).
		WithExpiryWindow(windowDays)

	return &Services{
		Auth: auth.NewService(authPostgres.NewRepository(deps.Gorm), auth.NewJWTTokenGenerator(cfg.Security), lg),
		Accounts: user.NewService(userPostgres.NewUserRepository(deps.Gorm), tx, cfg.Security.BCryptCost, lg).
			WithImages(deps.Images, cfg.Storage.AvatarFolder),
		Categories:   categories,
		Suppliers:    suppliers,
		Products:     products,
		Notification: notifications,
		Reports:      report.NewService(reportPostgres.NewReportRepository(deps.DB), windowDays, lg),
		Contact:      contact.NewService(contactPostgres.NewContactRepository(deps.Gorm), deps.Mail, lg),
	}
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers gorm over the pool sqlx already opened.
func initGorm(db *sqlx.DB, lg *slog.Logger) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			slog.NewLogLogger(lg.Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
}
