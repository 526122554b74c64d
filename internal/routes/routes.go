package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kudipay/kudipay/internal/account"
	"github.com/kudipay/kudipay/internal/config"
	"github.com/kudipay/kudipay/internal/middleware"
	"github.com/kudipay/kudipay/internal/notification"
	"github.com/kudipay/kudipay/internal/otp"
	"github.com/kudipay/kudipay/internal/provider"
	"github.com/kudipay/kudipay/internal/transaction"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	// Stores. In dev without a database everything runs in memory.
	var accountStore account.Store
	var txnStore transaction.Store
	if d.DB != nil {
		accountStore = account.NewPostgresStore(d.DB)
		txnStore = transaction.NewPostgresStore(d.DB)
	} else {
		accountStore = account.NewMemoryStore()
		txnStore = transaction.NewMemoryStore()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	rail := provider.Simulated{Latency: 50 * time.Millisecond}
	txnSvc := transaction.NewService(
		txnStore,
		accountStore,
		transaction.NewEnforcer(txnStore),
		rail,
		notifier,
		d.Logger,
		d.Cfg.PaymentTimeout,
	)

	txnHandler := transaction.NewHandler(txnSvc)
	accountHandler := account.NewHandler(accountStore)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes. OTP issuance happens before the caller has a session.
	if d.Cache != nil {
		otpHandler := otp.NewHandler(otp.NewStore(d.Cache, d.Cfg.OTPTTL), notifier)
		RegisterOTPRoutes(api, otpHandler)
	}

	// Protected routes. Identity arrives from the upstream gateway.
	protected := api.Group("", middleware.Identity())
	RegisterAccountRoutes(protected, accountHandler)
	RegisterTransactionRoutes(protected, txnHandler, middleware.TransactionRateLimit(d.Cache, d.Cfg.TxPerMinute))

	return nil
}
