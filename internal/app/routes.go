package app

import (
	"context"
	"time"

	"github.com/stetat/ToDo-bot/internal/advice"
	"github.com/stetat/ToDo-bot/internal/auth"
	"github.com/stetat/ToDo-bot/internal/cache"
	"github.com/stetat/ToDo-bot/internal/config"
	"github.com/stetat/ToDo-bot/internal/handlers"
	"github.com/stetat/ToDo-bot/internal/notify"
	"github.com/stetat/ToDo-bot/internal/reminder"
	"github.com/stetat/ToDo-bot/internal/repo"
	"github.com/stetat/ToDo-bot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

const idempotencyTTL = 24 * time.Hour

// Setup registers all routes on the given engine and returns the reminder
// scheduler so the app can stop it on shutdown.
func Setup(r *gin.Engine, cfg config.Config, log *logrus.Entry, db *pgxpool.Pool, rdb *redis.Client) (*reminder.Scheduler, error) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	var notifier notify.Notifier
	if cfg.Telegram.Token != "" {
		notifier = notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.APIBase)
	} else {
		notifier = notify.NewLogNotifier(log)
	}
	sched := reminder.New(notifier, log)

	taskRepo := repo.NewPGTaskRepo(db)
	taskCache := cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	taskSvc := service.NewTaskService(taskRepo, taskCache, sched, cfg.Reminder.Lead.Duration(), log)

	// Timers do not survive restarts; rebuild them from the store.
	if err := taskSvc.Rehydrate(context.Background()); err != nil {
		return nil, err
	}

	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo, log)

	quotaRepo := repo.NewPGQuotaRepo(db)
	advisor := advice.NewSonarClient(cfg.Advice.Key, cfg.Advice.URL, cfg.Advice.Model, cfg.Advice.Timeout.Duration())
	quotaSvc := service.NewQuotaService(quotaRepo, taskRepo, advisor, cfg.Quota.DailyLimit, log)

	idem := cache.NewIdempotencyStore(rdb, idempotencyTTL)

	taskHandler := handlers.NewTaskHandler(taskSvc, idem, log)
	userHandler := handlers.NewUserHandler(userSvc, log)
	quotaHandler := handlers.NewQuotaHandler(quotaSvc, log)

	api := r.Group("/api/v1", auth.RequestID(), auth.RequireBotToken(cfg.Auth.BotToken))
	registerTaskRoutes(api, taskHandler, quotaHandler)
	registerUserRoutes(api, userHandler)
	registerQuotaRoutes(api, quotaHandler, cfg.Auth.AdminTokenHash)

	return sched, nil
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "ToDo bot API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler, q *handlers.QuotaHandler) {
	api.POST("/tasks", h.Create)
	api.GET("/tasks/:owner_id", h.List)
	api.GET("/tasks/:owner_id/count", h.Count)
	api.GET("/tasks/:owner_id/summary", h.Summary)
	api.POST("/tasks/:owner_id/delete", h.Delete)
	api.POST("/tasks/:owner_id/complete/:ordinal", h.Complete)
	api.POST("/tasks/:owner_id/advice/:ordinal", q.Advice)
}

func registerUserRoutes(api *gin.RouterGroup, h *handlers.UserHandler) {
	api.POST("/users", h.Register)
}

func registerQuotaRoutes(api *gin.RouterGroup, h *handlers.QuotaHandler, adminHash string) {
	api.GET("/quota/:user_id", h.Check)
	api.POST("/quota/:user_id/consume", h.Consume)
	api.POST("/quota/:user_id/unlimited", auth.RequireAdminToken(adminHash), h.GrantUnlimited)
}
