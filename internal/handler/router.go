package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"academy-api/internal/domain/profile"
	"academy-api/internal/handler/api"
	"academy-api/internal/handler/middleware"
	"academy-api/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	lessonHandler *api.LessonHandler,
	billingHandler *api.BillingHandler,
	subscriptionHandler *api.SubscriptionHandler,
	userHandler *api.UserHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, lessonHandler, billingHandler, subscriptionHandler, userHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	lessonHandler *api.LessonHandler,
	billingHandler *api.BillingHandler,
	subscriptionHandler *api.SubscriptionHandler,
	userHandler *api.UserHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		// Authenticated by signature verification, not by a user token
		apiGroup.POST("/billing/webhook", billingHandler.Webhook)

		lessons := apiGroup.Group("/lessons")
		lessons.Use(authMiddleware.RequireAuth())
		{
			addRoutes(lessons, []route{
				{Method: http.MethodGet, Path: "", Handler: lessonHandler.ListLessons},
				{Method: http.MethodGet, Path: "/:id", Handler: lessonHandler.GetLesson},
				{Method: http.MethodGet, Path: "/:id/instances", Handler: lessonHandler.ListInstances},
			})

			teacherRequired := lessons.Group("")
			teacherRequired.Use(authMiddleware.RequireRoleAtLeast(profile.RoleTeacher))
			addRoutes(teacherRequired, []route{
				{Method: http.MethodPost, Path: "", Handler: lessonHandler.CreateLesson},
				{Method: http.MethodPut, Path: "/:id", Handler: lessonHandler.UpdateLesson},
				{Method: http.MethodDelete, Path: "/:id", Handler: lessonHandler.DeleteLesson},
			})
		}

		subscriptions := apiGroup.Group("/subscriptions")
		subscriptions.Use(authMiddleware.RequireAuth())
		{
			addRoutes(subscriptions, []route{
				{Method: http.MethodPatch, Path: "/:id", Handler: subscriptionHandler.UpdateSubscription},
			})
		}

		notifications := apiGroup.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth())
		{
			addRoutes(notifications, []route{
				{Method: http.MethodPost, Path: "/lesson", Handler: subscriptionHandler.NotifyAttendees},
			})
		}

		users := apiGroup.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			addRoutes(users, []route{
				{Method: http.MethodPut, Path: "/:id/email", Handler: userHandler.UpdateEmail},
				{Method: http.MethodPost, Path: "/:id/verify", Handler: userHandler.VerifyUser},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoleAtLeast(profile.RoleAdmin))
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/profiles/backfill", Handler: userHandler.BackfillProfileIDs},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
