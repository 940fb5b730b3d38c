package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"helpdesk-system/backend/config"
	"helpdesk-system/backend/internal/api/handler"
	"helpdesk-system/backend/internal/api/middleware"
	"helpdesk-system/backend/pkg/jwt"
	"helpdesk-system/backend/pkg/metrics"
	"helpdesk-system/backend/pkg/redis"
)

// Setup builds the gin engine. rdb may be nil.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	verifier middleware.UserVerifier,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit, cfg.Server.UploadLimit))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")

	authed := middleware.JWTAuth(jwtMgr, rdb)
	staff := []gin.HandlerFunc{authed, middleware.VerifyUser(verifier)}

	// check-in
	checkin := api.Group("/checkin")
	{
		checkin.POST("", h.CheckIn.CheckIn)
		checkin.PATCH("", h.CheckIn.CheckOut)
		checkin.GET("/:id", h.CheckIn.ListByHelpdesk)
	}

	// queue
	queue := api.Group("/queue")
	{
		queue.POST("", h.Queue.Add)
		queue.PATCH("", h.Queue.Update)
		queue.PATCH("/UpdateQueueItemStatus", h.Queue.UpdateStatus)
		queue.GET("/helpdesk/:id", h.Queue.ListByHelpdesk)
		queue.GET("/checkin/:id", h.Queue.ListByCheckIn)
	}

	// helpdesk + timespan
	helpdesk := api.Group("/helpdesk")
	{
		helpdesk.GET("", h.Helpdesk.List)
		helpdesk.GET("/active", h.Helpdesk.ListActive)
		helpdesk.GET("/:id", h.Helpdesk.Get)

		admin := helpdesk.Group("", staff...)
		admin.POST("", h.Helpdesk.Create)
		admin.PATCH("", h.Helpdesk.Update)
		admin.DELETE("/:id", h.Helpdesk.Delete)
		admin.DELETE("/:id/clear", h.Helpdesk.Clear)

		admin.GET("/timespan", h.Helpdesk.ListTimespans)
		admin.GET("/timespan/:id", h.Helpdesk.GetTimespan)
		admin.POST("/timespan", h.Helpdesk.CreateTimespan)
		admin.PATCH("/timespan", h.Helpdesk.UpdateTimespan)
		admin.DELETE("/timespan/:id", h.Helpdesk.DeleteTimespan)
		admin.GET("/:id/calendar", h.Helpdesk.Calendar)
	}
	api.GET("/exportdatabase", append(staff, h.Export.ExportDatabase)...)

	// units + topics
	units := api.Group("/units")
	{
		units.GET("/:id", h.Unit.Get)
		units.GET("/helpdesk/:id", h.Unit.ListByHelpdesk)

		admin := units.Group("", staff...)
		admin.POST("", h.Unit.Create)
		admin.PATCH("", h.Unit.Update)
		admin.DELETE("/:id", h.Unit.Delete)
		admin.POST("/import/:helpdeskId", h.Unit.Import)
	}
	api.GET("/topics/unit/:id", h.Topic.ListByUnit)

	// student nicknames
	student := api.Group("/student")
	{
		student.POST("", h.Student.Add)
		student.POST("/validate", h.Student.Validate)
		student.GET("/generate", h.Student.Generate)

		admin := student.Group("", staff...)
		admin.GET("", h.Student.List)
		admin.GET("/nickname/:nickname", h.Student.GetByNickname)
		admin.PATCH("/nickname", h.Student.Edit)
	}

	// staff users
	users := api.Group("/users")
	{
		users.POST("/login", middleware.RateLimit(rdb, cfg.Server.LoginLimit, cfg.Server.LoginWindow), h.User.Login)
		users.POST("/logout", authed, h.User.Logout)
		users.PATCH("", authed, h.User.Update)

		admin := users.Group("", staff...)
		admin.GET("", h.User.List)
		admin.GET("/:id", h.User.Get)
		admin.POST("", h.User.Create)
		admin.DELETE("/:id", h.User.Delete)
	}

	return r
}
