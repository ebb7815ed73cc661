package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alphaingen/medboard/config"
	"github.com/alphaingen/medboard/controllers"
	"github.com/alphaingen/medboard/middleware"
	"github.com/alphaingen/medboard/services"
	"github.com/alphaingen/medboard/utils"
)

// SetupRouter wires routes, middlewares, services, and controllers.
func SetupRouter(db *gorm.DB, mailer utils.Mailer) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file; recovery shares the same logger.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl))
		r.Use(utils.RecoveryWithZap(gl))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	accounts := services.NewAccountService(db, mailer)
	questions := services.NewQuestionService(db)
	guidelines := services.NewGuidelineService(db, services.ModeratorOnly(cfg.ModeratorEmail))

	authController := controllers.NewAuthController(accounts)
	questionController := controllers.NewQuestionController(questions)
	guidelineController := controllers.NewGuidelineController(guidelines)

	r.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "Alphaingen Server Running...")
	})
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/signup", authController.Signup)
	authGroup.POST("/login", authController.Login)

	r.GET("/me", middleware.AuthRequired(), authController.Me)

	r.POST("/questions", questionController.Create)
	r.GET("/questions", questionController.List)
	// Deployed clients use both methods and both spellings; accept all four.
	r.POST("/questions/:id/reply", questionController.AddReply)
	r.PUT("/questions/:id/reply", questionController.AddReply)
	r.POST("/questions/:id/replies", questionController.AddReply)
	r.PUT("/questions/:id/replies", questionController.AddReply)

	r.POST("/guidelines", guidelineController.Create)
	r.GET("/guidelines", guidelineController.List)
	r.PUT("/guidelines/:id/like", guidelineController.Like)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Fail(ctx, http.StatusNotFound, "route not found")
	})

	return r
}
