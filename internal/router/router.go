package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/amanyouwaraj-gif/AuraAssess/internal/config"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/handler"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/middleware"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/response"
	"github.com/amanyouwaraj-gif/AuraAssess/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Assessment *handler.AssessmentHandler
	Practice   *handler.PracticeHandler
	History    *handler.HistoryHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/signup", handlers.Auth.Signup)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireUserJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireUserJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Exam Group (JWT) ───────────────────────────────────────────
	exams := router.Group("/api/v1/exams")
	exams.Use(middleware.RequireUserJWT(authService))
	{
		exams.POST("", handlers.Assessment.StartExam)
		exams.POST("/resume", handlers.Assessment.Resume)
		exams.GET("/current", handlers.Assessment.GetCurrent)
		exams.POST("/current/begin", handlers.Assessment.Begin)
		exams.POST("/current/navigate", handlers.Assessment.Navigate)
		exams.POST("/current/complete", handlers.Assessment.Complete)
		exams.PUT("/current/answers/:question_id", handlers.Assessment.SaveAnswer)
		exams.POST("/current/answers/:question_id/run", handlers.Assessment.RunCode)
	}

	// ─── 3. Practice Group (JWT) ───────────────────────────────────────
	practice := router.Group("/api/v1/practice")
	practice.Use(middleware.RequireUserJWT(authService))
	{
		practice.POST("", handlers.Practice.StartSprint)
		practice.GET("/current", handlers.Practice.GetCurrent)
		practice.POST("/current/attempts/:question_id", handlers.Practice.SubmitAttempt)
		practice.POST("/current/finalize", handlers.Practice.FinalizeSprint)
	}

	// ─── 4. History Group (JWT) ────────────────────────────────────────
	history := router.Group("/api/v1/history")
	history.Use(middleware.RequireUserJWT(authService))
	{
		history.GET("", handlers.History.GetHistory)
		history.GET("/practice-stats", handlers.History.GetPracticeStats)
		history.GET("/export", handlers.History.ExportHistory)
	}

	// ─── 5. WebSocket Group (WS Auth via ?token=) ──────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/exams/current/stream", handlers.WS.CountdownStream)
	}

	return router
}
