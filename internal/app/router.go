package app

import (
	"tedp_backend/docs"
	"tedp_backend/internal/config"
	"tedp_backend/internal/middleware"
	"tedp_backend/internal/model"
	"tedp_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)
	a.registerRespondentRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStaffRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
	}
}

// registerRespondentRoutes wires the anonymous survey-taking flow. The
// session token in the path is the only credential.
func (a *App) registerRespondentRoutes(router *gin.Engine, c *controllers) {
	respondent := router.Group("/api/respondent")
	{
		respondent.POST("/validate-pin", c.respondent.ValidatePin)

		sessions := respondent.Group("/sessions/:token")
		{
			sessions.GET("", c.respondent.CurrentPage)
			sessions.DELETE("", c.respondent.Cancel)
			sessions.POST("/start", c.respondent.Start)
			sessions.PUT("/answers", c.respondent.RecordAnswer)
			sessions.POST("/toggle", c.respondent.ToggleChoice)
			sessions.POST("/advance", c.respondent.Advance)
			sessions.POST("/retreat", c.respondent.Retreat)
			sessions.POST("/submit", c.respondent.Submit)
		}
	}
}

// registerStaffRoutes covers teachers and school admins running passations.
func (a *App) registerStaffRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	staff := rg.Group("/")
	staff.Use(middleware.RoleMiddleware(model.Teacher, model.SchoolAdmin))
	{
		staff.GET("/surveys", c.survey.ListSurveys)
		staff.GET("/surveys/:id", c.survey.GetSurvey)
		staff.GET("/surveys/:id/questions", c.survey.ListQuestions)

		staff.POST("/passations", c.passation.CreatePassation)
		staff.GET("/passations", c.passation.ListPassations)
		staff.GET("/passations/:id", c.passation.GetPassation)
		staff.PATCH("/passations/:id/status", c.passation.ChangeStatus)
		staff.POST("/passations/:id/groups", c.passation.AddGroup)
		staff.DELETE("/groups/:id", c.passation.DeleteGroup)

		staff.POST("/access-codes", c.passation.GenerateCodes)
		staff.GET("/passations/:id/access-codes", c.passation.ListCodes)

		staff.GET("/passations/:id/responses", c.export.ListResponses)
		staff.POST("/passations/:id/export", c.export.ExportPassation)
		staff.GET("/passations/:id/export/download", c.export.DownloadCSV)
	}
}

// registerAdminRoutes covers account management and survey authoring.
func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/register", c.auth.Register)

		admin.POST("/surveys", c.survey.CreateSurvey)
		admin.PUT("/surveys/:id", c.survey.UpdateSurvey)
		admin.DELETE("/surveys/:id", c.survey.DeleteSurvey)

		admin.POST("/questions", c.survey.CreateQuestion)
		admin.PUT("/questions/:id", c.survey.UpdateQuestion)
		admin.DELETE("/questions/:id", c.survey.DeleteQuestion)
	}
}
