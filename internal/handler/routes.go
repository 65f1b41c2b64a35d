package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mtss-api/internal/middleware"
	"github.com/noah-isme/mtss-api/internal/models"
)

// Handlers bundles every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth             *AuthHandler
	BaseIntervention *BaseInterventionHandler
	Protocol         *InterventionProtocolHandler
	LessonPlan       *LessonPlanHandler
	Screening        *ScreeningHandler
	System           *SystemHandler
	Tokens           middleware.TokenValidator
	Audit            middleware.AuditRecorder
}

const (
	resourceBaseIntervention = "base_interventions"
	resourceDifficultyLink   = "difficulty_interventions"
	resourceProtocol         = "intervention_protocols"
	resourceLessonPlan       = "lesson_plans"
	resourceScreening        = "screenings"
)

// RegisterRoutes mounts the public probes on r and the API under prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	r.GET("/health", h.System.Health)
	r.GET("/ready", h.System.Ready)
	r.GET("/metrics", h.System.Prometheus)
	r.GET("/metrics/summary", h.System.Summary)

	api := r.Group(prefix)
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(h.Tokens))
	secured.GET("/auth/me", h.Auth.Me)

	registerBaseInterventions(secured.Group("/base-interventions"), h)
	registerBaseInterventions(secured.Group("/interventions/base"), h)
	registerProtocols(secured.Group("/intervention-protocols"), h)
	registerLessonPlans(secured.Group("/lesson-plans"), h)
	registerScreenings(secured.Group("/screenings"), h)
}

func registerBaseInterventions(g *gin.RouterGroup, h Handlers) {
	editors := middleware.RequireRoles(models.RoleSpecialist)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(h.Audit, action, resource)
	}

	g.GET("", h.BaseIntervention.List)
	g.GET("/area/:area", h.BaseIntervention.ListByArea)
	g.GET("/nivel/:nivel", h.BaseIntervention.ListByLevel)
	g.GET("/by-dificuldade/:dificuldadeId", h.BaseIntervention.ListByDifficulty)
	g.GET("/:id", h.BaseIntervention.Get)
	g.GET("/:id/dificuldades", h.BaseIntervention.ListDifficulties)

	g.POST("", editors, audit(models.AuditActionCreate, resourceBaseIntervention), h.BaseIntervention.Create)
	g.PATCH("/:id", editors, audit(models.AuditActionUpdate, resourceBaseIntervention), h.BaseIntervention.Update)
	g.DELETE("/:id", editors, audit(models.AuditActionDelete, resourceBaseIntervention), h.BaseIntervention.Remove)
	g.POST("/associate-dificuldade", editors, audit(models.AuditActionAssociate, resourceDifficultyLink), h.BaseIntervention.AssociateDifficulty)
	g.DELETE("/:id/dificuldades/:dificuldadeId", editors, audit(models.AuditActionDelete, resourceDifficultyLink), h.BaseIntervention.RemoveDifficultyAssociation)
}

func registerProtocols(g *gin.RouterGroup, h Handlers) {
	editors := middleware.RequireRoles(models.RoleSpecialist)

	g.GET("", h.Protocol.List)
	g.GET("/base-intervention/:id", h.Protocol.ListByBaseIntervention)
	g.GET("/:id", h.Protocol.Get)

	g.POST("", editors, middleware.Audit(h.Audit, models.AuditActionCreate, resourceProtocol), h.Protocol.Create)
	g.PATCH("/:id", editors, middleware.Audit(h.Audit, models.AuditActionUpdate, resourceProtocol), h.Protocol.Update)
	g.DELETE("/:id", editors, middleware.Audit(h.Audit, models.AuditActionDelete, resourceProtocol), h.Protocol.Remove)
	g.POST("/:id/duplicate", editors, middleware.Audit(h.Audit, models.AuditActionDuplicate, resourceProtocol), h.Protocol.Duplicate)
}

func registerLessonPlans(g *gin.RouterGroup, h Handlers) {
	editors := middleware.RequireRoles(models.RoleCoordinator, models.RoleTeacher)

	g.GET("", h.LessonPlan.List)
	g.GET("/class/:classId", h.LessonPlan.ListByClass)
	g.GET("/teacher/:teacherId", h.LessonPlan.ListByTeacher)
	g.GET("/:id", h.LessonPlan.Get)

	g.POST("", editors, middleware.Audit(h.Audit, models.AuditActionCreate, resourceLessonPlan), h.LessonPlan.Create)
	g.PATCH("/:id", editors, middleware.Audit(h.Audit, models.AuditActionUpdate, resourceLessonPlan), h.LessonPlan.Update)
	g.DELETE("/:id", editors, middleware.Audit(h.Audit, models.AuditActionDelete, resourceLessonPlan), h.LessonPlan.Remove)
}

func registerScreenings(g *gin.RouterGroup, h Handlers) {
	editors := middleware.RequireRoles(models.RoleSpecialist, models.RoleTeacher)

	g.GET("", h.Screening.List)
	g.GET("/statistics/general", middleware.WithResponseMeta(), h.Screening.Statistics)
	g.GET("/student/:estudanteId", h.Screening.StudentResults)
	g.GET("/student/:estudanteId/export", h.Screening.ExportStudentResults)
	g.GET("/:id", h.Screening.Get)

	g.POST("", editors, middleware.Audit(h.Audit, models.AuditActionCreate, resourceScreening), h.Screening.Create)
	g.PATCH("/:id", editors, middleware.Audit(h.Audit, models.AuditActionUpdate, resourceScreening), h.Screening.Update)
	g.DELETE("/:id", editors, middleware.Audit(h.Audit, models.AuditActionDelete, resourceScreening), h.Screening.Remove)
	g.POST("/:id/results", editors, middleware.Audit(h.Audit, models.AuditActionRecord, resourceScreening), h.Screening.RecordResults)
}
