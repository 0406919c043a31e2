package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/utiligas/casedesk/internal/handler"
	"github.com/utiligas/casedesk/internal/middleware"
	"github.com/utiligas/casedesk/internal/service"
	"github.com/utiligas/casedesk/pkg/logger"
	reqidmiddleware "github.com/utiligas/casedesk/pkg/middleware/requestid"
	"github.com/utiligas/casedesk/pkg/settings"
)

// Deps collects everything the route table needs.
type Deps struct {
	Logger          *zap.Logger
	Cases           *service.CaseService
	Correspondences *service.CorrespondenceService
	Attachments     *service.AttachmentService
	Employees       *service.EmployeeService
	Audit           *service.AuditService
	Exports         *service.ExportService
	Metrics         *service.MetricsService
	Categories      handler.CategoryLister
	Settings        *settings.Store
}

// New builds the gin engine with the full route table. Everything except
// login, health and the scrape endpoint sits behind the session gate.
func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))

	auth := handler.NewAuthHandler(deps.Employees)
	cases := handler.NewCaseHandler(deps.Cases, deps.Audit, deps.Logger)
	correspondences := handler.NewCorrespondenceHandler(deps.Correspondences, deps.Audit, deps.Logger)
	attachments := handler.NewAttachmentHandler(deps.Attachments, deps.Audit, deps.Logger)
	employees := handler.NewEmployeeHandler(deps.Employees, deps.Audit, deps.Logger)
	categories := handler.NewCategoryHandler(deps.Categories)
	exports := handler.NewExportHandler(deps.Exports)
	settingsHandler := handler.NewSettingsHandler(deps.Settings)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	r.POST("/api/login", auth.Login)

	api := r.Group("/api")
	api.Use(middleware.Session(deps.Employees))
	{
		api.GET("/cases", cases.List)
		api.GET("/cases/search", cases.Search)
		api.GET("/cases/years", cases.Years)
		api.GET("/cases/statistics", cases.Statistics)
		api.GET("/cases/statuses", cases.StatusOptions)
		api.POST("/cases", cases.Create)
		api.GET("/cases/:id", cases.Get)
		api.PUT("/cases/:id", cases.Update)
		api.DELETE("/cases/:id", cases.Delete)
		api.GET("/cases/:id/history", cases.History)

		api.GET("/cases/:id/correspondences", correspondences.List)
		api.GET("/cases/:id/correspondences/next-sequence", correspondences.NextSequence)
		api.POST("/cases/:id/correspondences", correspondences.Create)
		api.PUT("/correspondences/:correspondenceId", correspondences.Update)
		api.DELETE("/correspondences/:correspondenceId", correspondences.Delete)

		api.GET("/cases/:id/attachments", attachments.List)
		api.POST("/cases/:id/attachments", attachments.Create)
		api.DELETE("/attachments/:attachmentId", attachments.Delete)

		api.GET("/employees", employees.List)
		api.POST("/employees", employees.Create)
		api.DELETE("/employees/:id", employees.Deactivate)

		api.GET("/categories", categories.List)
		api.GET("/export", exports.Generate)

		api.GET("/settings", settingsHandler.Get)
		api.PUT("/settings", settingsHandler.Update)
	}

	return r
}
