package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mall-site-backend/internal/auth"
	"mall-site-backend/internal/config"
	handler "mall-site-backend/internal/handlers"
	"mall-site-backend/internal/logger"
	"mall-site-backend/internal/middleware"
	"mall-site-backend/internal/models"
	"mall-site-backend/internal/repository"
	"mall-site-backend/internal/services/batch"
	"mall-site-backend/internal/services/catalog"
	"mall-site-backend/internal/services/importer"
	"mall-site-backend/internal/services/logos"
	"mall-site-backend/internal/storage"
	"mall-site-backend/internal/validation"
)

type Deps struct {
	DB      *gorm.DB
	Log     *logger.Logger
	Config  *config.Config
	Objects storage.ObjectStore
	Tracker *batch.Tracker
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	log := deps.Log
	tracker := deps.Tracker
	if tracker == nil {
		tracker = batch.NewTracker()
	}

	storeRepo := repository.NewStoreRepository(deps.DB)
	categoryRepo := repository.NewCategoryRepository(deps.DB)
	eventRepo := repository.NewEventRepository(deps.DB)
	mallServiceRepo := repository.NewMallServiceRepository(deps.DB)
	settingRepo := repository.NewSettingRepository(deps.DB)
	runRepo := repository.NewImportRunRepository(deps.DB)

	recorder := batch.NewRecorder(runRepo, tracker)
	catalogService := catalog.NewService(log, validation.New(), storeRepo, categoryRepo, eventRepo, mallServiceRepo, settingRepo)
	importService := importer.NewService(log, storeRepo, categoryRepo, recorder)
	logoService := logos.NewService(log, storeRepo, deps.Objects, runRepo, recorder)

	tokens := auth.NewTokenService(deps.Config.JWTSecret, deps.Config.TokenTTL)
	policy := auth.NewStaticPolicy(deps.Config.AdminUsername, deps.Config.AdminPassword)
	authMiddleware := middleware.NewAuthMiddleware(log, tokens)

	authHandler := handler.NewAuthHandler(log, policy, tokens)
	catalogHandler := handler.NewCatalogHandler(log, catalogService)
	importHandler := handler.NewImportHandler(log, importService)
	logoHandler := handler.NewLogoHandler(log, logoService)
	runHandler := handler.NewRunHandler(log, tracker, runRepo)

	if local, ok := deps.Objects.(*storage.LocalStore); ok {
		r.Static("/media", local.Dir())
	}

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public site
	api.GET("/stores", catalogHandler.PublicStores(models.StoreKindStore))
	api.GET("/stores/:slug", catalogHandler.PublicStoreBySlug)
	api.GET("/dining", catalogHandler.PublicStores(models.StoreKindDining))
	api.GET("/events", catalogHandler.PublicEvents)
	api.GET("/services", catalogHandler.ListMallServices)
	api.GET("/settings", catalogHandler.PublicSettings)

	api.POST("/admin/login", authHandler.Login)

	admin := api.Group("/admin", authMiddleware.RequireAdmin())

	stores := admin.Group("/stores")
	{
		stores.GET("", catalogHandler.ListStores)
		stores.POST("", catalogHandler.CreateStore)
		stores.GET("/:id", catalogHandler.GetStore)
		stores.PUT("/:id", catalogHandler.UpdateStore)
		stores.DELETE("/:id", catalogHandler.DeleteStore)
		stores.GET("/:id/logo-history", runHandler.LogoHistory)
	}

	categories := admin.Group("/categories")
	{
		categories.GET("", catalogHandler.ListCategories)
		categories.POST("", catalogHandler.CreateCategory)
		categories.PUT("/:id", catalogHandler.UpdateCategory)
		categories.DELETE("/:id", catalogHandler.DeleteCategory)
	}

	events := admin.Group("/events")
	{
		events.GET("", catalogHandler.ListEvents)
		events.POST("", catalogHandler.CreateEvent)
		events.PUT("/:id", catalogHandler.UpdateEvent)
		events.DELETE("/:id", catalogHandler.DeleteEvent)
	}

	services := admin.Group("/services")
	{
		services.GET("", catalogHandler.ListMallServices)
		services.POST("", catalogHandler.CreateMallService)
		services.PUT("/:id", catalogHandler.UpdateMallService)
		services.DELETE("/:id", catalogHandler.DeleteMallService)
	}

	admin.GET("/settings", catalogHandler.ListSettings)
	admin.GET("/settings/:key", catalogHandler.GetSetting)
	admin.PUT("/settings/:key", catalogHandler.PutSetting)
	admin.DELETE("/settings/:key", catalogHandler.DeleteSetting)

	// Spreadsheet import: preview is read-only, commit writes row by row
	imports := admin.Group("/import")
	{
		imports.GET("/template", importHandler.Template)
		imports.POST("/preview", importHandler.Preview)
		imports.POST("/skip", importHandler.Skip)
		imports.POST("/commit", importHandler.Commit)
	}

	logoRoutes := admin.Group("/logos")
	{
		logoRoutes.POST("/match", logoHandler.Match)
		logoRoutes.POST("/edit", logoHandler.Edit)
		logoRoutes.POST("/commit", logoHandler.Commit)
	}

	admin.GET("/runs/:id", runHandler.GetRun)
}
