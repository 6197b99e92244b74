package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"labstock-system/config"
	"labstock-system/internal/database"
	"labstock-system/internal/middleware"
	equipmenthandler "labstock-system/internal/services/equipment/handler"
	maintenancehandler "labstock-system/internal/services/maintenance/handler"
	materialshandler "labstock-system/internal/services/materials/handler"
	notificationhandler "labstock-system/internal/services/notification/handler"
	userhandler "labstock-system/internal/services/user/handler"
	"labstock-system/internal/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetJWTSecret(cfg.Auth.JWTSecret)

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	rdb := config.NewRedisClient(cfg.Redis)

	materials := materialshandler.NewMaterialsHandler(db)
	equipment := equipmenthandler.NewEquipmentHandler(db)
	maintenance := maintenancehandler.NewMaintenanceHandler(db)
	users := userhandler.NewUserHandler(db, cfg.Auth.TokenTTL)
	notifications := notificationhandler.NewNotificationHandler(db, rdb, cfg.SMTP)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestID())
	r.Use(middleware.RateLimit(cfg.Server.RateLimit))
	r.Use(middleware.Metrics())

	r.POST("/login", users.Login)
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/")
	api.Use(middleware.JWTAuth())
	{
		api.POST("/materiais", materials.CreateMaterial)
		api.GET("/materiaisList", materials.ListMaterials)
		api.GET("/materiais/busca", materials.SearchMaterial)
		api.GET("/materiais/vencidos", materials.ListExpired)
		api.GET("/materiais/relatorio/valor", materials.ValueReportHandler)
		api.GET("/materiais/relatorio/contadores", materials.CounterReportHandler)
		api.GET("/materiais/export", materials.ExportCSV)
		api.GET("/materiais/export/xlsx", materials.ExportXLSX)
		api.GET("/materiais/:id", materials.GetMaterial)
		api.PUT("/materiais/:id", materials.UpdateMaterial)
		api.DELETE("/materiais/:id", materials.DeleteMaterial)
		api.PATCH("/materiais/:id/baixa", materials.BaixaMaterial)
		api.POST("/materiais/:id/documento", materials.UploadDocument)
		api.GET("/materiais/:id/documento", materials.DownloadDocument)

		api.POST("/equipamentos", equipment.CreateEquipment)
		api.GET("/equipamentos", equipment.ListEquipment)
		api.GET("/equipamentos/:id", equipment.GetEquipment)
		api.PUT("/equipamentos/:id", equipment.UpdateEquipment)
		api.DELETE("/equipamentos/:id", equipment.DeleteEquipment)
		api.GET("/equipamentos/:id/historico", maintenance.ListHistory)

		api.POST("/manutencoes", maintenance.ScheduleMaintenance)
		api.GET("/manutencoes", maintenance.ListMaintenance)
		api.GET("/manutencoes/:id", maintenance.GetMaintenance)
		api.PUT("/manutencoes/:id", maintenance.UpdateMaintenance)
		api.PATCH("/manutencoes/:id/concluir", maintenance.ConcludeMaintenance)

		api.POST("/solicitacoes", notifications.Solicitar)
		api.GET("/emails", notifications.ListEmails)
	}

	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
