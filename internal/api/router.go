package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/travel-ledger/internal/api/handler"
	"github.com/travel-ledger/internal/api/middleware"
)

// maxBodyBytes bounds uploads, snapshots included.
const maxBodyBytes = 32 << 20

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, services *Services) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	entryHandler := handler.NewEntryHandler(logger, services.Entries)
	fxHandler := handler.NewFXHandler(logger, services.Currency, services.Settings)
	reportHandler := handler.NewReportHandler(logger, services.Reports)
	snapshotHandler := handler.NewSnapshotHandler(logger, services.Snapshot, services.Settings)
	settingsHandler := handler.NewSettingsHandler(logger, services.Settings)

	v1 := r.Group("/api/v1")
	{
		entries := v1.Group("/entries")
		{
			entries.GET("", entryHandler.ListRecent)
			entries.POST("", entryHandler.Create)
			entries.GET("/:id", entryHandler.GetByID)
			entries.PUT("/:id", entryHandler.Update)
			entries.DELETE("/:id", entryHandler.Delete)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/daily", reportHandler.Range)
			reports.GET("/daily/:date", reportHandler.Day)
		}

		rates := v1.Group("/fx")
		{
			rates.GET("", fxHandler.Get)
			rates.PUT("/rates/:code", fxHandler.SetRate)
			rates.POST("/check", fxHandler.Check)
			rates.POST("/apply", fxHandler.Apply)
			rates.POST("/restore", fxHandler.Restore)
		}

		v1.GET("/settings/:key", settingsHandler.Get)
		v1.PUT("/settings/:key", settingsHandler.Set)

		v1.GET("/snapshot", snapshotHandler.Export)
		v1.POST("/snapshot", snapshotHandler.Import)
		v1.GET("/snapshot/workbook", snapshotHandler.Workbook)
		v1.POST("/reset", snapshotHandler.Reset)

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/categories", handler.Categories)
			catalog.GET("/currencies", handler.Currencies)
			catalog.GET("/payment-methods", handler.PaymentMethods)
			catalog.GET("/cash-wallets", handler.CashWallets)
		}
	}

	r.GET("/health", handler.Health)
}
