package routes

import (
	"github.com/WideDream/sto-mana/config"
	"github.com/WideDream/sto-mana/controllers"
	"github.com/WideDream/sto-mana/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Controllers bundles the HTTP handlers mounted by SetupRouter.
type Controllers struct {
	Auth      *controllers.AuthController
	Records   *controllers.RecordController
	Customers *controllers.CustomerController
	Products  *controllers.ProductController
	Reports   *controllers.ReportController
	Dashboard *controllers.DashboardController
	Export    *controllers.ExportController
	Reminders *controllers.ReminderController
}

func SetupRouter(cfg *config.Config, log *zap.Logger, h Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(log))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)

		auth.Use(utils.AuthMiddleware(cfg.JWT.Secret))
		auth.GET("/me", h.Auth.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(cfg.JWT.Secret))
	{
		// Record routes
		records := api.Group("/records")
		{
			records.POST("", h.Records.CreateRecord)
			records.GET("", h.Records.GetRecords)
			records.GET("/:id", h.Records.GetRecord)
			records.PUT("/:id", h.Records.UpdateRecord)
			records.DELETE("/:id", h.Records.DeleteRecord)
			records.POST("/:id/payments", h.Records.RecordPayment)
		}
		api.POST("/loans", h.Records.AddPastLoan)

		// Customer routes
		customers := api.Group("/customers")
		{
			customers.GET("", h.Customers.GetCustomers)
			customers.GET("/:id", h.Customers.GetCustomer)
			customers.PUT("/:id", h.Customers.UpdateCustomer)
			customers.PUT("/:id/credit-limit", h.Customers.SetCreditLimit)
			customers.GET("/:id/statement", h.Customers.GetStatement)
		}

		// Product routes
		products := api.Group("/products")
		{
			products.POST("", h.Products.CreateProduct)
			products.GET("", h.Products.GetProducts)
			products.GET("/:id", h.Products.GetProduct)
			products.PUT("/:id", h.Products.UpdateProduct)
			products.DELETE("/:id", h.Products.DeleteProduct)
		}

		// Reports routes
		reports := api.Group("/reports")
		{
			reports.GET("/monthly", h.Reports.GetMonthlySales)
			reports.GET("/top-customers", h.Reports.GetTopCustomers)
			reports.GET("/payment-status", h.Reports.GetPaymentStatusSummary)
			reports.GET("/overdue", h.Reports.GetOverdueRecords)
		}

		// Dashboard routes
		api.GET("/dashboard", h.Dashboard.GetDashboardOverview)

		export := api.Group("/export")
		{
			export.GET("/csv", h.Export.ExportCSV)
			export.GET("/xlsx", h.Export.ExportXLSX)
		}

		reminders := api.Group("/reminders")
		{
			reminders.GET("", h.Reminders.GetReminderLogs)
			reminders.POST("/run", h.Reminders.RunReminders)
		}
	}

	return r
}
