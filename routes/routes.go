package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lessonledger-backend/config"
	"lessonledger-backend/controllers"
	"lessonledger-backend/services"
	"lessonledger-backend/utils"
)

func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
	}))

	r.Use(config.PerformanceLogger())

	controllers.Email = services.NewEmailService(cfg.EmailAPIURL, cfg.EmailAPIKey)

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.GET("/me", utils.AuthMiddleware(), controllers.Me)
	}

	api := r.Group("/api")
	if cfg.AuthRequired {
		api.Use(utils.AuthMiddleware())
	}
	{
		api.GET("/health", controllers.HealthCheck)

		// Customer routes
		customers := api.Group("/customers")
		{
			customers.GET("", controllers.GetCustomers)
			customers.POST("", controllers.CreateCustomer)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.GET("", controllers.GetInvoices)
			invoices.POST("", controllers.UpsertInvoice)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.POST("/:id/mark-paid", controllers.MarkInvoicePaid)
			invoices.POST("/:id/mark-unpaid", controllers.MarkInvoiceUnpaid)
			invoices.POST("/:id/email-receipt", controllers.EmailReceipt)
		}
	}

	// Unmatched /api paths get a structured 404; everything else falls through
	// to the static asset host when one is configured.
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			utils.RespondWithError(c, http.StatusNotFound, "Not found")
			return
		}
		serveStatic(c, cfg.StaticDir)
	})

	return r
}

// serveStatic serves a file from the static dir, with an SPA-style fallback
// to index.html for unknown paths.
func serveStatic(c *gin.Context, dir string) {
	if dir == "" {
		c.Status(http.StatusNotFound)
		return
	}

	path := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		c.File(path)
		return
	}

	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err == nil {
		c.File(index)
		return
	}

	c.Status(http.StatusNotFound)
}
