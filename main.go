package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"lessonledger-backend/config"
	"lessonledger-backend/models"
	"lessonledger-backend/routes"
	"lessonledger-backend/services"
)

func main() {
	cfg := config.Load()

	if cfg.DBURL != "" {
		if err := config.ConnectDB(cfg.DBURL); err != nil {
			log.Fatalf("Failed to connect database: %v", err)
		}
		config.DB.AutoMigrate(
			&models.User{},
			&models.Customer{},
			&models.Invoice{},
		)
	} else {
		log.Println("DB_URL not set; store-backed routes will report an error")
	}

	if cfg.RemindersEnabled && config.DB != nil {
		services.NewReminderService(config.DB, cfg).StartScheduler()
	}

	r := routes.SetupRouter(cfg)
	printRoutes(r)
	r.Run(":" + cfg.Port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
