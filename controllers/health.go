package controllers

import (
	"github.com/gin-gonic/gin"

	"lessonledger-backend/config"
	"lessonledger-backend/utils"
)

// HealthCheck reports liveness, store connectivity and whether the static
// asset host is configured. A broken DB connection is reported in dbTest, not
// as a failed request.
func HealthCheck(c *gin.Context) {
	hasDB := config.DB != nil

	dbTest := ""
	if hasDB {
		if err := config.DB.Exec("SELECT 1").Error; err != nil {
			dbTest = err.Error()
		} else {
			dbTest = "ok"
		}
	}

	hasStatic := config.App != nil && config.App.StaticDir != ""

	utils.RespondWithOK(c, gin.H{
		"hasDB":     hasDB,
		"dbTest":    dbTest,
		"hasStatic": hasStatic,
	})
}
