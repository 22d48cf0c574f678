package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lessonledger-backend/config"
	"lessonledger-backend/models"
	"lessonledger-backend/utils"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// CreateCustomer creates a new customer row
func CreateCustomer(c *gin.Context) {
	if config.DB == nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database not configured")
		return
	}

	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := utils.Trim(input.Name)
	if name == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Name is required")
		return
	}

	customer := models.Customer{
		Name:    name,
		Address: utils.Trim(input.Address),
		Phone:   utils.Trim(input.Phone),
	}
	if email := utils.Trim(input.Email); email != "" {
		customer.Email = &email
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	utils.RespondWithOK(c, gin.H{"id": customer.ID})
}

// GetCustomers lists customers, optionally filtered by a case-insensitive
// substring match on name or email.
func GetCustomers(c *gin.Context) {
	if config.DB == nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database not configured")
		return
	}

	limit := utils.ClampLimit(c.Query("limit"), 25, 100)

	tx := config.DB.Model(&models.Customer{}).
		Order("created_at DESC").
		Limit(limit)

	if q := utils.Trim(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(email, '')) LIKE ?", like, like)
	}

	var customers []models.Customer
	if err := tx.Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	utils.RespondWithOK(c, gin.H{"customers": customers})
}
