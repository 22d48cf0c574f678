// controllers/invoice.go
package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lessonledger-backend/config"
	"lessonledger-backend/models"
	"lessonledger-backend/services"
	"lessonledger-backend/utils"
)

// Email is the outbound provider, wired in routes.SetupRouter. Tests swap it.
var Email services.Sender

// UpsertCustomerInput is the customer snapshot embedded in an invoice upsert.
type UpsertCustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// UpsertInvoiceInput defines the expected JSON structure for creating or
// updating an invoice, keyed by invoiceNo.
type UpsertInvoiceInput struct {
	InvoiceNo     string               `json:"invoiceNo"`
	Customer      UpsertCustomerInput  `json:"customer"`
	Programme     string               `json:"programme"`
	Subtotal      models.FlexFloat     `json:"subtotal"`
	TravelFee     models.FlexFloat     `json:"travelFee"`
	Total         models.FlexFloat     `json:"total"`
	DepositAmount models.FlexFloat     `json:"depositAmount"`
	Items         []models.InvoiceItem `json:"items"`
	Notes         string               `json:"notes"`
	DueDate       string               `json:"dueDate"`
}

// MarkPaidInput carries the optional payment metadata for mark-paid.
type MarkPaidInput struct {
	PaidAt     string `json:"paidAt"`
	PaidMethod string `json:"paidMethod"`
	PaidRef    string `json:"paidRef"`
}

// upsertCustomerByEmail inserts or updates a customer keyed on email, using
// the store's conflict resolution so concurrent identical upserts converge.
// Customers without an email are always inserted fresh.
func upsertCustomerByEmail(db *gorm.DB, input UpsertCustomerInput) (uint, error) {
	customer := models.Customer{
		Name:    utils.Trim(input.Name),
		Address: utils.Trim(input.Address),
		Phone:   utils.Trim(input.Phone),
	}

	email := utils.Trim(input.Email)
	if email == "" {
		if err := db.Create(&customer).Error; err != nil {
			return 0, err
		}
		return customer.ID, nil
	}

	customer.Email = &email
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "address", "phone"}),
	}).Create(&customer).Error
	if err != nil {
		return 0, err
	}

	// the id reported back on the conflict path is not reliable across
	// drivers; the unique email is the authoritative key
	var existing models.Customer
	if err := db.Where("email = ?", email).First(&existing).Error; err != nil {
		return 0, err
	}

	return existing.ID, nil
}

// UpsertInvoice creates or updates an invoice keyed by invoice number. The
// customer is upserted by email first; payment and receipt fields are never
// touched here.
func UpsertInvoice(c *gin.Context) {
	if config.DB == nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database not configured")
		return
	}

	var input UpsertInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid JSON")
		return
	}

	invoiceNo := utils.Trim(input.InvoiceNo)
	if invoiceNo == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invoice number is required")
		return
	}
	if utils.Trim(input.Customer.Name) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Customer name is required")
		return
	}

	customerID, err := upsertCustomerByEmail(config.DB, input.Customer)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save customer")
		return
	}

	items := make([]models.InvoiceItem, 0, len(input.Items))
	subtotal := float64(input.Subtotal)
	itemSum := 0.0
	for _, item := range input.Items {
		item.Desc = utils.Trim(item.Desc)
		if item.Amount == 0 && item.Qty > 0 && item.Unit > 0 {
			item.Amount = item.Qty * item.Unit
		}
		itemSum += float64(item.Amount)
		items = append(items, item)
	}
	if subtotal == 0 {
		subtotal = itemSum
	}

	total := float64(input.Total)
	if total == 0 {
		total = subtotal + float64(input.TravelFee)
	}

	programme := utils.Trim(input.Programme)
	if programme == "" {
		programme = "lessons"
	}

	invoice := models.Invoice{
		InvoiceNo:     invoiceNo,
		CustomerID:    &customerID,
		Programme:     programme,
		Subtotal:      subtotal,
		TravelFee:     float64(input.TravelFee),
		Total:         total,
		DepositAmount: float64(input.DepositAmount),
		Items:         models.MarshalItems(items),
		Notes:         utils.Trim(input.Notes),
		DueDate:       utils.Trim(input.DueDate),
		IssuedAt:      time.Now(),
	}

	err = config.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "invoice_no"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"customer_id", "programme", "subtotal", "travel_fee", "total",
			"deposit_amount", "items", "notes", "due_date",
		}),
	}).Create(&invoice).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save invoice")
		return
	}

	// re-fetch by the natural key; ids backfilled on the conflict path are
	// not reliable across drivers
	var saved models.Invoice
	if err := config.DB.Where("invoice_no = ?", invoiceNo).First(&saved).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save invoice")
		return
	}

	utils.RespondWithOK(c, gin.H{
		"id":         saved.ID,
		"invoiceNo":  saved.InvoiceNo,
		"customerId": customerID,
	})
}

// InvoiceListRow is one row of the invoice list, joined with customer details.
type InvoiceListRow struct {
	ID               uint       `json:"id"`
	InvoiceNo        string     `json:"invoiceNo"`
	Programme        string     `json:"programme"`
	Subtotal         float64    `json:"subtotal"`
	TravelFee        float64    `json:"travelFee"`
	Total            float64    `json:"total"`
	DepositAmount    float64    `json:"depositAmount"`
	DueDate          string     `json:"dueDate"`
	IssuedAt         time.Time  `json:"issuedAt"`
	PaidAt           *time.Time `json:"paidAt"`
	ReceiptNo        *string    `json:"receiptNo"`
	EmailedReceiptAt *time.Time `json:"emailedReceiptAt"`
	CustomerName     *string    `json:"customerName"`
	CustomerEmail    *string    `json:"customerEmail"`
}

// GetInvoices lists invoices newest first, optionally filtered by payment
// status and/or programme.
func GetInvoices(c *gin.Context) {
	if config.DB == nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database not configured")
		return
	}

	limit := utils.ClampLimit(c.Query("limit"), 30, 100)

	tx := config.DB.Table("invoices").
		Select("invoices.id, invoices.invoice_no, invoices.programme, invoices.subtotal, " +
			"invoices.travel_fee, invoices.total, invoices.deposit_amount, invoices.due_date, " +
			"invoices.issued_at, invoices.paid_at, invoices.receipt_no, invoices.emailed_receipt_at, " +
			"customers.name AS customer_name, customers.email AS customer_email").
		Joins("LEFT JOIN customers ON customers.id = invoices.customer_id").
		Order("invoices.issued_at DESC").
		Limit(limit)

	switch utils.Trim(c.Query("status")) {
	case "paid":
		tx = tx.Where("invoices.paid_at IS NOT NULL")
	case "unpaid":
		tx = tx.Where("invoices.paid_at IS NULL")
	}
	if programme := utils.Trim(c.Query("programme")); programme != "" {
		tx = tx.Where("invoices.programme = ?", programme)
	}

	var rows []InvoiceListRow
	if err := tx.Scan(&rows).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}
	if rows == nil {
		rows = []InvoiceListRow{}
	}

	utils.RespondWithOK(c, gin.H{"invoices": rows})
}

// GetInvoice fetches one invoice with its customer and parsed item list.
func GetInvoice(c *gin.Context) {
	if config.DB == nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database not configured")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var invoice models.Invoice
	if err := config.DB.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var customer *models.Customer
	if invoice.CustomerID != nil {
		var row models.Customer
		if err := config.DB.First(&row, *invoice.CustomerID).Error; err == nil {
			customer = &row
		}
	}

	utils.RespondWithOK(c, gin.H{
		"invoice":  invoice,
		"items":    models.ParseItems(invoice.Items),
		"customer": customer,
	})
}

// MarkInvoicePaid records a payment against an invoice, assigns the receipt
// number if this is the first payment, and sends the receipt email
// best-effort. The payment transition succeeds even when the email does not.
func MarkInvoicePaid(c *gin.Context) {
	if config.DB == nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database not configured")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var input MarkPaidInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var invoice models.Invoice
	if err := config.DB.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	paidAt := utils.ParseWhen(input.PaidAt, time.Now())
	method := utils.Trim(input.PaidMethod)
	if method == "" {
		method = "Bank Transfer"
	}
	ref := utils.Trim(input.PaidRef)

	// Receipt numbers are assigned once; repeated pay/unpay/pay cycles must
	// never produce a second one.
	receiptNo := fmt.Sprintf("RCPT-%s-%s", invoice.InvoiceNo, paidAt.Format("20060102"))
	if invoice.ReceiptNo != nil && *invoice.ReceiptNo != "" {
		receiptNo = *invoice.ReceiptNo
	}

	err = config.DB.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"paid_at":     paidAt,
			"paid_method": method,
			"paid_ref":    ref,
			"receipt_no":  receiptNo,
		}).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	invoice.PaidAt = &paidAt
	invoice.PaidMethod = &method
	invoice.PaidRef = &ref
	invoice.ReceiptNo = &receiptNo

	emailed, skipped, emailErr := sendReceipt(c, invoice)

	resp := gin.H{
		"id":        invoice.ID,
		"receiptNo": receiptNo,
		"emailed":   emailed,
	}
	if emailErr != "" {
		resp["emailError"] = emailErr
	}
	if skipped != "" {
		resp["emailSkipped"] = skipped
	}
	utils.RespondWithOK(c, resp)
}

// MarkInvoiceUnpaid clears the payment fields. The receipt number and email
// stamp are deliberately left in place so a re-payment reuses them.
func MarkInvoiceUnpaid(c *gin.Context) {
	if config.DB == nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database not configured")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	err = config.DB.Model(&models.Invoice{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"paid_at":     nil,
			"paid_method": nil,
			"paid_ref":    nil,
		}).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	utils.RespondWithOK(c, gin.H{})
}

// EmailReceipt re-sends the receipt email for an invoice, paid or not.
// Payment fields are never mutated here.
func EmailReceipt(c *gin.Context) {
	if config.DB == nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database not configured")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var invoice models.Invoice
	if err := config.DB.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	emailed, skipped, emailErr := sendReceipt(c, invoice)

	resp := gin.H{"id": invoice.ID, "emailed": emailed}
	if emailErr != "" {
		resp["emailError"] = emailErr
	}
	if skipped != "" {
		resp["emailSkipped"] = skipped
	}
	utils.RespondWithOK(c, resp)
}

// sendReceipt renders and delivers the receipt email for an invoice. It never
// fails the enclosing request: the outcome comes back as flags. The
// emailed_receipt_at stamp is written only on a confirmed successful send.
func sendReceipt(c *gin.Context, invoice models.Invoice) (emailed bool, skipped string, emailErr string) {
	if Email == nil || !Email.Configured() {
		return false, "email not configured", ""
	}

	var customer models.Customer
	if invoice.CustomerID != nil {
		config.DB.First(&customer, *invoice.CustomerID)
	}
	if customer.Email == nil || utils.Trim(*customer.Email) == "" {
		return false, "customer has no email address", ""
	}

	paidAt := time.Now()
	if invoice.PaidAt != nil {
		paidAt = *invoice.PaidAt
	}
	method := "Bank Transfer"
	if invoice.PaidMethod != nil && *invoice.PaidMethod != "" {
		method = *invoice.PaidMethod
	}
	ref := ""
	if invoice.PaidRef != nil {
		ref = *invoice.PaidRef
	}
	receiptNo := fmt.Sprintf("RCPT-%s-%s", invoice.InvoiceNo, paidAt.Format("20060102"))
	if invoice.ReceiptNo != nil && *invoice.ReceiptNo != "" {
		receiptNo = *invoice.ReceiptNo
	}

	data := services.ReceiptData{
		BusinessName:    config.App.BusinessName,
		BusinessEmail:   config.App.BusinessEmail,
		CustomerName:    customer.Name,
		CustomerEmail:   *customer.Email,
		CustomerAddress: customer.Address,
		ReceiptNo:       receiptNo,
		InvoiceNo:       invoice.InvoiceNo,
		Programme:       invoice.Programme,
		PaidAt:          paidAt,
		PaidMethod:      method,
		PaidRef:         ref,
		Items:           models.ParseItems(invoice.Items),
		TravelFee:       invoice.TravelFee,
		Total:           invoice.Total,
		DepositAmount:   invoice.DepositAmount,
	}

	html, text, err := services.RenderReceipt(data)
	if err != nil {
		return false, "", utils.Truncate(err.Error(), 200)
	}

	from := config.App.EmailFrom
	if from == "" {
		from = config.App.BusinessEmail
	}

	msg := services.EmailMessage{
		From:    from,
		To:      *customer.Email,
		Subject: fmt.Sprintf("Receipt %s from %s", receiptNo, config.App.BusinessName),
		HTML:    html,
		Text:    text,
	}

	if err := Email.Send(c.Request.Context(), msg); err != nil {
		return false, "", utils.Truncate(err.Error(), 300)
	}

	now := time.Now()
	if err := config.DB.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		Update("emailed_receipt_at", now).Error; err != nil {
		// the email went out; a failed stamp is logged by gorm and not fatal
		return true, "", ""
	}

	return true, "", ""
}
