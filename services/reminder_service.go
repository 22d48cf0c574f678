// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"lessonledger-backend/config"
	"lessonledger-backend/utils"
)

// ReminderService texts customers about unpaid invoices past their due date.
// It only runs when explicitly enabled; the API itself does no background work.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
	from   string
}

func NewReminderService(db *gorm.DB, cfg *config.Config) *ReminderService {
	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		from: cfg.TwilioPhoneNumber,
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendOverdueReminders)

	c.Start()
	log.Println("Overdue reminder scheduler started")
}

type overdueInvoice struct {
	InvoiceNo     string
	Total         float64
	DueDate       string
	CustomerName  string
	CustomerPhone string
}

func (s *ReminderService) SendOverdueReminders() {
	log.Println("Starting overdue reminder processing...")

	var rows []overdueInvoice
	err := s.db.Table("invoices").
		Select("invoices.invoice_no, invoices.total, invoices.due_date, customers.name AS customer_name, customers.phone AS customer_phone").
		Joins("JOIN customers ON customers.id = invoices.customer_id").
		Where("invoices.paid_at IS NULL AND invoices.due_date <> '' AND customers.phone <> ''").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Failed to fetch unpaid invoices: %v", err)
		return
	}

	now := time.Now()
	for _, row := range rows {
		due, err := time.Parse("2006-01-02", row.DueDate)
		if err != nil {
			continue
		}
		overdueDays := utils.DaysBetween(due, now)
		if overdueDays <= 0 {
			continue
		}

		message := fmt.Sprintf(
			"Hi %s, invoice %s (£%.2f) was due on %s and is %d day(s) overdue. Please get in touch to arrange payment.",
			row.CustomerName, row.InvoiceNo, row.Total, due.Format("2 January 2006"), overdueDays)

		params := &twilioApi.CreateMessageParams{}
		params.SetTo(row.CustomerPhone)
		params.SetFrom(s.from)
		params.SetBody(message)

		resp, err := s.client.Api.CreateMessage(params)
		if err != nil {
			log.Printf("Failed to send reminder for %s to %s: %v", row.InvoiceNo, row.CustomerPhone, err)
		} else if resp.Sid != nil {
			log.Printf("Reminder sent for %s, SID: %s", row.InvoiceNo, *resp.Sid)
		} else {
			log.Printf("Reminder sent for %s, but no SID returned", row.InvoiceNo)
		}
	}

	log.Println("Overdue reminder processing completed")
}
