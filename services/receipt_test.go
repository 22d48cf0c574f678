package services

import (
	"strings"
	"testing"
	"time"

	"lessonledger-backend/models"
)

func baseReceipt() ReceiptData {
	return ReceiptData{
		BusinessName:  "Test Music",
		BusinessEmail: "teach@example.com",
		CustomerName:  "Alice Smith",
		CustomerEmail: "alice@example.com",
		ReceiptNo:     "RCPT-INV-001-20260301",
		InvoiceNo:     "INV-001",
		Programme:     "lessons",
		PaidAt:        time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		PaidMethod:    "Bank Transfer",
		Items: []models.InvoiceItem{
			{Desc: "Piano lesson", Qty: 4, Unit: 30, Amount: 120, Date: "2026-02-10", Time: "16:00"},
		},
		Total: 120,
	}
}

func TestRenderReceiptEscapesMarkup(t *testing.T) {
	d := baseReceipt()
	d.CustomerName = `Evil <script>alert("x")</script>`

	html, text, err := RenderReceipt(d)
	if err != nil {
		t.Fatalf("RenderReceipt returned error: %v", err)
	}

	if strings.Contains(html, "<script>") {
		t.Error("HTML receipt contains a raw <script> tag")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("HTML receipt did not escape the script tag")
	}

	// plain text carries the name verbatim
	if !strings.Contains(text, `Evil <script>alert("x")</script>`) {
		t.Error("text receipt should contain the customer name as-is")
	}
}

func TestRenderReceiptDepositTotals(t *testing.T) {
	d := baseReceipt()
	d.DepositAmount = 10

	html, text, err := RenderReceipt(d)
	if err != nil {
		t.Fatalf("RenderReceipt returned error: %v", err)
	}

	for _, want := range []string{
		"Deposit previously paid",
		"Payment received today",
		"£110.00",
		"Total paid to date",
		"£120.00",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML receipt missing %q", want)
		}
		if !strings.Contains(text, want) {
			t.Errorf("text receipt missing %q", want)
		}
	}
}

func TestRenderReceiptNoDeposit(t *testing.T) {
	html, _, err := RenderReceipt(baseReceipt())
	if err != nil {
		t.Fatalf("RenderReceipt returned error: %v", err)
	}

	if !strings.Contains(html, "Total paid") {
		t.Error("receipt missing the single Total paid line")
	}
	if strings.Contains(html, "Total paid to date") {
		t.Error("deposit-free receipt should not show Total paid to date")
	}
	if strings.Contains(html, "Payment received today") {
		t.Error("deposit-free receipt should not show Payment received today")
	}
}

func TestRenderReceiptBalanceFloorsAtZero(t *testing.T) {
	d := baseReceipt()
	d.Total = 50
	d.DepositAmount = 80

	html, _, err := RenderReceipt(d)
	if err != nil {
		t.Fatalf("RenderReceipt returned error: %v", err)
	}
	if !strings.Contains(html, "£0.00") {
		t.Error("balance should floor at £0.00 when the deposit exceeds the total")
	}
}

func TestRenderReceiptMetadataAndItems(t *testing.T) {
	d := baseReceipt()
	d.PaidRef = "TX-42"
	d.TravelFee = 12.5

	html, text, err := RenderReceipt(d)
	if err != nil {
		t.Fatalf("RenderReceipt returned error: %v", err)
	}

	for _, want := range []string{
		"RCPT-INV-001-20260301",
		"INV-001",
		"1 March 2026",
		"Bank Transfer",
		"TX-42",
		"Piano lesson",
		"£30.00",
		"Travel fee",
		"£12.50",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML receipt missing %q", want)
		}
	}

	if !strings.Contains(text, "Piano lesson (2026-02-10 16:00) x4 @ £30.00 = £120.00") {
		t.Errorf("text receipt item line wrong:\n%s", text)
	}
}
