// services/receipt.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	texttemplate "text/template"

	"lessonledger-backend/models"
)

// ReceiptData is the snapshot a receipt is rendered from. Rendering is pure:
// no store or clock access happens here.
type ReceiptData struct {
	BusinessName  string
	BusinessEmail string

	CustomerName    string
	CustomerEmail   string
	CustomerAddress string

	ReceiptNo  string
	InvoiceNo  string
	Programme  string
	PaidAt     time.Time
	PaidMethod string
	PaidRef    string

	Items         []models.InvoiceItem
	TravelFee     float64
	Total         float64
	DepositAmount float64
}

type receiptView struct {
	ReceiptData
	PaidDate     string
	BalanceToday float64
	HasDeposit   bool
}

func money(v interface{}) string {
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("£%.2f", n)
	case models.FlexFloat:
		return fmt.Sprintf("£%.2f", float64(n))
	default:
		return "£0.00"
	}
}

var funcs = map[string]interface{}{"money": money}

var receiptHTML = template.Must(template.New("receipt").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, Helvetica, sans-serif; color: #222; max-width: 600px; margin: 0 auto;">
  <div style="border-bottom: 2px solid #2a5d84; padding-bottom: 12px; margin-bottom: 16px;">
    <h1 style="margin: 0; color: #2a5d84;">Receipt</h1>
    <p style="margin: 4px 0 0;">{{.BusinessName}}{{if .BusinessEmail}} &middot; {{.BusinessEmail}}{{end}}</p>
  </div>

  <div style="margin-bottom: 16px;">
    <strong>{{.CustomerName}}</strong><br>
    {{- if .CustomerAddress}}
    {{.CustomerAddress}}<br>
    {{- end}}
  </div>

  <table style="width: 100%; margin-bottom: 16px; background: #f4f7fa; border-radius: 6px;" cellpadding="6">
    <tr><td>Receipt no</td><td style="text-align: right;"><strong>{{.ReceiptNo}}</strong></td></tr>
    <tr><td>Invoice no</td><td style="text-align: right;">{{.InvoiceNo}}</td></tr>
    <tr><td>Date paid</td><td style="text-align: right;">{{.PaidDate}}</td></tr>
    <tr><td>Payment method</td><td style="text-align: right;">{{.PaidMethod}}</td></tr>
    {{- if .PaidRef}}
    <tr><td>Payment reference</td><td style="text-align: right;">{{.PaidRef}}</td></tr>
    {{- end}}
  </table>

  <table style="width: 100%; border-collapse: collapse;" cellpadding="6">
    <tr style="border-bottom: 1px solid #ccc; text-align: left;">
      <th>Description</th><th>Qty</th><th>Unit price</th><th>Amount</th>
    </tr>
    {{- range .Items}}
    <tr style="border-bottom: 1px solid #eee;">
      <td>{{.Desc}}{{if or .Date .Time}}<br><small>{{.Date}}{{if and .Date .Time}} {{end}}{{.Time}}</small>{{end}}</td>
      <td>{{.Qty}}</td>
      <td>{{money .Unit}}</td>
      <td>{{money .Amount}}</td>
    </tr>
    {{- end}}
    {{- if gt .TravelFee 0.0}}
    <tr style="border-bottom: 1px solid #eee;">
      <td colspan="3">Travel fee</td>
      <td>{{money .TravelFee}}</td>
    </tr>
    {{- end}}
  </table>

  <table style="width: 100%; margin-top: 16px;" cellpadding="6">
    {{- if .HasDeposit}}
    <tr><td>Deposit previously paid</td><td style="text-align: right;">{{money .DepositAmount}}</td></tr>
    <tr><td>Payment received today</td><td style="text-align: right;">{{money .BalanceToday}}</td></tr>
    <tr><td><strong>Total paid to date</strong></td><td style="text-align: right;"><strong>{{money .Total}}</strong></td></tr>
    {{- else}}
    <tr><td><strong>Total paid</strong></td><td style="text-align: right;"><strong>{{money .Total}}</strong></td></tr>
    {{- end}}
  </table>

  <p style="margin-top: 24px; color: #777; font-size: 12px;">Thank you for your payment.</p>
</body>
</html>
`))

var receiptText = texttemplate.Must(texttemplate.New("receipt").Funcs(funcs).Parse(`RECEIPT
{{.BusinessName}}{{if .BusinessEmail}} ({{.BusinessEmail}}){{end}}

To: {{.CustomerName}}
{{- if .CustomerAddress}}
{{.CustomerAddress}}
{{- end}}

Receipt no:        {{.ReceiptNo}}
Invoice no:        {{.InvoiceNo}}
Date paid:         {{.PaidDate}}
Payment method:    {{.PaidMethod}}
{{- if .PaidRef}}
Payment reference: {{.PaidRef}}
{{- end}}

Items:
{{- range .Items}}
  {{.Desc}}{{if or .Date .Time}} ({{.Date}}{{if and .Date .Time}} {{end}}{{.Time}}){{end}} x{{.Qty}} @ {{money .Unit}} = {{money .Amount}}
{{- end}}
{{- if gt .TravelFee 0.0}}
  Travel fee = {{money .TravelFee}}
{{- end}}

{{- if .HasDeposit}}
Deposit previously paid: {{money .DepositAmount}}
Payment received today:  {{money .BalanceToday}}
Total paid to date:      {{money .Total}}
{{- else}}
Total paid: {{money .Total}}
{{- end}}

Thank you for your payment.
`))

// RenderReceipt produces the HTML and plain-text bodies for a receipt email.
func RenderReceipt(d ReceiptData) (string, string, error) {
	balance := d.Total - d.DepositAmount
	if balance < 0 {
		balance = 0
	}

	view := receiptView{
		ReceiptData:  d,
		PaidDate:     d.PaidAt.Format("2 January 2006"),
		BalanceToday: balance,
		HasDeposit:   d.DepositAmount > 0,
	}

	var htmlBuf bytes.Buffer
	if err := receiptHTML.Execute(&htmlBuf, view); err != nil {
		return "", "", err
	}

	var textBuf bytes.Buffer
	if err := receiptText.Execute(&textBuf, view); err != nil {
		return "", "", err
	}

	return htmlBuf.String(), textBuf.String(), nil
}
