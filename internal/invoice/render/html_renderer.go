package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

const invoiceHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.Invoice.Number}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 32px;
      font-family: "Helvetica Neue", Arial, sans-serif;
      color: #111827;
      background: #ffffff;
    }
    .invoice {
      max-width: 820px;
      margin: 0 auto;
    }
    .header {
      display: flex;
      justify-content: space-between;
      align-items: flex-start;
      border-bottom: 2px solid #111827;
      padding-bottom: 16px;
      margin-bottom: 24px;
    }
    .meta {
      text-align: right;
      font-size: 14px;
    }
    .label {
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.04em;
      font-size: 11px;
    }
    .section {
      margin-bottom: 24px;
    }
    table {
      width: 100%;
      border-collapse: collapse;
      font-size: 14px;
    }
    th, td {
      padding: 10px;
      border-bottom: 1px solid #e5e7eb;
      text-align: left;
    }
    th {
      text-transform: uppercase;
      font-size: 11px;
      letter-spacing: 0.04em;
      color: #6b7280;
    }
    td.amount, th.amount { text-align: right; }
    .totals {
      margin-top: 12px;
      display: flex;
      justify-content: flex-end;
      font-size: 16px;
    }
    .totals strong {
      margin-left: 12px;
    }
    .footer {
      border-top: 1px solid #e5e7eb;
      padding-top: 16px;
      font-size: 12px;
      color: #6b7280;
    }
  </style>
</head>
<body>
  <div class="invoice">
    <div class="header">
      <div>
        <div class="label">Billed To</div>
        <div><strong>{{.Customer.LegalName}}</strong></div>
        {{if .Customer.DisplayName}}<div>{{.Customer.DisplayName}}</div>{{end}}
        {{if .Customer.Email}}<div>{{.Customer.Email}}</div>{{end}}
        {{if .Customer.Address}}<div>{{.Customer.Address}}</div>{{end}}
        {{if .Customer.TaxID}}<div>Tax ID: {{.Customer.TaxID}}</div>{{end}}
      </div>
      <div class="meta">
        <div class="label">Invoice</div>
        <div><strong>{{.Invoice.Number}}</strong></div>
        <div>Status: {{.Invoice.Status}}</div>
        <div>Issued: {{.Invoice.IssueDate}}</div>
        <div>Due: {{.Invoice.DueDate}}</div>
      </div>
    </div>

    <div class="section">
      <table>
        <thead>
          <tr>
            <th>Service</th>
            <th>Description</th>
            <th class="amount">Amount</th>
          </tr>
        </thead>
        <tbody>
          {{range .Items}}
          <tr>
            <td>{{.Title}}</td>
            <td>{{.Description}}</td>
            <td class="amount">{{formatMoney .Amount $.Invoice.Currency}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>
      <div class="totals">
        <span>Total</span>
        <strong>{{formatMoney .Invoice.Total .Invoice.Currency}}</strong>
      </div>
    </div>

    {{if .Bank}}
    <div class="section">
      <div class="label">Remit To</div>
      <div><strong>{{.Bank.Beneficiary}}</strong></div>
      {{if .Bank.BankName}}<div>{{.Bank.BankName}}</div>{{end}}
      <div>Account: {{.Bank.AccountNumber}}</div>
      <div>SWIFT: {{.Bank.SwiftCode}}</div>
    </div>
    {{end}}

    <div class="footer">
      {{if .Invoice.Notes}}<div>{{.Invoice.Notes}}</div>{{end}}
    </div>
  </div>
</body>
</html>
`

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	funcs := template.FuncMap{
		"formatMoney": formatMoney,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("invoice").Funcs(funcs).Parse(invoiceHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(input RenderInput) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, input); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatMoney(amount decimal.Decimal, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%s %s", currency, amount.StringFixed(2))
}
