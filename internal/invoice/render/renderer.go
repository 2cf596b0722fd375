package render

import "github.com/shopspring/decimal"

// RenderInput is the deterministic input used for invoice document rendering.
type RenderInput struct {
	Invoice  InvoiceView
	Customer CustomerView
	Bank     *BankView
	Items    []LineItemView
}

type InvoiceView struct {
	Number    string
	Status    string
	IssueDate string
	DueDate   string
	Currency  string
	Total     decimal.Decimal
	Notes     string
}

type CustomerView struct {
	LegalName   string
	DisplayName string
	Email       string
	Address     string
	TaxID       string
}

// BankView carries the remit-to details printed at the bottom of the
// document. Nil when the invoice has no bank account attached.
type BankView struct {
	Label         string
	Beneficiary   string
	AccountNumber string
	SwiftCode     string
	BankName      string
}

type LineItemView struct {
	Title       string
	Description string
	Amount      decimal.Decimal
}

type Renderer interface {
	RenderHTML(input RenderInput) (string, error)
}
