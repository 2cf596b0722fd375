package events

// Invoice lifecycle event types stored in the outbox.
const (
	EventInvoiceCreated   = "invoice_created"
	EventInvoiceUpdated   = "invoice_updated"
	EventInvoiceDeleted   = "invoice_deleted"
	EventInvoiceGenerated = "invoice_generated"
)

// InvoicePayload carries the minimal data a consumer needs to follow up on
// an invoice event.
type InvoicePayload struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	CustomerID    string `json:"customer_id,omitempty"`
	GeneratedFrom string `json:"generated_from,omitempty"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p InvoicePayload) ToMap() map[string]any {
	payload := map[string]any{
		"invoice_id": p.InvoiceID,
	}
	if p.InvoiceNumber != "" {
		payload["invoice_number"] = p.InvoiceNumber
	}
	if p.CustomerID != "" {
		payload["customer_id"] = p.CustomerID
	}
	if p.GeneratedFrom != "" {
		payload["generated_from"] = p.GeneratedFrom
	}
	return payload
}
