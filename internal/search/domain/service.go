package domain

import "context"

// Result types, in the order groups appear in a response.
const (
	TypeInvoice     = "invoice"
	TypeCustomer    = "customer"
	TypeBankAccount = "bank_account"
	TypeService     = "service"
	TypeUser        = "user"
)

// Item is one search hit.
type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

// Group bundles the hits of one entity type.
type Group struct {
	Type  string `json:"type"`
	Items []Item `json:"items"`
}

// Response is the grouped search result. Groups with no hits are omitted.
type Response struct {
	Query  string  `json:"query"`
	Groups []Group `json:"groups"`
}

type Service interface {
	Search(ctx context.Context, query string) (*Response, error)
}
