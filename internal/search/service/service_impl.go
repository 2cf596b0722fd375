package service

import (
	"context"
	"strings"
	"time"

	authdomain "github.com/smallbiznis/factura/internal/auth/domain"
	bankaccountdomain "github.com/smallbiznis/factura/internal/bankaccount/domain"
	"github.com/smallbiznis/factura/internal/cache"
	customerdomain "github.com/smallbiznis/factura/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/factura/internal/invoice/domain"
	"github.com/smallbiznis/factura/internal/search/domain"
	servicecatalogdomain "github.com/smallbiznis/factura/internal/servicecatalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	perTypeLimit = 5
	resultTTL    = 30 * time.Second
)

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	results *cache.TTLCache[string, domain.Response]
}

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

func NewService(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("search.service"),
		results: cache.NewTTLCache[string, domain.Response](),
	}
}

// Search runs one substring query across all entity types. Identical
// queries within the TTL window are answered from cache.
func (s *Service) Search(ctx context.Context, query string) (*domain.Response, error) {
	query = strings.TrimSpace(query)
	resp := domain.Response{Query: query, Groups: []domain.Group{}}
	if query == "" {
		return &resp, nil
	}

	cacheKey := strings.ToLower(query)
	if cached, ok := s.results.Get(cacheKey); ok {
		return &cached, nil
	}

	like := "%" + query + "%"
	for _, lookup := range []struct {
		kind string
		run  func(context.Context, string) ([]domain.Item, error)
	}{
		{domain.TypeInvoice, s.findInvoices},
		{domain.TypeCustomer, s.findCustomers},
		{domain.TypeBankAccount, s.findBankAccounts},
		{domain.TypeService, s.findCatalogServices},
		{domain.TypeUser, s.findUsers},
	} {
		items, err := lookup.run(ctx, like)
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			resp.Groups = append(resp.Groups, domain.Group{Type: lookup.kind, Items: items})
		}
	}

	s.results.Set(cacheKey, resp, resultTTL)
	return &resp, nil
}

func (s *Service) findInvoices(ctx context.Context, like string) ([]domain.Item, error) {
	var rows []invoicedomain.Invoice
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Where("invoice_number LIKE ?", like).
		Order("issue_date DESC").
		Limit(perTypeLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		item := domain.Item{ID: row.ID.String(), Title: row.InvoiceNumber}
		if row.Customer != nil {
			item.Subtitle = row.Customer.LegalName
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) findCustomers(ctx context.Context, like string) ([]domain.Item, error) {
	var rows []customerdomain.Customer
	err := s.db.WithContext(ctx).
		Where("legal_name LIKE ? OR display_name LIKE ? OR email LIKE ?", like, like, like).
		Order("legal_name").
		Limit(perTypeLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		item := domain.Item{ID: row.ID.String(), Title: row.LegalName}
		if row.Email != nil {
			item.Subtitle = *row.Email
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) findBankAccounts(ctx context.Context, like string) ([]domain.Item, error) {
	var rows []bankaccountdomain.BankAccount
	err := s.db.WithContext(ctx).
		Where("label LIKE ? OR beneficiary_full_name LIKE ?", like, like).
		Order("label").
		Limit(perTypeLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.Item{
			ID:       row.ID.String(),
			Title:    row.Label,
			Subtitle: row.BeneficiaryFullName,
		})
	}
	return items, nil
}

func (s *Service) findCatalogServices(ctx context.Context, like string) ([]domain.Item, error) {
	var rows []servicecatalogdomain.CatalogService
	err := s.db.WithContext(ctx).
		Where("service_title LIKE ? OR service_description LIKE ?", like, like).
		Order("service_title").
		Limit(perTypeLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		item := domain.Item{ID: row.ID.String(), Title: row.ServiceTitle}
		if row.ServiceDescription != nil {
			item.Subtitle = *row.ServiceDescription
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) findUsers(ctx context.Context, like string) ([]domain.Item, error) {
	var rows []authdomain.User
	err := s.db.WithContext(ctx).
		Where("email LIKE ? OR display_name LIKE ?", like, like).
		Order("email").
		Limit(perTypeLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.Item{
			ID:       row.ID.String(),
			Title:    row.DisplayName,
			Subtitle: row.Email,
		})
	}
	return items, nil
}
