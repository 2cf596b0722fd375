package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/bwmarrin/snowflake"
	bankaccountdomain "github.com/smallbiznis/factura/internal/bankaccount/domain"
	"github.com/smallbiznis/factura/internal/clock"
	customerdomain "github.com/smallbiznis/factura/internal/customer/domain"
	"github.com/smallbiznis/factura/internal/events"
	"github.com/smallbiznis/factura/internal/invoice/domain"
	"github.com/smallbiznis/factura/internal/invoice/render"
	"github.com/smallbiznis/factura/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	renderer render.Renderer
	outbox   *events.Outbox

	customers    repository.Repository[customerdomain.Customer]
	bankAccounts repository.Repository[bankaccountdomain.BankAccount]
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Renderer render.Renderer
	Outbox   *events.Outbox
}

func NewService(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("invoice.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		renderer:     p.Renderer,
		outbox:       p.Outbox,
		customers:    repository.ProvideStore[customerdomain.Customer](p.DB),
		bankAccounts: repository.ProvideStore[bankaccountdomain.BankAccount](p.DB),
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.ListItem, error) {
	tx := s.db.WithContext(ctx).Model(&domain.Invoice{}).
		Preload("Customer").
		Order("issue_date DESC, id DESC")

	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("status = ?", status)
	}
	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		customerID, err := customerdomain.ParseID(raw)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("customer_id = ?", customerID)
	}
	if req.IssueDateFrom != nil {
		tx = tx.Where("issue_date >= ?", req.IssueDateFrom.UTC())
	}
	if req.IssueDateTo != nil {
		tx = tx.Where("issue_date <= ?", req.IssueDateTo.UTC())
	}

	var rows []domain.Invoice
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.ListItem, 0, len(rows))
	for _, row := range rows {
		item := domain.ListItem{
			ID:                  row.ID.String(),
			InvoiceNumber:       row.InvoiceNumber,
			IssueDate:           row.IssueDate.Format(domain.DateLayout),
			DueDate:             row.DueDate.Format(domain.DateLayout),
			Status:              row.Status,
			TotalAmount:         row.TotalAmount,
			Currency:            row.Currency,
			IsRecurrent:         row.IsRecurrent,
			RecurrenceFrequency: row.RecurrenceFrequency,
		}
		if row.Customer != nil {
			resp := customerdomain.ToResponse(*row.Customer)
			item.Customer = &resp
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	invoiceID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.loadResponse(ctx, invoiceID)
}

func (s *Service) Create(ctx context.Context, payload domain.CreatePayload) (*domain.Response, error) {
	draft, err := draftFromPayload(payload, s.clock.Now())
	if err != nil {
		return nil, err
	}
	normalized, err := draft.BuildPayload()
	if err != nil {
		return nil, err
	}

	customerID, bankAccountID, err := s.resolveRefs(ctx, normalized)
	if err != nil {
		return nil, err
	}

	invoiceID := s.genID.Generate()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextInvoiceSeq(tx)
		if err != nil {
			return err
		}

		row := s.buildInvoice(invoiceID, seq, customerID, bankAccountID, draft, normalized)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventInvoiceCreated,
			Payload: events.InvoicePayload{
				InvoiceID:     invoiceID.String(),
				InvoiceNumber: row.InvoiceNumber,
				CustomerID:    customerID.String(),
			}.ToMap(),
			DedupeKey: fmt.Sprintf("%s:%s", events.EventInvoiceCreated, invoiceID),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice created",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("customer_id", customerID.String()),
	)
	return s.loadResponse(ctx, invoiceID)
}

func (s *Service) Update(ctx context.Context, id string, payload domain.CreatePayload) (*domain.Response, error) {
	invoiceID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}

	var existing domain.Invoice
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", invoiceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}

	draft, err := draftFromPayload(payload, s.clock.Now())
	if err != nil {
		return nil, err
	}
	normalized, err := draft.BuildPayload()
	if err != nil {
		return nil, err
	}

	customerID, bankAccountID, err := s.resolveRefs(ctx, normalized)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceID).Delete(&domain.InvoiceService{}).Error; err != nil {
			return err
		}

		row := s.buildInvoice(invoiceID, existing.InvoiceSeq, customerID, bankAccountID, draft, normalized)
		updates := map[string]any{
			"customer_id":          row.CustomerID,
			"bank_account_id":      row.BankAccountID,
			"issue_date":           row.IssueDate,
			"due_date":             row.DueDate,
			"currency":             row.Currency,
			"status":               row.Status,
			"total_amount":         row.TotalAmount,
			"notes":                row.Notes,
			"is_recurrent":         row.IsRecurrent,
			"recurrence_frequency": row.RecurrenceFrequency,
			"recurrence_day":       row.RecurrenceDay,
			"updated_at":           s.clock.Now(),
		}
		if err := tx.Model(&domain.Invoice{}).Where("id = ?", invoiceID).Updates(updates).Error; err != nil {
			return err
		}
		if len(row.Services) > 0 {
			if err := tx.Create(&row.Services).Error; err != nil {
				return err
			}
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventInvoiceUpdated,
			Payload: events.InvoicePayload{
				InvoiceID:     invoiceID.String(),
				InvoiceNumber: existing.InvoiceNumber,
				CustomerID:    customerID.String(),
			}.ToMap(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice updated", zap.String("invoice_id", invoiceID.String()))
	return s.loadResponse(ctx, invoiceID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	invoiceID, err := domain.ParseID(id)
	if err != nil {
		return err
	}

	var existing domain.Invoice
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", invoiceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.ErrInvoiceNotFound
		}
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceID).Delete(&domain.InvoiceService{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Invoice{}, "id = ?", invoiceID).Error; err != nil {
			return err
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventInvoiceDeleted,
			Payload: events.InvoicePayload{
				InvoiceID:     invoiceID.String(),
				InvoiceNumber: existing.InvoiceNumber,
			}.ToMap(),
		})
	})
	if err != nil {
		return err
	}

	s.log.Info("invoice deleted", zap.String("invoice_id", invoiceID.String()))
	return nil
}

func (s *Service) RenderDocument(ctx context.Context, id string) (string, error) {
	invoiceID, err := domain.ParseID(id)
	if err != nil {
		return "", err
	}
	row, err := s.loadInvoice(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	return s.renderer.RenderHTML(renderInput(*row))
}

func (s *Service) loadInvoice(ctx context.Context, id snowflake.ID) (*domain.Invoice, error) {
	var row domain.Invoice
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("BankAccount").
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&row, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (s *Service) loadResponse(ctx context.Context, id snowflake.ID) (*domain.Response, error) {
	row, err := s.loadInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(*row)
	return &resp, nil
}

// resolveRefs verifies the referenced customer and bank account exist and
// returns their parsed identifiers.
func (s *Service) resolveRefs(ctx context.Context, payload domain.CreatePayload) (snowflake.ID, *snowflake.ID, error) {
	customerID, err := snowflake.ParseString(payload.CustomerID)
	if err != nil {
		return 0, nil, domain.ErrCustomerNotFound
	}
	customer, err := s.customers.FindOne(ctx, "id = ?", customerID)
	if err != nil {
		return 0, nil, err
	}
	if customer == nil {
		return 0, nil, domain.ErrCustomerNotFound
	}

	var bankAccountID *snowflake.ID
	if payload.BankAccountID != "" {
		id, err := snowflake.ParseString(payload.BankAccountID)
		if err != nil {
			return 0, nil, domain.ErrBankAccountNotFound
		}
		account, err := s.bankAccounts.FindOne(ctx, "id = ?", id)
		if err != nil {
			return 0, nil, err
		}
		if account == nil {
			return 0, nil, domain.ErrBankAccountNotFound
		}
		bankAccountID = &id
	}
	return customerID, bankAccountID, nil
}

// buildInvoice assembles the persistence model from a validated draft and
// its normalized payload. The stored total always comes from the draft.
func (s *Service) buildInvoice(
	id snowflake.ID,
	seq int64,
	customerID snowflake.ID,
	bankAccountID *snowflake.ID,
	draft *domain.Draft,
	payload domain.CreatePayload,
) domain.Invoice {
	now := s.clock.Now()
	row := domain.Invoice{
		ID:            id,
		InvoiceSeq:    seq,
		InvoiceNumber: formatInvoiceNumber(seq),
		CustomerID:    customerID,
		BankAccountID: bankAccountID,
		IssueDate:     draft.IssueDate,
		DueDate:       draft.DueDate,
		Currency:      draft.Currency,
		Status:        draft.Status,
		TotalAmount:   draft.Total(),
		IsRecurrent:   draft.IsRecurrent,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if notes := strings.TrimSpace(draft.Notes); notes != "" {
		row.Notes = &notes
	}
	if draft.IsRecurrent {
		freq := draft.Frequency
		row.RecurrenceFrequency = &freq
		if draft.RecurrenceDay != nil {
			day := *draft.RecurrenceDay
			row.RecurrenceDay = &day
		}
	}
	for _, svc := range payload.Services {
		line := domain.InvoiceService{
			ID:           s.genID.Generate(),
			InvoiceID:    id,
			ServiceTitle: svc.ServiceTitle,
			Amount:       svc.Amount,
			SortOrder:    svc.SortOrder,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if svc.ServiceDescription != "" {
			desc := svc.ServiceDescription
			line.ServiceDescription = &desc
		}
		row.Services = append(row.Services, line)
	}
	return row
}

// draftFromPayload runs the wire payload through the draft composer so every
// write path shares the same validation and normalization.
func draftFromPayload(payload domain.CreatePayload, today time.Time) (*domain.Draft, error) {
	draft := domain.NewDraft(today)
	draft.CustomerID = strings.TrimSpace(payload.CustomerID)
	draft.BankAccountID = strings.TrimSpace(payload.BankAccountID)
	draft.Notes = strings.TrimSpace(payload.Notes)

	if raw := strings.TrimSpace(payload.IssueDate); raw != "" {
		issue, err := time.ParseInLocation(domain.DateLayout, raw, time.UTC)
		if err != nil {
			return nil, domain.ErrInvalidIssueDate
		}
		draft.IssueDate = issue
		draft.DueDate = issue.AddDate(0, 0, 30)
	}
	if raw := strings.TrimSpace(payload.DueDate); raw != "" {
		due, err := time.ParseInLocation(domain.DateLayout, raw, time.UTC)
		if err != nil {
			return nil, domain.ErrInvalidDueDate
		}
		draft.DueDate = due
	}

	if raw := strings.TrimSpace(payload.Status); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		draft.Status = status
	}
	if raw := strings.TrimSpace(payload.Currency); raw != "" {
		currency := strings.ToUpper(raw)
		if !validCurrency(currency) {
			return nil, domain.ErrInvalidCurrency
		}
		draft.Currency = currency
	}

	lines := make([]domain.ServicePayload, len(payload.Services))
	copy(lines, payload.Services)
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].SortOrder < lines[j].SortOrder
	})
	for _, line := range lines {
		if _, err := draft.AddService(domain.LineInput{
			Title:       line.ServiceTitle,
			Description: line.ServiceDescription,
			Amount:      line.Amount,
		}); err != nil {
			return nil, err
		}
	}

	if payload.IsRecurrent {
		if payload.RecurrenceFrequency == nil {
			return nil, domain.ErrMissingRecurrenceFrequency
		}
		frequency, err := domain.ParseFrequency(*payload.RecurrenceFrequency)
		if err != nil {
			return nil, err
		}
		if err := draft.SetRecurrence(true, frequency, payload.RecurrenceDay); err != nil {
			return nil, err
		}
	}
	return draft, nil
}

func nextInvoiceSeq(tx *gorm.DB) (int64, error) {
	var seq int64
	err := tx.Raw(`SELECT COALESCE(MAX(invoice_seq), 0) + 1 FROM invoices`).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}

func formatInvoiceNumber(seq int64) string {
	return fmt.Sprintf("INV-%06d", seq)
}

func validCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func toResponse(row domain.Invoice) domain.Response {
	resp := domain.Response{
		ID:                  row.ID.String(),
		InvoiceNumber:       row.InvoiceNumber,
		IssueDate:           row.IssueDate.Format(domain.DateLayout),
		DueDate:             row.DueDate.Format(domain.DateLayout),
		Currency:            row.Currency,
		Status:              row.Status,
		TotalAmount:         row.TotalAmount,
		Notes:               row.Notes,
		IsRecurrent:         row.IsRecurrent,
		RecurrenceFrequency: row.RecurrenceFrequency,
		RecurrenceDay:       row.RecurrenceDay,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
	if row.Customer != nil {
		customer := customerdomain.ToResponse(*row.Customer)
		resp.Customer = &customer
	}
	if row.BankAccount != nil {
		account := bankaccountdomain.ToResponse(*row.BankAccount)
		resp.BankAccount = &account
	}
	resp.Services = make([]domain.ServiceResponse, 0, len(row.Services))
	for _, svc := range row.Services {
		resp.Services = append(resp.Services, domain.ServiceResponse{
			ID:                 svc.ID.String(),
			ServiceTitle:       svc.ServiceTitle,
			ServiceDescription: svc.ServiceDescription,
			Amount:             svc.Amount,
			SortOrder:          svc.SortOrder,
			CreatedAt:          svc.CreatedAt,
			UpdatedAt:          svc.UpdatedAt,
		})
	}
	return resp
}

func renderInput(row domain.Invoice) render.RenderInput {
	input := render.RenderInput{
		Invoice: render.InvoiceView{
			Number:    row.InvoiceNumber,
			Status:    string(row.Status),
			IssueDate: row.IssueDate.Format(domain.DateLayout),
			DueDate:   row.DueDate.Format(domain.DateLayout),
			Currency:  row.Currency,
			Total:     row.TotalAmount,
		},
	}
	if row.Notes != nil {
		input.Invoice.Notes = *row.Notes
	}
	if row.Customer != nil {
		c := row.Customer
		view := render.CustomerView{LegalName: c.LegalName}
		if c.DisplayName != nil {
			view.DisplayName = *c.DisplayName
		}
		if c.Email != nil {
			view.Email = *c.Email
		}
		if c.TaxID != nil {
			view.TaxID = *c.TaxID
		}
		view.Address = joinAddress(c)
		input.Customer = view
	}
	if row.BankAccount != nil {
		b := row.BankAccount
		view := render.BankView{
			Label:         b.Label,
			Beneficiary:   b.BeneficiaryFullName,
			AccountNumber: b.BeneficiaryAccountNumber,
			SwiftCode:     b.SwiftCode,
		}
		if b.BankName != nil {
			view.BankName = *b.BankName
		}
		input.Bank = &view
	}
	for _, svc := range row.Services {
		item := render.LineItemView{
			Title:  svc.ServiceTitle,
			Amount: svc.Amount,
		}
		if svc.ServiceDescription != nil {
			item.Description = *svc.ServiceDescription
		}
		input.Items = append(input.Items, item)
	}
	return input
}

func joinAddress(c *customerdomain.Customer) string {
	parts := make([]string, 0, 6)
	for _, field := range []*string{c.AddressLine1, c.AddressLine2, c.City, c.State, c.Zip, c.Country} {
		if field == nil {
			continue
		}
		if value := strings.TrimSpace(*field); value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, ", ")
}
