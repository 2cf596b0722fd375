package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	bankaccountdomain "github.com/smallbiznis/factura/internal/bankaccount/domain"
	"github.com/smallbiznis/factura/internal/transaction/domain"
	categorydomain "github.com/smallbiznis/factura/internal/transactioncategory/domain"
	"github.com/smallbiznis/factura/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// minAmount is the smallest accepted amount, one cent.
var minAmount = decimal.New(1, -2)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[domain.Transaction]
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("transaction.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[domain.Transaction](p.DB),
	}
}

func (s *Service) List(ctx context.Context, filters domain.Filters) ([]domain.Response, error) {
	tx, err := applyFilters(s.db.WithContext(ctx).Model(&domain.Transaction{}), filters)
	if err != nil {
		return nil, err
	}

	var rows []domain.Transaction
	if err := tx.Preload("Category").Preload("BankAccount").
		Order("date DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Response, 0, len(rows))
	for _, row := range rows {
		out = append(out, toResponse(row))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	txnID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}

	var row domain.Transaction
	err = s.db.WithContext(ctx).
		Preload("Category").Preload("BankAccount").
		First(&row, "id = ?", txnID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	resp := toResponse(row)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	txnType, err := domain.ParseType(req.Type)
	if err != nil {
		return nil, err
	}

	txnContext := domain.ContextBusiness
	if strings.TrimSpace(req.Context) != "" {
		if txnContext, err = domain.ParseContext(req.Context); err != nil {
			return nil, err
		}
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, domain.ErrInvalidDescription
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	row := domain.Transaction{
		ID:          s.genID.Generate(),
		Type:        txnType,
		Context:     txnContext,
		Description: description,
		Amount:      req.Amount,
		Currency:    currency,
		Date:        date,
		Notes:       trimmed(req.Notes),
	}
	if row.CategoryID, err = optionalCategoryID(req.CategoryID); err != nil {
		return nil, err
	}
	if row.BankAccountID, err = optionalBankAccountID(req.BankAccountID); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, &row); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, row.ID.String())
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	txnID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.FindOne(ctx, "id = ?", txnID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}

	if req.Type != nil {
		if row.Type, err = domain.ParseType(*req.Type); err != nil {
			return nil, err
		}
	}
	if req.Context != nil {
		if row.Context, err = domain.ParseContext(*req.Context); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, domain.ErrInvalidDescription
		}
		row.Description = description
	}
	if req.Amount != nil {
		if err := validateAmount(*req.Amount); err != nil {
			return nil, err
		}
		row.Amount = *req.Amount
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if currency != "" {
			row.Currency = currency
		}
	}
	if req.Date != nil {
		if row.Date, err = parseDate(*req.Date); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if row.CategoryID, err = optionalCategoryID(*req.CategoryID); err != nil {
			return nil, err
		}
	}
	if req.BankAccountID != nil {
		if row.BankAccountID, err = optionalBankAccountID(*req.BankAccountID); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		row.Notes = trimmed(req.Notes)
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, row.ID.String())
}

func (s *Service) Delete(ctx context.Context, id string) error {
	txnID, err := domain.ParseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, "id = ?", txnID)
}

// GetSummary aggregates income, expenses and the net over the filtered set.
func (s *Service) GetSummary(ctx context.Context, filters domain.Filters) (domain.Summary, error) {
	tx, err := applyFilters(s.db.WithContext(ctx).Model(&domain.Transaction{}), filters)
	if err != nil {
		return domain.Summary{}, err
	}

	var row struct {
		TotalIncome      decimal.Decimal
		TotalExpenses    decimal.Decimal
		TransactionCount int64
	}
	err = tx.Select(
		`COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS total_income,
		 COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS total_expenses,
		 COUNT(1) AS transaction_count`,
	).Scan(&row).Error
	if err != nil {
		return domain.Summary{}, err
	}

	return domain.Summary{
		TotalIncome:      row.TotalIncome,
		TotalExpenses:    row.TotalExpenses,
		NetBalance:       row.TotalIncome.Sub(row.TotalExpenses),
		TransactionCount: row.TransactionCount,
	}, nil
}

// GetBankBalances computes per-account income, expenses and net balance.
// Entries without a bank account reference are excluded.
func (s *Service) GetBankBalances(ctx context.Context, txContext string) ([]domain.BankBalance, error) {
	query := s.db.WithContext(ctx).
		Table("transactions t").
		Joins("JOIN bank_accounts b ON b.id = t.bank_account_id")
	if strings.TrimSpace(txContext) != "" {
		parsed, err := domain.ParseContext(txContext)
		if err != nil {
			return nil, err
		}
		query = query.Where("t.context = ?", parsed)
	}

	var rows []struct {
		BankAccountID    snowflake.ID
		BankAccountLabel string
		TotalIncome      decimal.Decimal
		TotalExpenses    decimal.Decimal
	}
	err := query.Select(
		`t.bank_account_id AS bank_account_id,
		 b.label AS bank_account_label,
		 COALESCE(SUM(CASE WHEN t.type = 'income' THEN t.amount ELSE 0 END), 0) AS total_income,
		 COALESCE(SUM(CASE WHEN t.type = 'expense' THEN t.amount ELSE 0 END), 0) AS total_expenses`,
	).Group("t.bank_account_id, b.label").
		Order("b.label").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.BankBalance, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.BankBalance{
			BankAccountID:    row.BankAccountID.String(),
			BankAccountLabel: row.BankAccountLabel,
			TotalIncome:      row.TotalIncome,
			TotalExpenses:    row.TotalExpenses,
			Balance:          row.TotalIncome.Sub(row.TotalExpenses),
		})
	}
	return out, nil
}

func applyFilters(tx *gorm.DB, filters domain.Filters) (*gorm.DB, error) {
	if strings.TrimSpace(filters.Type) != "" {
		txnType, err := domain.ParseType(filters.Type)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("type = ?", txnType)
	}
	if strings.TrimSpace(filters.Context) != "" {
		txnContext, err := domain.ParseContext(filters.Context)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("context = ?", txnContext)
	}
	if strings.TrimSpace(filters.CategoryID) != "" {
		categoryID, err := categorydomain.ParseID(filters.CategoryID)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("category_id = ?", categoryID)
	}
	if strings.TrimSpace(filters.BankAccountID) != "" {
		accountID, err := bankaccountdomain.ParseID(filters.BankAccountID)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("bank_account_id = ?", accountID)
	}
	if filters.DateFrom != nil {
		tx = tx.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		tx = tx.Where("date <= ?", *filters.DateTo)
	}
	return tx, nil
}

func toResponse(row domain.Transaction) domain.Response {
	resp := domain.Response{
		ID:          row.ID.String(),
		Type:        row.Type,
		Context:     row.Context,
		Description: row.Description,
		Amount:      row.Amount,
		Currency:    row.Currency,
		Date:        row.Date.Format(dateLayout),
		Notes:       row.Notes,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.Category != nil {
		category := categorydomain.ToResponse(*row.Category)
		resp.Category = &category
	}
	if row.BankAccount != nil {
		account := bankaccountdomain.ToResponse(*row.BankAccount)
		resp.BankAccount = &account
	}
	return resp
}

func validateAmount(amount decimal.Decimal) error {
	if amount.Cmp(minAmount) < 0 {
		return domain.ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return domain.ErrInvalidAmount
	}
	return nil
}

func parseDate(raw string) (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return date, nil
}

func optionalCategoryID(raw string) (*snowflake.ID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := categorydomain.ParseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalBankAccountID(raw string) (*snowflake.ID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := bankaccountdomain.ParseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
