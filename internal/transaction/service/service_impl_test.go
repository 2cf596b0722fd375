package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	bankaccountdomain "github.com/smallbiznis/factura/internal/bankaccount/domain"
	"github.com/smallbiznis/factura/internal/migration"
	"github.com/smallbiznis/factura/internal/transaction/domain"
	categorydomain "github.com/smallbiznis/factura/internal/transactioncategory/domain"
	"github.com/smallbiznis/factura/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	if err := migration.RunMigrations(sqlDB); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) (domain.Service, *snowflake.Node) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return NewService(Params{DB: db, Log: zap.NewNop(), GenID: node}), node
}

func insertBankAccount(t *testing.T, db *gorm.DB, node *snowflake.Node, label string) bankaccountdomain.BankAccount {
	t.Helper()
	row := bankaccountdomain.BankAccount{
		ID:                       node.Generate(),
		Label:                    label,
		BeneficiaryFullName:      "Acme LLC",
		BeneficiaryAccountNumber: "0012345678",
		SwiftCode:                "BOFAUS3N",
		CreatedAt:                testNow,
		UpdatedAt:                testNow,
	}
	if err := repository.ProvideStore[bankaccountdomain.BankAccount](db).Insert(context.Background(), &row); err != nil {
		t.Fatalf("insert bank account: %v", err)
	}
	return row
}

func insertCategory(t *testing.T, db *gorm.DB, node *snowflake.Node, name string) categorydomain.TransactionCategory {
	t.Helper()
	row := categorydomain.TransactionCategory{
		ID:        node.Generate(),
		Name:      name,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	if err := repository.ProvideStore[categorydomain.TransactionCategory](db).Insert(context.Background(), &row); err != nil {
		t.Fatalf("insert category: %v", err)
	}
	return row
}

func createEntry(t *testing.T, svc domain.Service, req domain.CreateRequest) *domain.Response {
	t.Helper()
	resp, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return resp
}

func TestCreateTransactionValidation(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := context.Background()

	base := domain.CreateRequest{
		Type:        "income",
		Description: "Invoice payment",
		Amount:      decimal.RequireFromString("100.00"),
		Date:        "2026-03-01",
	}

	bad := base
	bad.Type = "transfer"
	if _, err := svc.Create(ctx, bad); !errors.Is(err, domain.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}

	bad = base
	bad.Description = "  "
	if _, err := svc.Create(ctx, bad); !errors.Is(err, domain.ErrInvalidDescription) {
		t.Fatalf("expected ErrInvalidDescription, got %v", err)
	}

	bad = base
	bad.Amount = decimal.RequireFromString("0.001")
	if _, err := svc.Create(ctx, bad); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	bad = base
	bad.Date = "01/03/2026"
	if _, err := svc.Create(ctx, bad); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	resp := createEntry(t, svc, base)
	if resp.Context != domain.ContextBusiness {
		t.Fatalf("expected business default, got %s", resp.Context)
	}
	if resp.Currency != "USD" {
		t.Fatalf("expected USD default, got %s", resp.Currency)
	}
}

func TestSummaryAggregates(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)

	createEntry(t, svc, domain.CreateRequest{
		Type: "income", Description: "Invoice paid",
		Amount: decimal.RequireFromString("1500.00"), Date: "2026-03-01",
	})
	createEntry(t, svc, domain.CreateRequest{
		Type: "income", Description: "Retainer",
		Amount: decimal.RequireFromString("250.50"), Date: "2026-03-02",
	})
	createEntry(t, svc, domain.CreateRequest{
		Type: "expense", Description: "Hosting bill",
		Amount: decimal.RequireFromString("99.99"), Date: "2026-03-03",
	})

	summary, err := svc.GetSummary(context.Background(), domain.Filters{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !summary.TotalIncome.Equal(decimal.RequireFromString("1750.50")) {
		t.Fatalf("expected income 1750.50, got %s", summary.TotalIncome)
	}
	if !summary.TotalExpenses.Equal(decimal.RequireFromString("99.99")) {
		t.Fatalf("expected expenses 99.99, got %s", summary.TotalExpenses)
	}
	if !summary.NetBalance.Equal(decimal.RequireFromString("1650.51")) {
		t.Fatalf("expected net 1650.51, got %s", summary.NetBalance)
	}
	if summary.TransactionCount != 3 {
		t.Fatalf("expected 3 entries, got %d", summary.TransactionCount)
	}
}

func TestSummaryHonorsFilters(t *testing.T) {
	db := setupTestDB(t)
	svc, node := newTestService(t, db)
	category := insertCategory(t, db, node, "Software")

	createEntry(t, svc, domain.CreateRequest{
		Type: "expense", Context: "business", Description: "IDE license",
		Amount: decimal.RequireFromString("199.00"), Date: "2026-03-01",
		CategoryID: category.ID.String(),
	})
	createEntry(t, svc, domain.CreateRequest{
		Type: "expense", Context: "personal", Description: "Groceries",
		Amount: decimal.RequireFromString("82.45"), Date: "2026-03-02",
	})

	summary, err := svc.GetSummary(context.Background(), domain.Filters{Context: "business"})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !summary.TotalExpenses.Equal(decimal.RequireFromString("199.00")) {
		t.Fatalf("expected business expenses 199.00, got %s", summary.TotalExpenses)
	}
	if summary.TransactionCount != 1 {
		t.Fatalf("expected 1 entry, got %d", summary.TransactionCount)
	}

	byCategory, err := svc.GetSummary(context.Background(), domain.Filters{CategoryID: category.ID.String()})
	if err != nil {
		t.Fatalf("summary by category: %v", err)
	}
	if byCategory.TransactionCount != 1 {
		t.Fatalf("expected 1 categorized entry, got %d", byCategory.TransactionCount)
	}
}

func TestBankBalances(t *testing.T) {
	db := setupTestDB(t)
	svc, node := newTestService(t, db)
	operating := insertBankAccount(t, db, node, "Operating")
	savings := insertBankAccount(t, db, node, "Savings")

	createEntry(t, svc, domain.CreateRequest{
		Type: "income", Description: "Invoice paid",
		Amount: decimal.RequireFromString("1000.00"), Date: "2026-03-01",
		BankAccountID: operating.ID.String(),
	})
	createEntry(t, svc, domain.CreateRequest{
		Type: "expense", Description: "Rent",
		Amount: decimal.RequireFromString("400.00"), Date: "2026-03-02",
		BankAccountID: operating.ID.String(),
	})
	createEntry(t, svc, domain.CreateRequest{
		Type: "income", Description: "Interest",
		Amount: decimal.RequireFromString("12.34"), Date: "2026-03-03",
		BankAccountID: savings.ID.String(),
	})
	// no account reference: excluded from balances
	createEntry(t, svc, domain.CreateRequest{
		Type: "income", Description: "Cash",
		Amount: decimal.RequireFromString("50.00"), Date: "2026-03-04",
	})

	balances, err := svc.GetBankBalances(context.Background(), "")
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(balances))
	}

	if balances[0].BankAccountLabel != "Operating" {
		t.Fatalf("expected Operating first, got %s", balances[0].BankAccountLabel)
	}
	if !balances[0].Balance.Equal(decimal.RequireFromString("600.00")) {
		t.Fatalf("expected Operating balance 600.00, got %s", balances[0].Balance)
	}
	if !balances[1].Balance.Equal(decimal.RequireFromString("12.34")) {
		t.Fatalf("expected Savings balance 12.34, got %s", balances[1].Balance)
	}
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := context.Background()

	created := createEntry(t, svc, domain.CreateRequest{
		Type: "expense", Description: "Hosting",
		Amount: decimal.RequireFromString("10.00"), Date: "2026-03-01",
	})

	newAmount := decimal.RequireFromString("12.50")
	updated, err := svc.Update(ctx, created.ID, domain.UpdateRequest{Amount: &newAmount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Amount.Equal(newAmount) {
		t.Fatalf("expected 12.50, got %s", updated.Amount)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
