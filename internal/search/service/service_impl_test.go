package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/factura/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/factura/internal/invoice/domain"
	"github.com/smallbiznis/factura/internal/migration"
	"github.com/smallbiznis/factura/internal/search/domain"
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

func newTestService(t *testing.T, db *gorm.DB) (*Service, *snowflake.Node) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	svc := NewService(Params{DB: db, Log: zap.NewNop()}).(*Service)
	return svc, node
}

func insertCustomer(t *testing.T, db *gorm.DB, node *snowflake.Node, legalName string) customerdomain.Customer {
	t.Helper()
	row := customerdomain.Customer{
		ID:        node.Generate(),
		LegalName: legalName,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	if err := repository.ProvideStore[customerdomain.Customer](db).Insert(context.Background(), &row); err != nil {
		t.Fatalf("insert customer: %v", err)
	}
	return row
}

func insertInvoice(t *testing.T, db *gorm.DB, node *snowflake.Node, customerID snowflake.ID, number string, seq int64) {
	t.Helper()
	row := invoicedomain.Invoice{
		ID:            node.Generate(),
		InvoiceSeq:    seq,
		InvoiceNumber: number,
		CustomerID:    customerID,
		IssueDate:     testNow,
		DueDate:       testNow.AddDate(0, 0, 30),
		Currency:      "USD",
		Status:        invoicedomain.StatusDraft,
		TotalAmount:   decimal.RequireFromString("100.00"),
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("insert invoice: %v", err)
	}
}

func groupFor(resp *domain.Response, kind string) *domain.Group {
	for i := range resp.Groups {
		if resp.Groups[i].Type == kind {
			return &resp.Groups[i]
		}
	}
	return nil
}

func TestSearchGroupsMatchesByType(t *testing.T) {
	db := setupTestDB(t)
	svc, node := newTestService(t, db)
	acme := insertCustomer(t, db, node, "Acme Corp")
	insertCustomer(t, db, node, "Beta LLC")
	insertInvoice(t, db, node, acme.ID, "INV-000001", 1)

	resp, err := svc.Search(context.Background(), "acme")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	customers := groupFor(resp, domain.TypeCustomer)
	if customers == nil || len(customers.Items) != 1 {
		t.Fatalf("expected one customer match, got %+v", resp.Groups)
	}
	if customers.Items[0].Title != "Acme Corp" {
		t.Fatalf("expected Acme Corp, got %q", customers.Items[0].Title)
	}
	if groupFor(resp, domain.TypeInvoice) != nil {
		t.Fatal("expected no invoice group for a customer-only query")
	}

	resp, err = svc.Search(context.Background(), "INV-0000")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	invoices := groupFor(resp, domain.TypeInvoice)
	if invoices == nil || len(invoices.Items) != 1 {
		t.Fatalf("expected one invoice match, got %+v", resp.Groups)
	}
	if invoices.Items[0].Subtitle != "Acme Corp" {
		t.Fatalf("expected customer subtitle, got %q", invoices.Items[0].Subtitle)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	db := setupTestDB(t)
	svc, node := newTestService(t, db)
	insertCustomer(t, db, node, "Acme Corp")

	resp, err := svc.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(resp.Groups) != 0 {
		t.Fatalf("expected no groups for empty query, got %d", len(resp.Groups))
	}
}

func TestSearchLimitsPerType(t *testing.T) {
	db := setupTestDB(t)
	svc, node := newTestService(t, db)
	for i := 0; i < perTypeLimit+3; i++ {
		insertCustomer(t, db, node, fmt.Sprintf("Widget Shop %02d", i))
	}

	resp, err := svc.Search(context.Background(), "Widget")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	customers := groupFor(resp, domain.TypeCustomer)
	if customers == nil || len(customers.Items) != perTypeLimit {
		t.Fatalf("expected %d matches, got %+v", perTypeLimit, resp.Groups)
	}
}

func TestSearchServesRepeatQueriesFromCache(t *testing.T) {
	db := setupTestDB(t)
	svc, node := newTestService(t, db)
	insertCustomer(t, db, node, "Acme Corp")

	first, err := svc.Search(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	// A new row within the TTL window is not visible to the same query.
	insertCustomer(t, db, node, "Acme Subsidiary")
	second, err := svc.Search(context.Background(), "acme")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	firstGroup := groupFor(first, domain.TypeCustomer)
	secondGroup := groupFor(second, domain.TypeCustomer)
	if secondGroup == nil || len(secondGroup.Items) != len(firstGroup.Items) {
		t.Fatalf("expected cached result, got %+v", second.Groups)
	}

	svc.results.Flush()
	third, err := svc.Search(context.Background(), "acme")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if group := groupFor(third, domain.TypeCustomer); group == nil || len(group.Items) != 2 {
		t.Fatalf("expected fresh result after flush, got %+v", third.Groups)
	}
}
