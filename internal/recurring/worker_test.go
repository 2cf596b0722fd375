package recurring

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/factura/internal/clock"
	customerdomain "github.com/smallbiznis/factura/internal/customer/domain"
	"github.com/smallbiznis/factura/internal/events"
	invoicedomain "github.com/smallbiznis/factura/internal/invoice/domain"
	"github.com/smallbiznis/factura/internal/migration"
	"github.com/smallbiznis/factura/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 2026-03-10 is a Tuesday.
var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

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

// testNodeID hands each worker a distinct snowflake node ID; two nodes
// sharing an ID can generate colliding IDs within the same millisecond.
var testNodeID int64

func newTestWorker(t *testing.T, db *gorm.DB, now time.Time) (*Worker, *snowflake.Node) {
	t.Helper()
	node, err := snowflake.NewNode(atomic.AddInt64(&testNodeID, 1) % 1024)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	worker := NewWorker(Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  clock.Fixed(now),
		Outbox: events.NewOutbox(db, node),
	})
	return worker, node
}

func insertCustomer(t *testing.T, db *gorm.DB, node *snowflake.Node) customerdomain.Customer {
	t.Helper()
	row := customerdomain.Customer{
		ID:        node.Generate(),
		LegalName: "Acme Corp",
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	if err := repository.ProvideStore[customerdomain.Customer](db).Insert(context.Background(), &row); err != nil {
		t.Fatalf("insert customer: %v", err)
	}
	return row
}

func insertRecurringInvoice(t *testing.T, db *gorm.DB, node *snowflake.Node, customerID snowflake.ID, freq invoicedomain.Frequency, day *int) invoicedomain.Invoice {
	t.Helper()
	issue := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	row := invoicedomain.Invoice{
		ID:                  node.Generate(),
		InvoiceSeq:          1,
		InvoiceNumber:       "INV-000001",
		CustomerID:          customerID,
		IssueDate:           issue,
		DueDate:             issue.AddDate(0, 0, 14),
		Currency:            "USD",
		Status:              invoicedomain.StatusSent,
		TotalAmount:         decimal.RequireFromString("499.99"),
		IsRecurrent:         true,
		RecurrenceFrequency: &freq,
		RecurrenceDay:       day,
		CreatedAt:           testNow,
		UpdatedAt:           testNow,
		Services: []invoicedomain.InvoiceService{
			{
				ID:           node.Generate(),
				ServiceTitle: "Retainer",
				Amount:       decimal.RequireFromString("349.99"),
				SortOrder:    0,
				CreatedAt:    testNow,
				UpdatedAt:    testNow,
			},
			{
				ID:           node.Generate(),
				ServiceTitle: "Hosting",
				Amount:       decimal.RequireFromString("150.00"),
				SortOrder:    1,
				CreatedAt:    testNow,
				UpdatedAt:    testNow,
			},
		},
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("insert invoice: %v", err)
	}
	return row
}

func TestRunOnceGeneratesDueInvoice(t *testing.T) {
	db := setupTestDB(t)
	worker, node := newTestWorker(t, db, testNow)
	customer := insertCustomer(t, db, node)

	day := 1 // Tuesday, Monday-indexed
	source := insertRecurringInvoice(t, db, node, customer.ID, invoicedomain.FrequencyWeekly, &day)

	generated, err := worker.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if generated != 1 {
		t.Fatalf("expected 1 generated invoice, got %d", generated)
	}

	var clone invoicedomain.Invoice
	if err := db.Preload("Services").Where("generated_from = ?", source.ID).First(&clone).Error; err != nil {
		t.Fatalf("load generated invoice: %v", err)
	}
	if clone.InvoiceNumber != "INV-000002" {
		t.Fatalf("expected fresh number INV-000002, got %s", clone.InvoiceNumber)
	}
	if clone.Status != invoicedomain.StatusDraft {
		t.Fatalf("expected draft clone, got %s", clone.Status)
	}
	if clone.IsRecurrent {
		t.Fatal("expected clone not to recur itself")
	}
	wantIssue := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	if !clone.IssueDate.Equal(wantIssue) {
		t.Fatalf("expected issue date %s, got %s", wantIssue, clone.IssueDate)
	}
	// The source ran 14 days from issue to due.
	if !clone.DueDate.Equal(wantIssue.AddDate(0, 0, 14)) {
		t.Fatalf("expected preserved span, got due %s", clone.DueDate)
	}
	if !clone.TotalAmount.Equal(decimal.RequireFromString("499.99")) {
		t.Fatalf("expected total 499.99, got %s", clone.TotalAmount)
	}
	if len(clone.Services) != 2 {
		t.Fatalf("expected 2 cloned lines, got %d", len(clone.Services))
	}

	var eventCount int64
	if err := db.Table("invoice_events").Where("event_type = ?", events.EventInvoiceGenerated).Count(&eventCount).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if eventCount != 1 {
		t.Fatalf("expected 1 generated event, got %d", eventCount)
	}
}

func TestRunOnceIsIdempotentPerDay(t *testing.T) {
	db := setupTestDB(t)
	worker, node := newTestWorker(t, db, testNow)
	customer := insertCustomer(t, db, node)
	insertRecurringInvoice(t, db, node, customer.ID, invoicedomain.FrequencyDaily, nil)

	if generated, err := worker.RunOnce(context.Background()); err != nil || generated != 1 {
		t.Fatalf("first run: generated=%d err=%v", generated, err)
	}
	if generated, err := worker.RunOnce(context.Background()); err != nil || generated != 0 {
		t.Fatalf("second run same day: generated=%d err=%v", generated, err)
	}

	var count int64
	if err := db.Model(&invoicedomain.Invoice{}).Count(&count).Error; err != nil {
		t.Fatalf("count invoices: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected source plus one clone, got %d invoices", count)
	}
}

func TestRunOnceGeneratesAgainNextPeriod(t *testing.T) {
	db := setupTestDB(t)
	worker, node := newTestWorker(t, db, testNow)
	customer := insertCustomer(t, db, node)
	insertRecurringInvoice(t, db, node, customer.ID, invoicedomain.FrequencyDaily, nil)

	if generated, err := worker.RunOnce(context.Background()); err != nil || generated != 1 {
		t.Fatalf("first run: generated=%d err=%v", generated, err)
	}

	nextDay, _ := newTestWorker(t, db, testNow.AddDate(0, 0, 1))
	if generated, err := nextDay.RunOnce(context.Background()); err != nil || generated != 1 {
		t.Fatalf("next day run: generated=%d err=%v", generated, err)
	}
}

func TestRunOnceSkipsNotDue(t *testing.T) {
	db := setupTestDB(t)
	worker, node := newTestWorker(t, db, testNow)
	customer := insertCustomer(t, db, node)

	day := 3 // Thursday; today is Tuesday
	insertRecurringInvoice(t, db, node, customer.ID, invoicedomain.FrequencyWeekly, &day)

	generated, err := worker.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if generated != 0 {
		t.Fatalf("expected no generation off-schedule, got %d", generated)
	}
}

func TestRunOnceMonthlyClampOnShortMonth(t *testing.T) {
	db := setupTestDB(t)
	// April has 30 days; a day-31 schedule fires on the 30th.
	endOfApril := time.Date(2026, time.April, 30, 9, 0, 0, 0, time.UTC)
	worker, node := newTestWorker(t, db, endOfApril)
	customer := insertCustomer(t, db, node)

	day := 31
	insertRecurringInvoice(t, db, node, customer.ID, invoicedomain.FrequencyMonthly, &day)

	generated, err := worker.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if generated != 1 {
		t.Fatalf("expected clamp to month end to fire, got %d", generated)
	}
}
