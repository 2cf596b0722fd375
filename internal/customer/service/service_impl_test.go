package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/factura/internal/customer/domain"
	"github.com/smallbiznis/factura/internal/migration"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return NewService(Params{DB: db, Log: zap.NewNop(), GenID: node}).(*Service)
}

func strptr(v string) *string { return &v }

func TestCreateCustomerTrimsOptionalFields(t *testing.T) {
	svc := newTestService(t, setupTestDB(t))
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{
		LegalName:   "  Acme Corp  ",
		DisplayName: strptr("  Acme  "),
		Email:       strptr("   "),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.LegalName != "Acme Corp" {
		t.Fatalf("expected trimmed legal name, got %q", resp.LegalName)
	}
	if resp.DisplayName == nil || *resp.DisplayName != "Acme" {
		t.Fatalf("expected trimmed display name, got %v", resp.DisplayName)
	}
	if resp.Email != nil {
		t.Fatalf("expected blank email to store as null, got %v", resp.Email)
	}
}

func TestCreateCustomerRequiresLegalName(t *testing.T) {
	svc := newTestService(t, setupTestDB(t))
	if _, err := svc.Create(context.Background(), domain.CreateRequest{LegalName: "   "}); !errors.Is(err, domain.ErrInvalidLegalName) {
		t.Fatalf("expected ErrInvalidLegalName, got %v", err)
	}
}

func TestGetByIDErrors(t *testing.T) {
	svc := newTestService(t, setupTestDB(t))
	ctx := context.Background()

	if _, err := svc.GetByID(ctx, "not-a-number"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := svc.GetByID(ctx, "12345"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateCustomerPatchesOnlyProvidedFields(t *testing.T) {
	svc := newTestService(t, setupTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{
		LegalName: "Acme Corp",
		City:      strptr("Berlin"),
		Email:     strptr("billing@acme.test"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, domain.UpdateRequest{
		City: strptr("Hamburg"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.City == nil || *updated.City != "Hamburg" {
		t.Fatalf("expected city Hamburg, got %v", updated.City)
	}
	if updated.Email == nil || *updated.Email != "billing@acme.test" {
		t.Fatalf("expected untouched email, got %v", updated.Email)
	}
	if updated.LegalName != "Acme Corp" {
		t.Fatalf("expected untouched legal name, got %q", updated.LegalName)
	}

	if _, err := svc.Update(ctx, created.ID, domain.UpdateRequest{LegalName: strptr("  ")}); !errors.Is(err, domain.ErrInvalidLegalName) {
		t.Fatalf("expected ErrInvalidLegalName on blank patch, got %v", err)
	}
}

func TestListCustomersFiltersByQuery(t *testing.T) {
	svc := newTestService(t, setupTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"Acme Corp", "Beta LLC", "Acme Subsidiary"} {
		if _, err := svc.Create(ctx, domain.CreateRequest{LegalName: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 customers, got %d", len(all))
	}
	if all[0].LegalName != "Acme Corp" || all[1].LegalName != "Acme Subsidiary" {
		t.Fatalf("expected legal_name ordering, got %q then %q", all[0].LegalName, all[1].LegalName)
	}

	matched, err := svc.List(ctx, "acme")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matched))
	}
}

func TestDeleteCustomer(t *testing.T) {
	svc := newTestService(t, setupTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{LegalName: "Acme Corp"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
