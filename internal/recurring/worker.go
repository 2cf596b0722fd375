package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/factura/internal/clock"
	"github.com/smallbiznis/factura/internal/events"
	invoicedomain "github.com/smallbiznis/factura/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Outbox *events.Outbox
	Config Config `optional:"true"`
}

// Worker scans recurring invoices and materializes a fresh copy whenever a
// schedule falls due. Generation is idempotent per invoice per day: the
// last_generated_at guard keeps a retried batch from issuing duplicates.
type Worker struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	outbox *events.Outbox
	cfg    Config
}

func NewWorker(p Params) *Worker {
	return &Worker{
		db:     p.DB,
		log:    p.Log.Named("recurring.worker"),
		genID:  p.GenID,
		clock:  p.Clock,
		outbox: p.Outbox,
		cfg:    p.Config.withDefaults(),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Warn("recurring generation run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce processes a single batch and returns how many invoices it
// generated.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	if w.db == nil || w.genID == nil {
		return 0, errors.New("recurring_worker_unavailable")
	}

	today := truncateToDate(w.clock.Now())

	var candidates []invoicedomain.Invoice
	err := w.db.WithContext(ctx).
		Preload("Services").
		Where("is_recurrent = ?", true).
		Where("last_generated_at IS NULL OR last_generated_at < ?", today).
		Order("id").
		Limit(w.cfg.BatchSize).
		Find(&candidates).Error
	if err != nil {
		return 0, err
	}

	generated := 0
	for _, source := range candidates {
		if source.RecurrenceFrequency == nil {
			continue
		}
		if !invoicedomain.RecurrenceDue(*source.RecurrenceFrequency, source.RecurrenceDay, today) {
			continue
		}
		if err := w.generateFrom(ctx, source, today); err != nil {
			w.log.Warn("recurring generation failed",
				zap.String("source_invoice_id", source.ID.String()),
				zap.Error(err),
			)
			continue
		}
		generated++
	}
	return generated, nil
}

// generateFrom clones the source invoice for today: same customer, lines and
// total, fresh number, issue date today, and the source's issue-to-due span
// preserved. The copy is a plain invoice, never itself recurring.
func (w *Worker) generateFrom(ctx context.Context, source invoicedomain.Invoice, today time.Time) error {
	span := source.DueDate.Sub(source.IssueDate)
	if span < 0 {
		span = 0
	}

	newID := w.genID.Generate()
	now := w.clock.Now()

	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-check the guard inside the transaction so concurrent runs
		// cannot both clone the same source.
		claimed := tx.Model(&invoicedomain.Invoice{}).
			Where("id = ?", source.ID).
			Where("last_generated_at IS NULL OR last_generated_at < ?", today).
			Update("last_generated_at", now)
		if claimed.Error != nil {
			return claimed.Error
		}
		if claimed.RowsAffected == 0 {
			return nil
		}

		var seq int64
		if err := tx.Raw(`SELECT COALESCE(MAX(invoice_seq), 0) + 1 FROM invoices`).Scan(&seq).Error; err != nil {
			return err
		}

		sourceID := source.ID
		row := invoicedomain.Invoice{
			ID:            newID,
			InvoiceSeq:    seq,
			InvoiceNumber: fmt.Sprintf("INV-%06d", seq),
			CustomerID:    source.CustomerID,
			BankAccountID: source.BankAccountID,
			IssueDate:     today,
			DueDate:       today.Add(span),
			Currency:      source.Currency,
			Status:        invoicedomain.StatusDraft,
			TotalAmount:   source.TotalAmount,
			Notes:         source.Notes,
			GeneratedFrom: &sourceID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, svc := range source.Services {
			row.Services = append(row.Services, invoicedomain.InvoiceService{
				ID:                 w.genID.Generate(),
				InvoiceID:          newID,
				ServiceTitle:       svc.ServiceTitle,
				ServiceDescription: svc.ServiceDescription,
				Amount:             svc.Amount,
				SortOrder:          svc.SortOrder,
				CreatedAt:          now,
				UpdatedAt:          now,
			})
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		return w.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventInvoiceGenerated,
			Payload: events.InvoicePayload{
				InvoiceID:     newID.String(),
				InvoiceNumber: row.InvoiceNumber,
				CustomerID:    row.CustomerID.String(),
				GeneratedFrom: source.ID.String(),
			}.ToMap(),
			DedupeKey: fmt.Sprintf("%s:%s:%s", events.EventInvoiceGenerated, source.ID, today.Format(invoicedomain.DateLayout)),
		})
	})
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
