package view

import (
	"context"
	"log/slog"
	"time"

	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/notify"
	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/store"
)

type DeleteClient interface {
	Delete(ctx context.Context, id string) error
}

// AuditLog records delete attempts out of band. Implementations must not
// assume the caller waits for them.
type AuditLog interface {
	RecordDelete(ctx context.Context, appointmentID string, outcome string, detail string) error
}

const (
	deleteSuccessMessage = "appointment deleted"
	deleteFailureMessage = "could not delete appointment"

	auditOutcomeCommitted  = "committed"
	auditOutcomeRolledBack = "rolled_back"
)

// Deleter performs optimistic per-id deletes: mark pending, call the
// booking API, then either commit the local removal or roll back by leaving
// the collection untouched. Deletes for different ids are independent.
type Deleter struct {
	client   DeleteClient
	col      *store.Collection
	notifier notify.Notifier
	auditLog AuditLog // optional
	logger   *slog.Logger
}

func NewDeleter(client DeleteClient, col *store.Collection, notifier notify.Notifier, auditLog AuditLog, logger *slog.Logger) *Deleter {
	return &Deleter{
		client:   client,
		col:      col,
		notifier: notifier,
		auditLog: auditLog,
		logger:   logger,
	}
}

// DeleteByID deletes one appointment. An id absent from the collection is
// not an error: the API call still proceeds and local removal is a no-op.
// The pending mark is always cleared so the frontend's delete affordance
// cannot stay stuck disabled.
func (d *Deleter) DeleteByID(ctx context.Context, id string) error {
	d.col.MarkPending(id)
	defer d.col.ClearPending(id)

	if err := d.client.Delete(ctx, id); err != nil {
		d.logger.Error("appointment delete failed", "appointment_id", id, "err", err)
		// The operator gets a generic notice; the underlying detail goes to
		// the log and the audit trail only.
		d.notifier.Failure(ctx, deleteFailureMessage)
		d.recordAudit(id, auditOutcomeRolledBack, err.Error())
		return err
	}

	d.col.RemoveByID(id)
	d.logger.Info("appointment deleted", "appointment_id", id)
	d.notifier.Success(ctx, deleteSuccessMessage)
	d.recordAudit(id, auditOutcomeCommitted, "")
	return nil
}

func (d *Deleter) recordAudit(id string, outcome string, detail string) {
	if d.auditLog == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := d.auditLog.RecordDelete(ctx, id, outcome, detail); err != nil {
			d.logger.Warn("delete audit record failed", "appointment_id", id, "err", err)
		}
	}()
}
