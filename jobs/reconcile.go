package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockpoint/stockpoint/internal/ledger"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerReconcile triggers the nightly ledger balance sweep.
	TaskLedgerReconcile = "ledger:reconcile"
)

// LedgerReconcilePayload carries scheduling metadata.
type LedgerReconcilePayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewLedgerReconcileTask constructs an Asynq task for the balance sweep.
func NewLedgerReconcileTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(LedgerReconcilePayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerReconcile, body, asynq.Queue(QueueDefault)), nil
}

// Reconciler is the slice of the ledger service the sweep needs.
type Reconciler interface {
	Reconcile(ctx context.Context, kind ledger.AccountKind) (ledger.ReconcileReport, error)
}

// NewLedgerReconcileHandler returns the task handler that walks every
// customer and supplier account and repairs stored balances that have
// drifted from the computed ledger.
func NewLedgerReconcileHandler(svc Reconciler, logger *slog.Logger) asynq.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, t *asynq.Task) error {
		var payload LedgerReconcilePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}

		for _, kind := range []ledger.AccountKind{ledger.KindCustomer, ledger.KindSupplier} {
			report, err := svc.Reconcile(ctx, kind)
			if err != nil {
				logger.Error("ledger reconcile sweep failed",
					slog.String("kind", string(kind)),
					slog.Any("error", err))
				return err
			}
			logger.Info("ledger reconcile sweep done",
				slog.String("kind", string(kind)),
				slog.Int("checked", report.Checked),
				slog.Int("repaired", report.Repaired))
		}
		return nil
	}
}
