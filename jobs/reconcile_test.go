package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/stockpoint/stockpoint/internal/ledger"
)

type fakeReconciler struct {
	kinds []ledger.AccountKind
	err   error
}

func (f *fakeReconciler) Reconcile(_ context.Context, kind ledger.AccountKind) (ledger.ReconcileReport, error) {
	f.kinds = append(f.kinds, kind)
	if f.err != nil {
		return ledger.ReconcileReport{}, f.err
	}
	return ledger.ReconcileReport{Checked: 3, Repaired: 1}, nil
}

func TestLedgerReconcileHandlerSweepsBothKinds(t *testing.T) {
	rec := &fakeReconciler{}
	handler := NewLedgerReconcileHandler(rec, nil)

	task, err := NewLedgerReconcileTask(time.Now())
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), task))
	require.Equal(t, []ledger.AccountKind{ledger.KindCustomer, ledger.KindSupplier}, rec.kinds)
}

func TestLedgerReconcileHandlerPropagatesError(t *testing.T) {
	rec := &fakeReconciler{err: errors.New("pool exhausted")}
	handler := NewLedgerReconcileHandler(rec, nil)

	task, err := NewLedgerReconcileTask(time.Now())
	require.NoError(t, err)

	require.Error(t, handler(context.Background(), task))
	require.Equal(t, []ledger.AccountKind{ledger.KindCustomer}, rec.kinds)
}

func TestLedgerReconcileHandlerSkipsBadPayload(t *testing.T) {
	rec := &fakeReconciler{}
	handler := NewLedgerReconcileHandler(rec, nil)

	task := asynq.NewTask(TaskLedgerReconcile, []byte("{not json"))
	err := handler(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Empty(t, rec.kinds)
}
