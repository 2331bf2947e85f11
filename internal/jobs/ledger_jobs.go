package jobs

import (
	"context"

	"learnledger-backend/internal/logger"
)

// ReconcileDuplicatePurchases sweeps the ledger for duplicate active
// purchases of the same course by the same learner, refunds the surplus
// payments, and claws back any commissions already paid out for them.
// The sweep is idempotent, so rerunning it after a partial failure is safe.
func (jr *JobRunner) ReconcileDuplicatePurchases() {
	jr.runWithRecovery("ReconcileDuplicatePurchases", func() {
		ctx := context.Background()

		report, err := jr.services.Reconcile.ReconcileDuplicatePurchases(ctx)
		if err != nil {
			logger.Error("Failed to reconcile duplicate purchases", "error", err)
			return
		}

		logger.Info("Reconciled duplicate purchases",
			"scanned_transactions", report.ScannedTransactions,
			"duplicate_groups", report.DuplicateGroups,
			"removed_transactions", report.RemovedTransactions,
			"removed_enrollments", report.RemovedEnrollments,
			"refunded_cents", report.RefundedCents,
			"clawed_back_cents", report.ClawedBackCents,
			"platform_absorbed_cents", report.PlatformAbsorbedCents)
	})
}
