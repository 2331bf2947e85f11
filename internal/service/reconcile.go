package service

import (
	"context"
	"errors"
	"fmt"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/logger"
	"learnledger-backend/internal/repository"
)

type reconciliationService struct {
	txRepo          repository.TransactionRepository
	enrollmentRepo  repository.EnrollmentRepository
	courseRepo      repository.CourseRepository
	userRepo        repository.UserRepository
	accountRepo     repository.BankAccountRepository
	platformAccount string
}

func NewReconciliationService(
	txRepo repository.TransactionRepository,
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	accountRepo repository.BankAccountRepository,
	platformAccount string,
) ReconciliationService {
	return &reconciliationService{
		txRepo:          txRepo,
		enrollmentRepo:  enrollmentRepo,
		courseRepo:      courseRepo,
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		platformAccount: platformAccount,
	}
}

// ReconcileDuplicatePurchases unwinds duplicate active purchases of the same
// course by the same learner, keeping the earliest of each group. For every
// surplus purchase the payer gets a full refund; when the duplicate was
// already approved, the 80% commission is clawed back from the instructor and
// the platform absorbs its own 20% share. Adjustments use unconditional
// balance deltas because unwinding may legitimately push an account negative.
// Running the sweep twice finds nothing the second time.
func (r *reconciliationService) ReconcileDuplicatePurchases(ctx context.Context) (*domain.ReconciliationReport, error) {
	purchases, err := r.txRepo.ListActivePurchases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active purchases: %w", err)
	}

	report := &domain.ReconciliationReport{ScannedTransactions: int32(len(purchases))}

	type pairKey struct {
		learnerID int32
		courseID  int32
	}
	groups := make(map[pairKey][]domain.Transaction)
	var order []pairKey
	for _, tx := range purchases {
		if tx.FromUserID == nil {
			continue
		}
		key := pairKey{*tx.FromUserID, tx.CourseID}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}

	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		report.DuplicateGroups++

		// ListActivePurchases orders by creation time within a pair, so the
		// first entry is the purchase to keep.
		for _, dup := range group[1:] {
			if err := r.unwindDuplicate(ctx, dup, report); err != nil {
				return report, err
			}
		}

		removed, err := r.dropSurplusEnrollments(ctx, key.learnerID, key.courseID)
		if err != nil {
			return report, err
		}
		report.RemovedEnrollments += removed
	}

	logger.Info("duplicate purchase sweep finished",
		"scanned", report.ScannedTransactions,
		"duplicate_groups", report.DuplicateGroups,
		"removed_transactions", report.RemovedTransactions,
		"refunded_cents", report.RefundedCents,
		"clawed_back_cents", report.ClawedBackCents)
	return report, nil
}

func (r *reconciliationService) unwindDuplicate(ctx context.Context, dup domain.Transaction, report *domain.ReconciliationReport) error {
	// Full refund to the payer out of the platform account.
	if err := r.accountRepo.AdjustBalance(ctx, r.platformAccount, -dup.AmountCents); err != nil {
		return fmt.Errorf("failed to debit platform for refund of transaction %d: %w", dup.ID, err)
	}
	if err := r.accountRepo.AdjustBalance(ctx, dup.FromAccountNumber, dup.AmountCents); err != nil {
		return fmt.Errorf("failed to refund transaction %d: %w", dup.ID, err)
	}
	report.RefundedCents += dup.AmountCents

	// An approved duplicate already paid the instructor a commission.
	// Reclaim it; the platform eats its own 20% share of the refund.
	if dup.Status == domain.TransactionStatusValidated || dup.Status == domain.TransactionStatusCompleted {
		commission := domain.CommissionCents(dup.AmountCents)
		if err := r.clawBackCommission(ctx, dup, commission); err != nil {
			return err
		}
		report.ClawedBackCents += commission
		report.PlatformAbsorbedCents += dup.AmountCents - commission
	}

	if err := r.txRepo.Delete(ctx, dup.ID); err != nil {
		return fmt.Errorf("failed to delete duplicate transaction %d: %w", dup.ID, err)
	}
	report.RemovedTransactions++

	logger.Info("duplicate purchase unwound",
		"transaction_id", dup.ID,
		"learner_id", *dup.FromUserID,
		"course_id", dup.CourseID,
		"refund_cents", dup.AmountCents)
	return nil
}

func (r *reconciliationService) clawBackCommission(ctx context.Context, dup domain.Transaction, commission int64) error {
	course, err := r.courseRepo.GetByID(ctx, dup.CourseID)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			// No instructor to reclaim from; the platform covers it all.
			logger.Warn("duplicate purchase references a removed course",
				"transaction_id", dup.ID, "course_id", dup.CourseID)
			return nil
		}
		return err
	}
	instructor, err := r.userRepo.GetByID(ctx, course.InstructorID)
	if err != nil {
		return err
	}
	if instructor.BankAccountNumber == "" {
		logger.Warn("instructor has no linked account for clawback",
			"instructor_id", instructor.ID, "transaction_id", dup.ID)
		return nil
	}

	if err := r.accountRepo.AdjustBalance(ctx, instructor.BankAccountNumber, -commission); err != nil {
		return fmt.Errorf("failed to claw back commission for transaction %d: %w", dup.ID, err)
	}
	if err := r.accountRepo.AdjustBalance(ctx, r.platformAccount, commission); err != nil {
		return fmt.Errorf("failed to return commission to platform for transaction %d: %w", dup.ID, err)
	}
	if err := r.userRepo.AddEarnings(ctx, instructor.ID, -commission); err != nil {
		logger.Error("failed to decrement instructor earnings after clawback",
			"instructor_id", instructor.ID, "error", err)
	}
	return nil
}

// dropSurplusEnrollments keeps the earliest non-Rejected enrollment for the
// pair and deletes the rest. Legacy data predating the uniqueness constraint
// can carry several.
func (r *reconciliationService) dropSurplusEnrollments(ctx context.Context, learnerID, courseID int32) (int32, error) {
	enrollments, err := r.enrollmentRepo.ListByLearnerAndCourse(ctx, learnerID, courseID)
	if err != nil {
		return 0, err
	}

	var removed int32
	kept := false
	for _, e := range enrollments {
		if e.Status == domain.EnrollmentStatusRejected {
			continue
		}
		if !kept {
			kept = true
			continue
		}
		if err := r.enrollmentRepo.Delete(ctx, e.ID); err != nil {
			return removed, fmt.Errorf("failed to delete surplus enrollment %d: %w", e.ID, err)
		}
		removed++
	}
	return removed, nil
}
