package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/logger"
	"learnledger-backend/internal/repository"
)

type instructorService struct {
	courseRepo     repository.CourseRepository
	txRepo         repository.TransactionRepository
	enrollmentRepo repository.EnrollmentRepository
	userRepo       repository.UserRepository
	bank           BankService
	email          EmailService
}

func NewInstructorService(
	courseRepo repository.CourseRepository,
	txRepo repository.TransactionRepository,
	enrollmentRepo repository.EnrollmentRepository,
	userRepo repository.UserRepository,
	bank BankService,
	email EmailService,
) InstructorService {
	return &instructorService{
		courseRepo:     courseRepo,
		txRepo:         txRepo,
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
		bank:           bank,
		email:          email,
	}
}

func (s *instructorService) CoursesWithStats(ctx context.Context, instructorID int32) ([]domain.CourseStats, error) {
	courses, err := s.courseRepo.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	var stats []domain.CourseStats
	for _, c := range courses {
		active, err := s.txRepo.CountPurchasesByCourse(ctx, c.ID, domain.ActiveTransactionStatuses)
		if err != nil {
			return nil, err
		}
		pending, err := s.txRepo.CountPurchasesByCourse(ctx, c.ID, []domain.TransactionStatus{domain.TransactionStatusPendingApproval})
		if err != nil {
			return nil, err
		}
		approved := active - pending
		stats = append(stats, domain.CourseStats{
			Course:           c,
			EnrolledLearners: active,
			PendingApprovals: pending,
			EarningsCents:    c.LumpSumCents + domain.CommissionCents(c.PriceCents)*int64(approved),
		})
	}
	return stats, nil
}

func (s *instructorService) PendingApprovals(ctx context.Context, instructorID int32) ([]domain.PendingEnrollment, error) {
	courses, err := s.courseRepo.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	var pending []domain.PendingEnrollment
	for _, c := range courses {
		txs, err := s.txRepo.ListPendingByCourse(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		for _, tx := range txs {
			if tx.FromUserID == nil {
				continue
			}
			learner, err := s.userRepo.GetByID(ctx, *tx.FromUserID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					continue
				}
				return nil, err
			}
			pending = append(pending, domain.PendingEnrollment{
				Transaction: tx,
				Learner:     *learner,
				Course:      c,
			})
		}
	}
	return pending, nil
}

// ApproveEnrollment validates a pending purchase. The platform pays the
// instructor the 80% commission and keeps the rest; the learner's enrollment
// becomes active. A failed payout leaves the transaction pending so the
// approval can be retried.
func (s *instructorService) ApproveEnrollment(ctx context.Context, instructorID, transactionID int32) error {
	tx, course, err := s.pendingTransaction(ctx, instructorID, transactionID)
	if err != nil {
		return err
	}

	commission := domain.CommissionCents(tx.AmountCents)
	if err := s.bank.PayoutTransfer(ctx, instructorID, commission); err != nil {
		return err
	}

	if err := s.txRepo.UpdateStatus(ctx, tx.ID, domain.TransactionStatusValidated); err != nil {
		return fmt.Errorf("failed to validate transaction: %w", err)
	}

	enrollment, err := s.enrollmentRepo.GetActive(ctx, *tx.FromUserID, tx.CourseID)
	if err != nil {
		return err
	}
	if err := s.enrollmentRepo.UpdateStatus(ctx, enrollment.ID, domain.EnrollmentStatusInProgress); err != nil {
		return err
	}

	s.notifyLearner(ctx, *tx.FromUserID, course.Title, true)

	logger.Info("enrollment approved",
		"transaction_id", tx.ID,
		"instructor_id", instructorID,
		"commission_cents", commission)
	return nil
}

// RejectEnrollment refunds the learner in full and releases the purchase slot
// so the learner may buy the course again later.
func (s *instructorService) RejectEnrollment(ctx context.Context, instructorID, transactionID int32) error {
	tx, course, err := s.pendingTransaction(ctx, instructorID, transactionID)
	if err != nil {
		return err
	}

	if err := s.bank.Transfer(ctx, s.bank.PlatformAccountNumber(), tx.FromAccountNumber, tx.AmountCents); err != nil {
		return fmt.Errorf("failed to refund purchase: %w", err)
	}

	if err := s.txRepo.Delete(ctx, tx.ID); err != nil {
		return fmt.Errorf("failed to remove rejected transaction: %w", err)
	}

	enrollment, err := s.enrollmentRepo.GetActive(ctx, *tx.FromUserID, tx.CourseID)
	if err == nil {
		if err := s.enrollmentRepo.UpdateStatus(ctx, enrollment.ID, domain.EnrollmentStatusRejected); err != nil {
			return err
		}
	} else if !errors.Is(err, domain.ErrEnrollmentNotFound) {
		return err
	}

	s.notifyLearner(ctx, *tx.FromUserID, course.Title, false)

	logger.Info("enrollment rejected",
		"transaction_id", tx.ID,
		"instructor_id", instructorID,
		"refund_cents", tx.AmountCents)
	return nil
}

func (s *instructorService) pendingTransaction(ctx context.Context, instructorID, transactionID int32) (*domain.Transaction, *domain.Course, error) {
	tx, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}
	if tx.Type != domain.TransactionTypePurchase || tx.Status != domain.TransactionStatusPendingApproval || tx.FromUserID == nil {
		return nil, nil, domain.ErrInvalidTransactionState
	}
	course, err := s.courseRepo.GetByID(ctx, tx.CourseID)
	if err != nil {
		return nil, nil, err
	}
	if course.InstructorID != instructorID {
		return nil, nil, domain.ErrNotAuthorized
	}
	return tx, course, nil
}

func (s *instructorService) notifyLearner(ctx context.Context, learnerID int32, courseTitle string, approved bool) {
	learner, err := s.userRepo.GetByID(ctx, learnerID)
	if err != nil {
		logger.Warn("failed to load learner for notification", "learner_id", learnerID, "error", err)
		return
	}
	if err := s.email.SendEnrollmentDecisionNotification(ctx, learner.Email, courseTitle, approved); err != nil {
		logger.Warn("failed to send enrollment decision notification", "error", err)
	}
}

// EarningsChart buckets the instructor's commissions over the last twelve
// months. Months without sales appear with zero amounts.
func (s *instructorService) EarningsChart(ctx context.Context, instructorID int32) ([]domain.EarningsPoint, error) {
	courses, err := s.courseRepo.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	priceByCourse := make(map[int32]int64, len(courses))
	for _, c := range courses {
		priceByCourse[c.ID] = c.PriceCents
	}

	purchases, err := s.txRepo.ListActivePurchases(ctx)
	if err != nil {
		return nil, err
	}

	type monthKey struct {
		year  int
		month time.Month
	}
	totals := make(map[monthKey]*domain.EarningsPoint)
	for _, tx := range purchases {
		price, ok := priceByCourse[tx.CourseID]
		if !ok || tx.Status == domain.TransactionStatusPendingApproval {
			continue
		}
		key := monthKey{tx.CreatedOn.Year(), tx.CreatedOn.Month()}
		point, ok := totals[key]
		if !ok {
			point = &domain.EarningsPoint{Year: key.year, Month: key.month}
			totals[key] = point
		}
		point.AmountCents += domain.CommissionCents(price)
		point.Enrollments++
	}

	return lastTwelveMonths(time.Now(), func(year int, month time.Month) domain.EarningsPoint {
		if point, ok := totals[monthKey{year, month}]; ok {
			return *point
		}
		return domain.EarningsPoint{Year: year, Month: month}
	}), nil
}

// lastTwelveMonths builds a chronological twelve-month series ending at the
// month of now, filling each slot via fill.
func lastTwelveMonths(now time.Time, fill func(year int, month time.Month) domain.EarningsPoint) []domain.EarningsPoint {
	points := make([]domain.EarningsPoint, 0, 12)
	cursor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	for i := 0; i < 12; i++ {
		points = append(points, fill(cursor.Year(), cursor.Month()))
		cursor = cursor.AddDate(0, 1, 0)
	}
	return points
}
