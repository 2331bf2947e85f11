package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/logger"
	"learnledger-backend/internal/repository"
)

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	courseRepo     repository.CourseRepository
	txRepo         repository.TransactionRepository
	certRepo       repository.CertificateRepository
	userRepo       repository.UserRepository
	bank           BankService
	email          EmailService
}

func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
	txRepo repository.TransactionRepository,
	certRepo repository.CertificateRepository,
	userRepo repository.UserRepository,
	bank BankService,
	email EmailService,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		txRepo:         txRepo,
		certRepo:       certRepo,
		userRepo:       userRepo,
		bank:           bank,
		email:          email,
	}
}

func (s *enrollmentService) ListBuyableCourses(ctx context.Context, learnerID int32) ([]domain.BuyableCourse, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.enrollmentRepo.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	owned := make(map[int32]bool, len(enrollments))
	for _, e := range enrollments {
		if e.Status != domain.EnrollmentStatusRejected {
			owned[e.CourseID] = true
		}
	}

	var buyable []domain.BuyableCourse
	for _, c := range courses {
		if owned[c.ID] {
			continue
		}
		count, err := s.txRepo.CountPurchasesByCourse(ctx, c.ID, domain.ActiveTransactionStatuses)
		if err != nil {
			return nil, err
		}
		buyable = append(buyable, domain.BuyableCourse{Course: c, EnrolledLearners: count})
	}
	return buyable, nil
}

// Enroll runs the purchase workflow: the learner pays the full course price
// into the platform account up front and the enrollment waits for the
// instructor's approval. Uniqueness of the active purchase is enforced by the
// store, so when two requests race past the checks here, exactly one insert
// wins and the loser's money is returned.
func (s *enrollmentService) Enroll(ctx context.Context, learnerID, courseID int32, accountNumber, secret string) (*domain.Transaction, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if _, err := s.enrollmentRepo.GetActive(ctx, learnerID, courseID); err == nil {
		return nil, domain.ErrAlreadyEnrolled
	} else if !errors.Is(err, domain.ErrEnrollmentNotFound) {
		return nil, err
	}

	if _, err := s.txRepo.FindActivePurchase(ctx, learnerID, courseID); err == nil {
		return nil, domain.ErrEnrollmentInProgress
	} else if !errors.Is(err, domain.ErrTransactionNotFound) {
		return nil, err
	}

	if err := s.bank.PurchaseTransfer(ctx, learnerID, accountNumber, secret, course.PriceCents); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		Type:              domain.TransactionTypePurchase,
		AmountCents:       course.PriceCents,
		FromUserID:        &learnerID,
		FromAccountNumber: accountNumber,
		ToAccountNumber:   s.bank.PlatformAccountNumber(),
		Status:            domain.TransactionStatusPendingApproval,
		CourseID:          courseID,
		CreatedOn:         time.Now(),
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		// Money already moved; return it before surfacing the failure.
		s.refund(ctx, accountNumber, course.PriceCents)
		if errors.Is(err, domain.ErrEnrollmentInProgress) {
			return nil, domain.ErrEnrollmentInProgress
		}
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	enrollment := &domain.Enrollment{
		LearnerID: learnerID,
		CourseID:  courseID,
		Status:    domain.EnrollmentStatusPendingApproval,
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		if deleteErr := s.txRepo.Delete(ctx, tx.ID); deleteErr != nil {
			logger.Error("failed to remove purchase after enrollment failure",
				"transaction_id", tx.ID, "error", deleteErr)
		}
		s.refund(ctx, accountNumber, course.PriceCents)
		if errors.Is(err, domain.ErrAlreadyEnrolled) {
			return nil, domain.ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.notifyInstructor(ctx, learnerID, course)

	logger.Info("purchase recorded",
		"learner_id", learnerID,
		"course_id", courseID,
		"amount_cents", course.PriceCents)
	return tx, nil
}

func (s *enrollmentService) refund(ctx context.Context, accountNumber string, amountCents int64) {
	if err := s.bank.Transfer(ctx, s.bank.PlatformAccountNumber(), accountNumber, amountCents); err != nil {
		logger.Error("failed to refund purchase",
			"account_number", accountNumber,
			"amount_cents", amountCents,
			"error", err)
	}
}

func (s *enrollmentService) notifyInstructor(ctx context.Context, learnerID int32, course *domain.Course) {
	learner, err := s.userRepo.GetByID(ctx, learnerID)
	if err != nil {
		logger.Warn("failed to load learner for notification", "learner_id", learnerID, "error", err)
		return
	}
	instructor, err := s.userRepo.GetByID(ctx, course.InstructorID)
	if err != nil {
		logger.Warn("failed to load instructor for notification", "instructor_id", course.InstructorID, "error", err)
		return
	}
	if err := s.email.SendEnrollmentRequestNotification(ctx, instructor.Email, learner.FullName, course.Title); err != nil {
		logger.Warn("failed to send enrollment request notification", "error", err)
	}
}

func (s *enrollmentService) ListMyCourses(ctx context.Context, learnerID int32) ([]domain.EnrolledCourse, error) {
	enrollments, err := s.enrollmentRepo.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	certs, err := s.certRepo.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	certByCourse := make(map[int32]*domain.Certificate, len(certs))
	for i := range certs {
		certByCourse[certs[i].CourseID] = &certs[i]
	}

	var result []domain.EnrolledCourse
	for _, e := range enrollments {
		if e.Status == domain.EnrollmentStatusRejected {
			continue
		}
		course, err := s.courseRepo.GetByID(ctx, e.CourseID)
		if err != nil {
			if errors.Is(err, domain.ErrCourseNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, domain.EnrolledCourse{
			Course:      *course,
			Enrollment:  e,
			Certificate: certByCourse[e.CourseID],
		})
	}
	return result, nil
}

func (s *enrollmentService) GetCourseContent(ctx context.Context, learnerID, courseID int32) (*domain.CourseContent, error) {
	enrollment, err := s.enrollmentRepo.GetActive(ctx, learnerID, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrEnrollmentNotFound) {
			return nil, domain.ErrNoCourseAccess
		}
		return nil, err
	}
	if !enrollment.HasAccess() {
		return nil, domain.ErrNoCourseAccess
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	entries, err := s.enrollmentRepo.ListWatchEntries(ctx, enrollment.ID)
	if err != nil {
		return nil, err
	}
	enrollment.WatchHistory = entries

	content := &domain.CourseContent{Course: *course, Enrollment: *enrollment}
	certs, err := s.certRepo.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	for i := range certs {
		if certs[i].CourseID == courseID {
			content.Certificate = &certs[i]
			break
		}
	}
	return content, nil
}

// UpdateVideoProgress records a playback position and recomputes overall
// progress. Watch time is clamped to the video's duration; a video counts as
// completed when the client says so or the position crosses 95% of the
// duration. Finishing every video completes the enrollment and issues the
// certificate exactly once.
func (s *enrollmentService) UpdateVideoProgress(ctx context.Context, learnerID, courseID, videoID, watchedSeconds int32, completed bool) (*domain.ProgressUpdate, error) {
	enrollment, err := s.enrollmentRepo.GetActive(ctx, learnerID, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrEnrollmentNotFound) {
			return nil, domain.ErrNoCourseAccess
		}
		return nil, err
	}
	if !enrollment.HasAccess() {
		return nil, domain.ErrNoCourseAccess
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	var video *domain.Video
	for i := range course.Videos {
		if course.Videos[i].ID == videoID {
			video = &course.Videos[i]
			break
		}
	}
	if video == nil {
		return nil, domain.ErrVideoNotFound
	}

	clamped := domain.ClampWatchTime(watchedSeconds, video.DurationSeconds)
	done := domain.VideoCompleted(clamped, video.DurationSeconds, completed)
	entry := &domain.WatchEntry{
		EnrollmentID:       enrollment.ID,
		VideoID:            videoID,
		LastWatchedSeconds: clamped,
		Completed:          done,
	}
	if err := s.enrollmentRepo.UpsertWatchEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record watch entry: %w", err)
	}

	entries, err := s.enrollmentRepo.ListWatchEntries(ctx, enrollment.ID)
	if err != nil {
		return nil, err
	}
	progress := domain.ComputeProgress(course.Videos, entries)
	if err := s.enrollmentRepo.UpdateProgress(ctx, enrollment.ID, progress); err != nil {
		return nil, err
	}

	update := &domain.ProgressUpdate{
		EnrollmentID:    enrollment.ID,
		ProgressPercent: progress,
		VideoCompleted:  done,
		CourseCompleted: enrollment.Status == domain.EnrollmentStatusCompleted,
	}

	if enrollment.Status == domain.EnrollmentStatusInProgress && domain.AllVideosCompleted(course.Videos, entries) {
		cert, err := s.completeEnrollment(ctx, enrollment, course)
		if err != nil {
			return nil, err
		}
		update.CourseCompleted = true
		update.Certificate = cert
	}
	return update, nil
}

func (s *enrollmentService) completeEnrollment(ctx context.Context, enrollment *domain.Enrollment, course *domain.Course) (*domain.Certificate, error) {
	if err := s.enrollmentRepo.UpdateStatus(ctx, enrollment.ID, domain.EnrollmentStatusCompleted); err != nil {
		return nil, err
	}

	if tx, err := s.txRepo.FindActivePurchase(ctx, enrollment.LearnerID, course.ID); err == nil {
		if tx.Status == domain.TransactionStatusValidated {
			if err := s.txRepo.UpdateStatus(ctx, tx.ID, domain.TransactionStatusCompleted); err != nil {
				logger.Warn("failed to mark purchase completed", "transaction_id", tx.ID, "error", err)
			}
		}
	}

	exists, err := s.certRepo.Exists(ctx, enrollment.LearnerID, course.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	cert := &domain.Certificate{
		CertificateID: uuid.NewString(),
		LearnerID:     enrollment.LearnerID,
		CourseID:      course.ID,
	}
	if err := s.certRepo.Create(ctx, cert); err != nil {
		return nil, fmt.Errorf("failed to issue certificate: %w", err)
	}

	if learner, err := s.userRepo.GetByID(ctx, enrollment.LearnerID); err == nil {
		if err := s.email.SendCertificateNotification(ctx, learner.Email, course.Title, cert.CertificateID); err != nil {
			logger.Warn("failed to send certificate notification", "error", err)
		}
	}

	logger.Info("course completed",
		"learner_id", enrollment.LearnerID,
		"course_id", course.ID,
		"certificate_id", cert.CertificateID)
	return cert, nil
}

func (s *enrollmentService) ListCertificates(ctx context.Context, learnerID int32) ([]domain.Certificate, error) {
	return s.certRepo.ListByLearner(ctx, learnerID)
}
