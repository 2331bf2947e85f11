package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"learnledger-backend/internal/domain"
)

func enrollmentFixtures() (*MockEnrollmentRepo, *MockCourseRepo, *MockTransactionRepo, *MockCertificateRepo, *MockUserRepo, *MockBankAccountRepo, *MockEmailService, EnrollmentService) {
	enrollmentRepo := new(MockEnrollmentRepo)
	courseRepo := new(MockCourseRepo)
	txRepo := new(MockTransactionRepo)
	certRepo := new(MockCertificateRepo)
	userRepo := new(MockUserRepo)
	accountRepo := new(MockBankAccountRepo)
	emailSvc := new(MockEmailService)
	bank := NewBankService(accountRepo, userRepo, testPlatformAccount)
	svc := NewEnrollmentService(enrollmentRepo, courseRepo, txRepo, certRepo, userRepo, bank, emailSvc)
	return enrollmentRepo, courseRepo, txRepo, certRepo, userRepo, accountRepo, emailSvc, svc
}

func TestEnrollmentService_Enroll(t *testing.T) {
	ctx := context.Background()
	course := &domain.Course{ID: 7, Title: "Go Basics", PriceCents: 100000, InstructorID: 2}
	learner := &domain.User{ID: 5, Role: domain.RoleLearner, FullName: "Lena Learner", Email: "lena@test.com", BankAccountNumber: "10005", BankSecret: "secret-5"}
	instructor := &domain.User{ID: 2, Role: domain.RoleInstructor, Email: "ivan@test.com", BankAccountNumber: "10002"}

	t.Run("Success", func(t *testing.T) {
		enrollmentRepo, courseRepo, txRepo, _, userRepo, accountRepo, emailSvc, svc := enrollmentFixtures()

		courseRepo.On("GetByID", ctx, int32(7)).Return(course, nil)
		enrollmentRepo.On("GetActive", ctx, int32(5), int32(7)).Return(nil, domain.ErrEnrollmentNotFound)
		txRepo.On("FindActivePurchase", ctx, int32(5), int32(7)).Return(nil, domain.ErrTransactionNotFound)
		userRepo.On("GetByID", ctx, int32(5)).Return(learner, nil)
		accountRepo.On("GetByNumber", ctx, "10005").Return(&domain.BankAccount{AccountNumber: "10005"}, nil)
		accountRepo.On("GetByNumber", ctx, testPlatformAccount).Return(&domain.BankAccount{AccountNumber: testPlatformAccount}, nil)
		accountRepo.On("DebitIfSufficient", ctx, "10005", int64(100000)).Return(true, nil)
		accountRepo.On("Credit", ctx, testPlatformAccount, int64(100000)).Return(nil)
		txRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).Return(nil)
		enrollmentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Enrollment")).Return(nil)
		userRepo.On("GetByID", ctx, int32(2)).Return(instructor, nil)
		emailSvc.On("SendEnrollmentRequestNotification", ctx, "ivan@test.com", "Lena Learner", "Go Basics").Return(nil)

		tx, err := svc.Enroll(ctx, 5, 7, "10005", "secret-5")
		assert.NoError(t, err)
		assert.NotNil(t, tx)
		assert.Equal(t, domain.TransactionTypePurchase, tx.Type)
		assert.Equal(t, domain.TransactionStatusPendingApproval, tx.Status)
		assert.Equal(t, int64(100000), tx.AmountCents)
		emailSvc.AssertExpectations(t)
	})

	t.Run("Already Enrolled", func(t *testing.T) {
		enrollmentRepo, courseRepo, txRepo, _, _, accountRepo, _, svc := enrollmentFixtures()

		courseRepo.On("GetByID", ctx, int32(7)).Return(course, nil)
		enrollmentRepo.On("GetActive", ctx, int32(5), int32(7)).Return(&domain.Enrollment{ID: 1, Status: domain.EnrollmentStatusInProgress}, nil)

		tx, err := svc.Enroll(ctx, 5, 7, "10005", "secret-5")
		assert.ErrorIs(t, err, domain.ErrAlreadyEnrolled)
		assert.Nil(t, tx)
		accountRepo.AssertNotCalled(t, "DebitIfSufficient", ctx, "10005", int64(100000))
		txRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Pending Purchase Exists", func(t *testing.T) {
		enrollmentRepo, courseRepo, txRepo, _, _, accountRepo, _, svc := enrollmentFixtures()

		courseRepo.On("GetByID", ctx, int32(7)).Return(course, nil)
		enrollmentRepo.On("GetActive", ctx, int32(5), int32(7)).Return(nil, domain.ErrEnrollmentNotFound)
		txRepo.On("FindActivePurchase", ctx, int32(5), int32(7)).Return(&domain.Transaction{ID: 9, Status: domain.TransactionStatusPendingApproval}, nil)

		tx, err := svc.Enroll(ctx, 5, 7, "10005", "secret-5")
		assert.ErrorIs(t, err, domain.ErrEnrollmentInProgress)
		assert.Nil(t, tx)
		accountRepo.AssertNotCalled(t, "DebitIfSufficient", ctx, "10005", int64(100000))
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		enrollmentRepo, courseRepo, txRepo, _, userRepo, accountRepo, _, svc := enrollmentFixtures()

		courseRepo.On("GetByID", ctx, int32(7)).Return(course, nil)
		enrollmentRepo.On("GetActive", ctx, int32(5), int32(7)).Return(nil, domain.ErrEnrollmentNotFound)
		txRepo.On("FindActivePurchase", ctx, int32(5), int32(7)).Return(nil, domain.ErrTransactionNotFound)
		userRepo.On("GetByID", ctx, int32(5)).Return(learner, nil)
		accountRepo.On("GetByNumber", ctx, "10005").Return(&domain.BankAccount{AccountNumber: "10005"}, nil)
		accountRepo.On("GetByNumber", ctx, testPlatformAccount).Return(&domain.BankAccount{AccountNumber: testPlatformAccount}, nil)
		accountRepo.On("DebitIfSufficient", ctx, "10005", int64(100000)).Return(false, nil)

		tx, err := svc.Enroll(ctx, 5, 7, "10005", "secret-5")
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.Nil(t, tx)
		txRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Lost Insert Race Refunds", func(t *testing.T) {
		enrollmentRepo, courseRepo, txRepo, _, userRepo, accountRepo, _, svc := enrollmentFixtures()

		courseRepo.On("GetByID", ctx, int32(7)).Return(course, nil)
		enrollmentRepo.On("GetActive", ctx, int32(5), int32(7)).Return(nil, domain.ErrEnrollmentNotFound)
		txRepo.On("FindActivePurchase", ctx, int32(5), int32(7)).Return(nil, domain.ErrTransactionNotFound)
		userRepo.On("GetByID", ctx, int32(5)).Return(learner, nil)
		accountRepo.On("GetByNumber", ctx, "10005").Return(&domain.BankAccount{AccountNumber: "10005"}, nil)
		accountRepo.On("GetByNumber", ctx, testPlatformAccount).Return(&domain.BankAccount{AccountNumber: testPlatformAccount}, nil)
		accountRepo.On("DebitIfSufficient", ctx, "10005", int64(100000)).Return(true, nil)
		accountRepo.On("Credit", ctx, testPlatformAccount, int64(100000)).Return(nil)
		// A concurrent purchase won the unique index race.
		txRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).Return(domain.ErrEnrollmentInProgress)
		// Compensating refund, platform back to learner.
		accountRepo.On("DebitIfSufficient", ctx, testPlatformAccount, int64(100000)).Return(true, nil)
		accountRepo.On("Credit", ctx, "10005", int64(100000)).Return(nil)

		tx, err := svc.Enroll(ctx, 5, 7, "10005", "secret-5")
		assert.ErrorIs(t, err, domain.ErrEnrollmentInProgress)
		assert.Nil(t, tx)
		accountRepo.AssertCalled(t, "Credit", ctx, "10005", int64(100000))
		enrollmentRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})
}

func TestEnrollmentService_GetCourseContent(t *testing.T) {
	ctx := context.Background()

	t.Run("Pending Enrollment Has No Access", func(t *testing.T) {
		enrollmentRepo, _, _, _, _, _, _, svc := enrollmentFixtures()

		enrollmentRepo.On("GetActive", ctx, int32(5), int32(7)).Return(&domain.Enrollment{ID: 1, Status: domain.EnrollmentStatusPendingApproval}, nil)

		content, err := svc.GetCourseContent(ctx, 5, 7)
		assert.ErrorIs(t, err, domain.ErrNoCourseAccess)
		assert.Nil(t, content)
	})

	t.Run("No Enrollment", func(t *testing.T) {
		enrollmentRepo, _, _, _, _, _, _, svc := enrollmentFixtures()

		enrollmentRepo.On("GetActive", ctx, int32(5), int32(7)).Return(nil, domain.ErrEnrollmentNotFound)

		content, err := svc.GetCourseContent(ctx, 5, 7)
		assert.ErrorIs(t, err, domain.ErrNoCourseAccess)
		assert.Nil(t, content)
	})
}

func TestEnrollmentService_UpdateVideoProgress(t *testing.T) {
	ctx := context.Background()
	course := &domain.Course{
		ID:    7,
		Title: "Go Basics",
		Videos: []domain.Video{
			{ID: 100, CourseID: 7, DurationSeconds: 600},
			{ID: 101, CourseID: 7, DurationSeconds: 400},
		},
	}

	t.Run("Clamps And Recomputes Progress", func(t *testing.T) {
		enrollmentRepo, courseRepo, _, _, _, _, _, svc := enrollmentFixtures()

		enrollment := &domain.Enrollment{ID: 1, LearnerID: 5, CourseID: 7, Status: domain.EnrollmentStatusInProgress}
		enrollmentRepo.On("GetActive", ctx, int32(5), int32(7)).Return(enrollment, nil)
		courseRepo.On("GetByID", ctx, int32(7)).Return(course, nil)
		enrollmentRepo.On("UpsertWatchEntry", ctx, mock.AnythingOfType("*domain.WatchEntry")).Return(nil)
		enrollmentRepo.On("ListWatchEntries", ctx, int32(1)).Return([]domain.WatchEntry{
			{VideoID: 100, LastWatchedSeconds: 600, Completed: true},
		}, nil)
		enrollmentRepo.On("UpdateProgress", ctx, int32(1), int32(60)).Return(nil)

		// Client reports more than the video's length; the stored entry is clamped.
		update, err := svc.UpdateVideoProgress(ctx, 5, 7, 100, 900, false)
		assert.NoError(t, err)
		assert.Equal(t, int32(60), update.ProgressPercent)
		assert.True(t, update.VideoCompleted)
		assert.False(t, update.CourseCompleted)

		entry := enrollmentRepo.Calls[1].Arguments.Get(1).(*domain.WatchEntry)
		assert.Equal(t, int32(600), entry.LastWatchedSeconds)
	})

	t.Run("Threshold Completes Video", func(t *testing.T) {
		enrollmentRepo, courseRepo, _, _, _, _, _, svc := enrollmentFixtures()

		enrollment := &domain.Enrollment{ID: 1, LearnerID: 5, CourseID: 7, Status: domain.EnrollmentStatusInProgress}
		enrollmentRepo.On("GetActive", ctx, int32(5), int32(7)).Return(enrollment, nil)
		courseRepo.On("GetByID", ctx, int32(7)).Return(course, nil)
		enrollmentRepo.On("UpsertWatchEntry", ctx, mock.AnythingOfType("*domain.WatchEntry")).Return(nil)
		enrollmentRepo.On("ListWatchEntries", ctx, int32(1)).Return([]domain.WatchEntry{
			{VideoID: 100, LastWatchedSeconds: 570, Completed: true},
		}, nil)
		enrollmentRepo.On("UpdateProgress", ctx, int32(1), int32(57)).Return(nil)

		// 570 of 600 seconds is 95%, completed without an explicit flag.
		update, err := svc.UpdateVideoProgress(ctx, 5, 7, 100, 570, false)
		assert.NoError(t, err)
		assert.True(t, update.VideoCompleted)
	})

	t.Run("Unknown Video", func(t *testing.T) {
		enrollmentRepo, courseRepo, _, _, _, _, _, svc := enrollmentFixtures()

		enrollment := &domain.Enrollment{ID: 1, LearnerID: 5, CourseID: 7, Status: domain.EnrollmentStatusInProgress}
		enrollmentRepo.On("GetActive", ctx, int32(5), int32(7)).Return(enrollment, nil)
		courseRepo.On("GetByID", ctx, int32(7)).Return(course, nil)

		update, err := svc.UpdateVideoProgress(ctx, 5, 7, 999, 10, false)
		assert.ErrorIs(t, err, domain.ErrVideoNotFound)
		assert.Nil(t, update)
	})

	t.Run("Completing Last Video Issues Certificate Once", func(t *testing.T) {
		enrollmentRepo, courseRepo, txRepo, certRepo, userRepo, _, emailSvc, svc := enrollmentFixtures()

		enrollment := &domain.Enrollment{ID: 1, LearnerID: 5, CourseID: 7, Status: domain.EnrollmentStatusInProgress}
		enrollmentRepo.On("GetActive", ctx, int32(5), int32(7)).Return(enrollment, nil)
		courseRepo.On("GetByID", ctx, int32(7)).Return(course, nil)
		enrollmentRepo.On("UpsertWatchEntry", ctx, mock.AnythingOfType("*domain.WatchEntry")).Return(nil)
		enrollmentRepo.On("ListWatchEntries", ctx, int32(1)).Return([]domain.WatchEntry{
			{VideoID: 100, LastWatchedSeconds: 600, Completed: true},
			{VideoID: 101, LastWatchedSeconds: 400, Completed: true},
		}, nil)
		enrollmentRepo.On("UpdateProgress", ctx, int32(1), int32(100)).Return(nil)
		enrollmentRepo.On("UpdateStatus", ctx, int32(1), domain.EnrollmentStatusCompleted).Return(nil)
		txRepo.On("FindActivePurchase", ctx, int32(5), int32(7)).Return(&domain.Transaction{ID: 3, Status: domain.TransactionStatusValidated}, nil)
		txRepo.On("UpdateStatus", ctx, int32(3), domain.TransactionStatusCompleted).Return(nil)
		certRepo.On("Exists", ctx, int32(5), int32(7)).Return(false, nil)
		certRepo.On("Create", ctx, mock.AnythingOfType("*domain.Certificate")).Return(nil)
		userRepo.On("GetByID", ctx, int32(5)).Return(&domain.User{ID: 5, Email: "lena@test.com"}, nil)
		emailSvc.On("SendCertificateNotification", ctx, "lena@test.com", "Go Basics", mock.AnythingOfType("string")).Return(nil)

		update, err := svc.UpdateVideoProgress(ctx, 5, 7, 101, 400, true)
		assert.NoError(t, err)
		assert.True(t, update.CourseCompleted)
		assert.NotNil(t, update.Certificate)
		assert.NotEmpty(t, update.Certificate.CertificateID)
		certRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("Certificate Not Reissued", func(t *testing.T) {
		enrollmentRepo, courseRepo, txRepo, certRepo, _, _, _, svc := enrollmentFixtures()

		enrollment := &domain.Enrollment{ID: 1, LearnerID: 5, CourseID: 7, Status: domain.EnrollmentStatusInProgress}
		enrollmentRepo.On("GetActive", ctx, int32(5), int32(7)).Return(enrollment, nil)
		courseRepo.On("GetByID", ctx, int32(7)).Return(course, nil)
		enrollmentRepo.On("UpsertWatchEntry", ctx, mock.AnythingOfType("*domain.WatchEntry")).Return(nil)
		enrollmentRepo.On("ListWatchEntries", ctx, int32(1)).Return([]domain.WatchEntry{
			{VideoID: 100, LastWatchedSeconds: 600, Completed: true},
			{VideoID: 101, LastWatchedSeconds: 400, Completed: true},
		}, nil)
		enrollmentRepo.On("UpdateProgress", ctx, int32(1), int32(100)).Return(nil)
		enrollmentRepo.On("UpdateStatus", ctx, int32(1), domain.EnrollmentStatusCompleted).Return(nil)
		txRepo.On("FindActivePurchase", ctx, int32(5), int32(7)).Return(&domain.Transaction{ID: 3, Status: domain.TransactionStatusCompleted}, nil)
		certRepo.On("Exists", ctx, int32(5), int32(7)).Return(true, nil)

		update, err := svc.UpdateVideoProgress(ctx, 5, 7, 101, 400, true)
		assert.NoError(t, err)
		assert.True(t, update.CourseCompleted)
		assert.Nil(t, update.Certificate)
		certRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})
}
