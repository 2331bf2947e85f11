package service

import (
	"context"

	"learnledger-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, role domain.Role, userName, fullName, email, password string) (*domain.User, string, error) // user, access token
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, userName, fullName, email string) (*domain.User, error)
	// UpdateBankDetails links a ledger account to the user profile after
	// verifying the account's secret.
	UpdateBankDetails(ctx context.Context, userID int32, accountNumber, secret string) error
}

type BankService interface {
	PlatformAccountNumber() string
	GetBalance(ctx context.Context, userID int32) (int64, error)
	// Transfer moves amountCents between ledger accounts. The debit is an
	// atomic conditional decrement, so two concurrent transfers can never
	// overdraw the source account.
	Transfer(ctx context.Context, fromAccount, toAccount string, amountCents int64) error
	// PurchaseTransfer verifies the supplied credentials against the
	// learner's linked account before moving the money to the platform.
	PurchaseTransfer(ctx context.Context, learnerID int32, accountNumber, secret string, amountCents int64) error
	// PayoutTransfer moves platform money to the instructor's account and
	// bumps the instructor's cumulative earnings.
	PayoutTransfer(ctx context.Context, instructorID int32, amountCents int64) error
}

type CourseService interface {
	CreateCourse(ctx context.Context, instructorID int32, course *domain.Course) (*domain.Course, error)
	GetCourse(ctx context.Context, courseID int32) (*domain.Course, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
	AddVideos(ctx context.Context, instructorID, courseID int32, videos []domain.Video) (*domain.Course, error)
	AddResources(ctx context.Context, instructorID, courseID int32, resources []domain.Resource) (*domain.Course, error)
	DeleteResource(ctx context.Context, instructorID, courseID, resourceID int32) error
}

type EnrollmentService interface {
	ListBuyableCourses(ctx context.Context, learnerID int32) ([]domain.BuyableCourse, error)
	Enroll(ctx context.Context, learnerID, courseID int32, accountNumber, secret string) (*domain.Transaction, error)
	ListMyCourses(ctx context.Context, learnerID int32) ([]domain.EnrolledCourse, error)
	GetCourseContent(ctx context.Context, learnerID, courseID int32) (*domain.CourseContent, error)
	UpdateVideoProgress(ctx context.Context, learnerID, courseID, videoID, watchedSeconds int32, completed bool) (*domain.ProgressUpdate, error)
	ListCertificates(ctx context.Context, learnerID int32) ([]domain.Certificate, error)
}

type InstructorService interface {
	CoursesWithStats(ctx context.Context, instructorID int32) ([]domain.CourseStats, error)
	PendingApprovals(ctx context.Context, instructorID int32) ([]domain.PendingEnrollment, error)
	ApproveEnrollment(ctx context.Context, instructorID, transactionID int32) error
	RejectEnrollment(ctx context.Context, instructorID, transactionID int32) error
	EarningsChart(ctx context.Context, instructorID int32) ([]domain.EarningsPoint, error)
}

type AdminService interface {
	PlatformStats(ctx context.Context) (*domain.PlatformStats, error)
}

type ReconciliationService interface {
	// ReconcileDuplicatePurchases sweeps the ledger for duplicate active
	// purchases of the same course by the same learner and unwinds all but
	// the earliest. Safe to run repeatedly.
	ReconcileDuplicatePurchases(ctx context.Context) (*domain.ReconciliationReport, error)
}

type EmailService interface {
	SendEnrollmentRequestNotification(ctx context.Context, instructorEmail, learnerName, courseTitle string) error
	SendEnrollmentDecisionNotification(ctx context.Context, learnerEmail, courseTitle string, approved bool) error
	SendCertificateNotification(ctx context.Context, learnerEmail, courseTitle, certificateID string) error
}
