package repository

import (
	"context"
	"time"

	"learnledger-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateBankDetails(ctx context.Context, userID int32, accountNumber, secret string) error
	// AddEarnings adjusts the cumulative earnings counter by delta cents
	// (negative for reconciliation clawbacks).
	AddEarnings(ctx context.Context, userID int32, deltaCents int64) error
	CountByRole(ctx context.Context, role domain.Role) (int32, error)
}

type BankAccountRepository interface {
	Create(ctx context.Context, account *domain.BankAccount) error
	GetByNumber(ctx context.Context, accountNumber string) (*domain.BankAccount, error)
	// DebitIfSufficient atomically decrements the balance when it covers
	// amountCents, reporting whether the debit was applied.
	DebitIfSufficient(ctx context.Context, accountNumber string, amountCents int64) (bool, error)
	Credit(ctx context.Context, accountNumber string, amountCents int64) error
	// AdjustBalance applies an unconditional delta. Reserved for the
	// reconciliation procedure, which may legitimately push an account
	// negative while unwinding duplicate payouts.
	AdjustBalance(ctx context.Context, accountNumber string, deltaCents int64) error
	List(ctx context.Context) ([]domain.BankAccount, error)
}

// MonthlyRevenue is one month's purchase volume for the admin dashboard.
type MonthlyRevenue struct {
	Year        int
	Month       time.Month
	AmountCents int64
	Enrollments int32
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id int32) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, id int32, status domain.TransactionStatus) error
	Delete(ctx context.Context, id int32) error
	// FindActivePurchase returns the active (non-rejected) PURCHASE
	// transaction for a (learner, course) pair, or ErrTransactionNotFound.
	FindActivePurchase(ctx context.Context, learnerID, courseID int32) (*domain.Transaction, error)
	// ListActivePurchases returns all active PURCHASE transactions ordered
	// by payer, course, and creation time, for reconciliation sweeps.
	ListActivePurchases(ctx context.Context) ([]domain.Transaction, error)
	ListPendingByCourse(ctx context.Context, courseID int32) ([]domain.Transaction, error)
	CountPurchasesByCourse(ctx context.Context, courseID int32, statuses []domain.TransactionStatus) (int32, error)
	CountActivePurchases(ctx context.Context) (int32, error)
	SumActivePurchaseAmounts(ctx context.Context) (int64, error)
	MonthlyRevenueSince(ctx context.Context, since time.Time) ([]MonthlyRevenue, error)
}

type CourseRepository interface {
	// Create persists the course together with its videos and resources.
	Create(ctx context.Context, course *domain.Course) error
	GetByID(ctx context.Context, id int32) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	ListByInstructor(ctx context.Context, instructorID int32) ([]domain.Course, error)
	Count(ctx context.Context) (int32, error)
	Delete(ctx context.Context, id int32) error
	AddVideos(ctx context.Context, courseID int32, videos []domain.Video) error
	AddResources(ctx context.Context, courseID int32, resources []domain.Resource) error
	DeleteResource(ctx context.Context, courseID, resourceID int32) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *domain.Enrollment) error
	// GetActive returns the non-Rejected enrollment for a (learner, course)
	// pair, or ErrEnrollmentNotFound.
	GetActive(ctx context.Context, learnerID, courseID int32) (*domain.Enrollment, error)
	ListByLearner(ctx context.Context, learnerID int32) ([]domain.Enrollment, error)
	ListByLearnerAndCourse(ctx context.Context, learnerID, courseID int32) ([]domain.Enrollment, error)
	UpdateStatus(ctx context.Context, id int32, status domain.EnrollmentStatus) error
	UpdateProgress(ctx context.Context, id int32, progressPercent int32) error
	Delete(ctx context.Context, id int32) error
	UpsertWatchEntry(ctx context.Context, entry *domain.WatchEntry) error
	ListWatchEntries(ctx context.Context, enrollmentID int32) ([]domain.WatchEntry, error)
}

type CertificateRepository interface {
	Create(ctx context.Context, cert *domain.Certificate) error
	Exists(ctx context.Context, learnerID, courseID int32) (bool, error)
	ListByLearner(ctx context.Context, learnerID int32) ([]domain.Certificate, error)
}
