package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/repository"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateBankDetails(ctx context.Context, userID int32, accountNumber, secret string) error {
	args := m.Called(ctx, userID, accountNumber, secret)
	return args.Error(0)
}
func (m *MockUserRepo) AddEarnings(ctx context.Context, userID int32, deltaCents int64) error {
	args := m.Called(ctx, userID, deltaCents)
	return args.Error(0)
}
func (m *MockUserRepo) CountByRole(ctx context.Context, role domain.Role) (int32, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int32), args.Error(1)
}

// MockBankAccountRepo
type MockBankAccountRepo struct {
	mock.Mock
}

func (m *MockBankAccountRepo) Create(ctx context.Context, account *domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockBankAccountRepo) GetByNumber(ctx context.Context, accountNumber string) (*domain.BankAccount, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}
func (m *MockBankAccountRepo) DebitIfSufficient(ctx context.Context, accountNumber string, amountCents int64) (bool, error) {
	args := m.Called(ctx, accountNumber, amountCents)
	return args.Bool(0), args.Error(1)
}
func (m *MockBankAccountRepo) Credit(ctx context.Context, accountNumber string, amountCents int64) error {
	args := m.Called(ctx, accountNumber, amountCents)
	return args.Error(0)
}
func (m *MockBankAccountRepo) AdjustBalance(ctx context.Context, accountNumber string, deltaCents int64) error {
	args := m.Called(ctx, accountNumber, deltaCents)
	return args.Error(0)
}
func (m *MockBankAccountRepo) List(ctx context.Context) ([]domain.BankAccount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) UpdateStatus(ctx context.Context, id int32, status domain.TransactionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockTransactionRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTransactionRepo) FindActivePurchase(ctx context.Context, learnerID, courseID int32) (*domain.Transaction, error) {
	args := m.Called(ctx, learnerID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListActivePurchases(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListPendingByCourse(ctx context.Context, courseID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) CountPurchasesByCourse(ctx context.Context, courseID int32, statuses []domain.TransactionStatus) (int32, error) {
	args := m.Called(ctx, courseID, statuses)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockTransactionRepo) CountActivePurchases(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockTransactionRepo) SumActivePurchaseAmounts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockTransactionRepo) MonthlyRevenueSince(ctx context.Context, since time.Time) ([]repository.MonthlyRevenue, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]repository.MonthlyRevenue), args.Error(1)
}

// MockCourseRepo
type MockCourseRepo struct {
	mock.Mock
}

func (m *MockCourseRepo) Create(ctx context.Context, course *domain.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}
func (m *MockCourseRepo) GetByID(ctx context.Context, id int32) (*domain.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}
func (m *MockCourseRepo) List(ctx context.Context) ([]domain.Course, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Course), args.Error(1)
}
func (m *MockCourseRepo) ListByInstructor(ctx context.Context, instructorID int32) ([]domain.Course, error) {
	args := m.Called(ctx, instructorID)
	return args.Get(0).([]domain.Course), args.Error(1)
}
func (m *MockCourseRepo) Count(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockCourseRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCourseRepo) AddVideos(ctx context.Context, courseID int32, videos []domain.Video) error {
	args := m.Called(ctx, courseID, videos)
	return args.Error(0)
}
func (m *MockCourseRepo) AddResources(ctx context.Context, courseID int32, resources []domain.Resource) error {
	args := m.Called(ctx, courseID, resources)
	return args.Error(0)
}
func (m *MockCourseRepo) DeleteResource(ctx context.Context, courseID, resourceID int32) error {
	args := m.Called(ctx, courseID, resourceID)
	return args.Error(0)
}

// MockEnrollmentRepo
type MockEnrollmentRepo struct {
	mock.Mock
}

func (m *MockEnrollmentRepo) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}
func (m *MockEnrollmentRepo) GetActive(ctx context.Context, learnerID, courseID int32) (*domain.Enrollment, error) {
	args := m.Called(ctx, learnerID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Enrollment), args.Error(1)
}
func (m *MockEnrollmentRepo) ListByLearner(ctx context.Context, learnerID int32) ([]domain.Enrollment, error) {
	args := m.Called(ctx, learnerID)
	return args.Get(0).([]domain.Enrollment), args.Error(1)
}
func (m *MockEnrollmentRepo) ListByLearnerAndCourse(ctx context.Context, learnerID, courseID int32) ([]domain.Enrollment, error) {
	args := m.Called(ctx, learnerID, courseID)
	return args.Get(0).([]domain.Enrollment), args.Error(1)
}
func (m *MockEnrollmentRepo) UpdateStatus(ctx context.Context, id int32, status domain.EnrollmentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockEnrollmentRepo) UpdateProgress(ctx context.Context, id int32, progressPercent int32) error {
	args := m.Called(ctx, id, progressPercent)
	return args.Error(0)
}
func (m *MockEnrollmentRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockEnrollmentRepo) UpsertWatchEntry(ctx context.Context, entry *domain.WatchEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockEnrollmentRepo) ListWatchEntries(ctx context.Context, enrollmentID int32) ([]domain.WatchEntry, error) {
	args := m.Called(ctx, enrollmentID)
	return args.Get(0).([]domain.WatchEntry), args.Error(1)
}

// MockCertificateRepo
type MockCertificateRepo struct {
	mock.Mock
}

func (m *MockCertificateRepo) Create(ctx context.Context, cert *domain.Certificate) error {
	args := m.Called(ctx, cert)
	return args.Error(0)
}
func (m *MockCertificateRepo) Exists(ctx context.Context, learnerID, courseID int32) (bool, error) {
	args := m.Called(ctx, learnerID, courseID)
	return args.Bool(0), args.Error(1)
}
func (m *MockCertificateRepo) ListByLearner(ctx context.Context, learnerID int32) ([]domain.Certificate, error) {
	args := m.Called(ctx, learnerID)
	return args.Get(0).([]domain.Certificate), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendEnrollmentRequestNotification(ctx context.Context, instructorEmail, learnerName, courseTitle string) error {
	args := m.Called(ctx, instructorEmail, learnerName, courseTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendEnrollmentDecisionNotification(ctx context.Context, learnerEmail, courseTitle string, approved bool) error {
	args := m.Called(ctx, learnerEmail, courseTitle, approved)
	return args.Error(0)
}
func (m *MockEmailService) SendCertificateNotification(ctx context.Context, learnerEmail, courseTitle, certificateID string) error {
	args := m.Called(ctx, learnerEmail, courseTitle, certificateID)
	return args.Error(0)
}
