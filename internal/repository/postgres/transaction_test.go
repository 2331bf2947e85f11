package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"learnledger-backend/internal/domain"
)

func TestTransactionRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewTransactionRepository(db)
	ctx := context.Background()
	learnerID := int32(5)

	t.Run("Success", func(t *testing.T) {
		tx := &domain.Transaction{
			Type:              domain.TransactionTypePurchase,
			AmountCents:       100000,
			FromUserID:        &learnerID,
			FromAccountNumber: "10005",
			ToAccountNumber:   "10001",
			Status:            domain.TransactionStatusPendingApproval,
			CourseID:          7,
		}

		mock.ExpectQuery("INSERT INTO transactions").
			WithArgs(tx.Type, tx.AmountCents, tx.FromUserID, tx.ToUserID,
				tx.FromAccountNumber, tx.ToAccountNumber, tx.Status, tx.CourseID, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

		err := repo.Create(ctx, tx)
		assert.NoError(t, err)
		assert.Equal(t, int32(3), tx.ID)
	})

	t.Run("Unique Violation Maps To Domain Error", func(t *testing.T) {
		tx := &domain.Transaction{
			Type:              domain.TransactionTypePurchase,
			AmountCents:       100000,
			FromUserID:        &learnerID,
			FromAccountNumber: "10005",
			ToAccountNumber:   "10001",
			Status:            domain.TransactionStatusPendingApproval,
			CourseID:          7,
		}

		// Second concurrent purchase for the same (learner, course) pair
		// hits the partial unique index.
		mock.ExpectQuery("INSERT INTO transactions").
			WithArgs(tx.Type, tx.AmountCents, tx.FromUserID, tx.ToUserID,
				tx.FromAccountNumber, tx.ToAccountNumber, tx.Status, tx.CourseID, sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "one_active_purchase_per_learner_course"})

		err := repo.Create(ctx, tx)
		assert.ErrorIs(t, err, domain.ErrEnrollmentInProgress)
	})
}

func TestTransactionRepository_FindActivePurchase(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewTransactionRepository(db)
	ctx := context.Background()

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, type, amount_cents").
			WithArgs(int32(5), int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		tx, err := repo.FindActivePurchase(ctx, 5, 7)
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
		assert.Nil(t, tx)
	})
}

func TestEnrollmentRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	t.Run("Unique Violation Maps To Domain Error", func(t *testing.T) {
		e := &domain.Enrollment{LearnerID: 5, CourseID: 7, Status: domain.EnrollmentStatusPendingApproval}

		mock.ExpectQuery("INSERT INTO enrollments").
			WithArgs(e.LearnerID, e.CourseID, e.Status, e.ProgressPercent, sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "one_active_enrollment_per_learner_course"})

		err := repo.Create(ctx, e)
		assert.ErrorIs(t, err, domain.ErrAlreadyEnrolled)
	})
}
