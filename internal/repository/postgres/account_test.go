package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"learnledger-backend/internal/domain"
)

func TestBankAccountRepository_DebitIfSufficient(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBankAccountRepository(db)
	ctx := context.Background()

	t.Run("Applies When Balance Covers", func(t *testing.T) {
		mock.ExpectExec("UPDATE bank_accounts SET balance_cents = balance_cents - ").
			WithArgs(int64(100000), "10005").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.DebitIfSufficient(ctx, "10005", 100000)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Declines When Balance Short", func(t *testing.T) {
		// The WHERE clause checks the balance in the same statement, so a
		// short balance simply matches no rows.
		mock.ExpectExec("UPDATE bank_accounts SET balance_cents = balance_cents - ").
			WithArgs(int64(100000), "10005").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.DebitIfSufficient(ctx, "10005", 100000)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestBankAccountRepository_Credit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBankAccountRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE bank_accounts SET balance_cents = balance_cents \\+ ").
			WithArgs(int64(80000), "10002").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Credit(ctx, "10002", 80000))
	})

	t.Run("Unknown Account", func(t *testing.T) {
		mock.ExpectExec("UPDATE bank_accounts SET balance_cents = balance_cents \\+ ").
			WithArgs(int64(80000), "99999").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Credit(ctx, "99999", 80000), domain.ErrAccountNotFound)
	})
}

func TestBankAccountRepository_GetByNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBankAccountRepository(db)
	ctx := context.Background()

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT account_number, balance_cents, secret_key").
			WithArgs("99999").
			WillReturnRows(sqlmock.NewRows([]string{"account_number", "balance_cents", "secret_key", "bank_name", "created_on"}))

		account, err := repo.GetByNumber(ctx, "99999")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.Nil(t, account)
	})
}
