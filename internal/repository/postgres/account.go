package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/repository"
)

type bankAccountRepository struct {
	db *sql.DB
}

func NewBankAccountRepository(db *sql.DB) repository.BankAccountRepository {
	return &bankAccountRepository{db: db}
}

func (r *bankAccountRepository) Create(ctx context.Context, a *domain.BankAccount) error {
	query := `INSERT INTO bank_accounts (account_number, balance_cents, secret_key, bank_name, created_on)
	          VALUES ($1, $2, $3, $4, $5)`
	now := time.Now().Format("2006-01-02")
	a.CreatedOn = now
	_, err := r.db.ExecContext(ctx, query, a.AccountNumber, a.BalanceCents, a.SecretKey, a.BankName, now)
	return err
}

func (r *bankAccountRepository) GetByNumber(ctx context.Context, accountNumber string) (*domain.BankAccount, error) {
	a := &domain.BankAccount{}
	query := `SELECT account_number, balance_cents, secret_key, COALESCE(bank_name, ''), created_on FROM bank_accounts WHERE account_number = $1`
	var createdOn time.Time
	err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(&a.AccountNumber, &a.BalanceCents, &a.SecretKey, &a.BankName, &createdOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	a.CreatedOn = createdOn.Format("2006-01-02")
	return a, nil
}

// DebitIfSufficient is the atomic conditional decrement that closes the
// read-check-write race on shared balances: the balance check and the debit
// happen in a single statement.
func (r *bankAccountRepository) DebitIfSufficient(ctx context.Context, accountNumber string, amountCents int64) (bool, error) {
	query := `UPDATE bank_accounts SET balance_cents = balance_cents - $1 WHERE account_number = $2 AND balance_cents >= $1`
	result, err := r.db.ExecContext(ctx, query, amountCents, accountNumber)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *bankAccountRepository) Credit(ctx context.Context, accountNumber string, amountCents int64) error {
	query := `UPDATE bank_accounts SET balance_cents = balance_cents + $1 WHERE account_number = $2`
	result, err := r.db.ExecContext(ctx, query, amountCents, accountNumber)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *bankAccountRepository) AdjustBalance(ctx context.Context, accountNumber string, deltaCents int64) error {
	query := `UPDATE bank_accounts SET balance_cents = balance_cents + $1 WHERE account_number = $2`
	result, err := r.db.ExecContext(ctx, query, deltaCents, accountNumber)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *bankAccountRepository) List(ctx context.Context) ([]domain.BankAccount, error) {
	query := `SELECT account_number, balance_cents, secret_key, COALESCE(bank_name, ''), created_on FROM bank_accounts ORDER BY account_number`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.BankAccount
	for rows.Next() {
		var a domain.BankAccount
		var createdOn time.Time
		if err := rows.Scan(&a.AccountNumber, &a.BalanceCents, &a.SecretKey, &a.BankName, &createdOn); err != nil {
			return nil, err
		}
		a.CreatedOn = createdOn.Format("2006-01-02")
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
