package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (role, user_name, full_name, email, password_hash, bank_account_number, bank_secret, total_earnings_cents, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now().Format("2006-01-02")
	u.CreatedOn = now
	u.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		u.Role, u.UserName, u.FullName, u.Email, u.PasswordHash,
		u.BankAccountNumber, u.BankSecret, u.TotalEarningsCents, now, now,
	).Scan(&u.ID)
}

const userColumns = `id, role, user_name, full_name, email, password_hash,
	COALESCE(bank_account_number, ''), COALESCE(bank_secret, ''), total_earnings_cents, created_on, updated_on`

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var createdOn, updatedOn time.Time
	err := row.Scan(&u.ID, &u.Role, &u.UserName, &u.FullName, &u.Email, &u.PasswordHash,
		&u.BankAccountNumber, &u.BankSecret, &u.TotalEarningsCents, &createdOn, &updatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedOn = createdOn.Format("2006-01-02")
	u.UpdatedOn = updatedOn.Format("2006-01-02")
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET user_name=$1, full_name=$2, email=$3, updated_on=$4 WHERE id=$5`
	now := time.Now().Format("2006-01-02")
	u.UpdatedOn = now
	_, err := r.db.ExecContext(ctx, query, u.UserName, u.FullName, u.Email, now, u.ID)
	return err
}

func (r *userRepository) UpdateBankDetails(ctx context.Context, userID int32, accountNumber, secret string) error {
	query := `UPDATE users SET bank_account_number=$1, bank_secret=$2, updated_on=$3 WHERE id=$4`
	result, err := r.db.ExecContext(ctx, query, accountNumber, secret, time.Now().Format("2006-01-02"), userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) AddEarnings(ctx context.Context, userID int32, deltaCents int64) error {
	query := `UPDATE users SET total_earnings_cents = total_earnings_cents + $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, deltaCents, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) CountByRole(ctx context.Context, role domain.Role) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE role = $1`, role).Scan(&count)
	return count, err
}
