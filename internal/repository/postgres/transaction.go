package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/repository"

	"github.com/lib/pq"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

const uniqueViolation = "23505"

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `INSERT INTO transactions (type, amount_cents, from_user_id, to_user_id, from_account_number, to_account_number, status, course_id, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	tx.CreatedOn = time.Now()
	err := r.db.QueryRowContext(ctx, query,
		tx.Type, tx.AmountCents, tx.FromUserID, tx.ToUserID,
		tx.FromAccountNumber, tx.ToAccountNumber, tx.Status, tx.CourseID, tx.CreatedOn,
	).Scan(&tx.ID)
	if err != nil {
		// The partial unique index on active purchases rejects the second
		// concurrent purchase for the same (learner, course) pair.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrEnrollmentInProgress
		}
		return err
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	query := `SELECT id, type, amount_cents, from_user_id, to_user_id, from_account_number, to_account_number, status, course_id, created_on
	          FROM transactions WHERE id = $1`
	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, err
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id int32, status domain.TransactionStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE transactions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	return err
}

func (r *transactionRepository) FindActivePurchase(ctx context.Context, learnerID, courseID int32) (*domain.Transaction, error) {
	query := `SELECT id, type, amount_cents, from_user_id, to_user_id, from_account_number, to_account_number, status, course_id, created_on
	          FROM transactions
	          WHERE from_user_id = $1 AND course_id = $2 AND type = 'PURCHASE'
	            AND status IN ('PENDING_APPROVAL', 'VALIDATED', 'COMPLETED')
	          ORDER BY created_on LIMIT 1`
	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, learnerID, courseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, err
}

func (r *transactionRepository) ListActivePurchases(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT id, type, amount_cents, from_user_id, to_user_id, from_account_number, to_account_number, status, course_id, created_on
	          FROM transactions
	          WHERE type = 'PURCHASE' AND status IN ('PENDING_APPROVAL', 'VALIDATED', 'COMPLETED')
	          ORDER BY from_user_id, course_id, created_on`
	return r.queryTransactions(ctx, query)
}

func (r *transactionRepository) ListPendingByCourse(ctx context.Context, courseID int32) ([]domain.Transaction, error) {
	query := `SELECT id, type, amount_cents, from_user_id, to_user_id, from_account_number, to_account_number, status, course_id, created_on
	          FROM transactions
	          WHERE course_id = $1 AND type = 'PURCHASE' AND status = 'PENDING_APPROVAL'
	          ORDER BY created_on`
	return r.queryTransactions(ctx, query, courseID)
}

func (r *transactionRepository) CountPurchasesByCourse(ctx context.Context, courseID int32, statuses []domain.TransactionStatus) (int32, error) {
	query := `SELECT count(*) FROM transactions WHERE course_id = $1 AND type = 'PURCHASE' AND status = ANY($2)`
	var count int32
	err := r.db.QueryRowContext(ctx, query, courseID, pq.Array(statusStrings(statuses))).Scan(&count)
	return count, err
}

func (r *transactionRepository) CountActivePurchases(ctx context.Context) (int32, error) {
	query := `SELECT count(*) FROM transactions t
	          WHERE t.type = 'PURCHASE' AND t.status IN ('PENDING_APPROVAL', 'VALIDATED', 'COMPLETED')
	            AND EXISTS (SELECT 1 FROM courses c WHERE c.id = t.course_id)`
	var count int32
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}

func (r *transactionRepository) SumActivePurchaseAmounts(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(SUM(t.amount_cents), 0) FROM transactions t
	          WHERE t.type = 'PURCHASE' AND t.status IN ('PENDING_APPROVAL', 'VALIDATED', 'COMPLETED')
	            AND EXISTS (SELECT 1 FROM courses c WHERE c.id = t.course_id)`
	var total int64
	err := r.db.QueryRowContext(ctx, query).Scan(&total)
	return total, err
}

func (r *transactionRepository) MonthlyRevenueSince(ctx context.Context, since time.Time) ([]repository.MonthlyRevenue, error) {
	query := `SELECT EXTRACT(YEAR FROM t.created_on)::int, EXTRACT(MONTH FROM t.created_on)::int,
	                 COALESCE(SUM(t.amount_cents), 0), count(*)
	          FROM transactions t
	          WHERE t.type = 'PURCHASE' AND t.status IN ('PENDING_APPROVAL', 'VALIDATED', 'COMPLETED')
	            AND t.created_on >= $1
	            AND EXISTS (SELECT 1 FROM courses c WHERE c.id = t.course_id)
	          GROUP BY 1, 2
	          ORDER BY 1, 2`
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []repository.MonthlyRevenue
	for rows.Next() {
		var mr repository.MonthlyRevenue
		var month int
		if err := rows.Scan(&mr.Year, &month, &mr.AmountCents, &mr.Enrollments); err != nil {
			return nil, err
		}
		mr.Month = time.Month(month)
		result = append(result, mr)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	tx := &domain.Transaction{}
	err := row.Scan(&tx.ID, &tx.Type, &tx.AmountCents, &tx.FromUserID, &tx.ToUserID,
		&tx.FromAccountNumber, &tx.ToAccountNumber, &tx.Status, &tx.CourseID, &tx.CreatedOn)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *transactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}
	return txs, rows.Err()
}

func statusStrings(statuses []domain.TransactionStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
