package postgres

import (
	"context"
	"database/sql"
	"time"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/repository"
)

type certificateRepository struct {
	db *sql.DB
}

func NewCertificateRepository(db *sql.DB) repository.CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) Create(ctx context.Context, cert *domain.Certificate) error {
	query := `INSERT INTO certificates (certificate_id, learner_id, course_id, issued_on)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	cert.IssuedOn = time.Now()
	return r.db.QueryRowContext(ctx, query, cert.CertificateID, cert.LearnerID, cert.CourseID, cert.IssuedOn).Scan(&cert.ID)
}

func (r *certificateRepository) Exists(ctx context.Context, learnerID, courseID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM certificates WHERE learner_id = $1 AND course_id = $2)`
	err := r.db.QueryRowContext(ctx, query, learnerID, courseID).Scan(&exists)
	return exists, err
}

func (r *certificateRepository) ListByLearner(ctx context.Context, learnerID int32) ([]domain.Certificate, error) {
	query := `SELECT id, certificate_id, learner_id, course_id, issued_on FROM certificates WHERE learner_id = $1 ORDER BY issued_on`
	rows, err := r.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var certs []domain.Certificate
	for rows.Next() {
		var c domain.Certificate
		if err := rows.Scan(&c.ID, &c.CertificateID, &c.LearnerID, &c.CourseID, &c.IssuedOn); err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}
