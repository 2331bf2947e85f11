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

type enrollmentRepository struct {
	db *sql.DB
}

func NewEnrollmentRepository(db *sql.DB) repository.EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) error {
	query := `INSERT INTO enrollments (learner_id, course_id, status, progress_percent, enrolled_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	e.EnrolledOn = time.Now()
	err := r.db.QueryRowContext(ctx, query, e.LearnerID, e.CourseID, e.Status, e.ProgressPercent, e.EnrolledOn).Scan(&e.ID)
	if err != nil {
		// Partial unique index: one non-Rejected enrollment per (learner, course).
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyEnrolled
		}
		return err
	}
	return nil
}

const enrollmentColumns = `id, learner_id, course_id, status, progress_percent, enrolled_on`

func (r *enrollmentRepository) GetActive(ctx context.Context, learnerID, courseID int32) (*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments
	          WHERE learner_id = $1 AND course_id = $2 AND status != 'Rejected'
	          ORDER BY enrolled_on LIMIT 1`
	e := &domain.Enrollment{}
	err := r.db.QueryRowContext(ctx, query, learnerID, courseID).Scan(
		&e.ID, &e.LearnerID, &e.CourseID, &e.Status, &e.ProgressPercent, &e.EnrolledOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *enrollmentRepository) ListByLearner(ctx context.Context, learnerID int32) ([]domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE learner_id = $1 ORDER BY enrolled_on`
	return r.queryEnrollments(ctx, query, learnerID)
}

func (r *enrollmentRepository) ListByLearnerAndCourse(ctx context.Context, learnerID, courseID int32) ([]domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE learner_id = $1 AND course_id = $2 ORDER BY enrolled_on`
	return r.queryEnrollments(ctx, query, learnerID, courseID)
}

func (r *enrollmentRepository) queryEnrollments(ctx context.Context, query string, args ...any) ([]domain.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []domain.Enrollment
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(&e.ID, &e.LearnerID, &e.CourseID, &e.Status, &e.ProgressPercent, &e.EnrolledOn); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

func (r *enrollmentRepository) UpdateStatus(ctx context.Context, id int32, status domain.EnrollmentStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE enrollments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrEnrollmentNotFound
	}
	return nil
}

func (r *enrollmentRepository) UpdateProgress(ctx context.Context, id int32, progressPercent int32) error {
	_, err := r.db.ExecContext(ctx, `UPDATE enrollments SET progress_percent = $1 WHERE id = $2`, progressPercent, id)
	return err
}

func (r *enrollmentRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	return err
}

func (r *enrollmentRepository) UpsertWatchEntry(ctx context.Context, entry *domain.WatchEntry) error {
	query := `INSERT INTO watch_entries (enrollment_id, video_id, last_watched_seconds, completed, updated_on)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (enrollment_id, video_id)
	          DO UPDATE SET last_watched_seconds = EXCLUDED.last_watched_seconds,
	                        completed = EXCLUDED.completed,
	                        updated_on = EXCLUDED.updated_on
	          RETURNING id`
	entry.UpdatedOn = time.Now()
	return r.db.QueryRowContext(ctx, query,
		entry.EnrollmentID, entry.VideoID, entry.LastWatchedSeconds, entry.Completed, entry.UpdatedOn,
	).Scan(&entry.ID)
}

func (r *enrollmentRepository) ListWatchEntries(ctx context.Context, enrollmentID int32) ([]domain.WatchEntry, error) {
	query := `SELECT id, enrollment_id, video_id, last_watched_seconds, completed, updated_on
	          FROM watch_entries WHERE enrollment_id = $1 ORDER BY video_id`
	rows, err := r.db.QueryContext(ctx, query, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.WatchEntry
	for rows.Next() {
		var e domain.WatchEntry
		if err := rows.Scan(&e.ID, &e.EnrollmentID, &e.VideoID, &e.LastWatchedSeconds, &e.Completed, &e.UpdatedOn); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
