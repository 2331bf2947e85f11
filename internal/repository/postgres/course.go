package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/repository"
)

type courseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) repository.CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, c *domain.Course) error {
	query := `INSERT INTO courses (title, description, price_cents, lump_sum_cents, instructor_id, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now().Format("2006-01-02")
	c.CreatedOn = now
	c.UpdatedOn = now
	err := r.db.QueryRowContext(ctx, query,
		c.Title, c.Description, c.PriceCents, c.LumpSumCents, c.InstructorID, now, now,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}

	if err := r.insertVideos(ctx, c.ID, c.Videos); err != nil {
		return err
	}
	return r.insertResources(ctx, c.ID, c.Resources)
}

func (r *courseRepository) insertVideos(ctx context.Context, courseID int32, videos []domain.Video) error {
	query := `INSERT INTO course_videos (course_id, title, url, duration_seconds, position)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	for i := range videos {
		v := &videos[i]
		v.CourseID = courseID
		if err := r.db.QueryRowContext(ctx, query, courseID, v.Title, v.URL, v.DurationSeconds, v.Position).Scan(&v.ID); err != nil {
			return fmt.Errorf("failed to insert video: %w", err)
		}
	}
	return nil
}

func (r *courseRepository) insertResources(ctx context.Context, courseID int32, resources []domain.Resource) error {
	query := `INSERT INTO course_resources (course_id, title, media_type, url, position)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	for i := range resources {
		res := &resources[i]
		res.CourseID = courseID
		if err := r.db.QueryRowContext(ctx, query, courseID, res.Title, res.MediaType, res.URL, res.Position).Scan(&res.ID); err != nil {
			return fmt.Errorf("failed to insert resource: %w", err)
		}
	}
	return nil
}

const courseColumns = `id, title, description, price_cents, lump_sum_cents, instructor_id, created_on, updated_on`

func (r *courseRepository) GetByID(ctx context.Context, id int32) (*domain.Course, error) {
	c := &domain.Course{}
	var createdOn, updatedOn time.Time
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Description, &c.PriceCents, &c.LumpSumCents, &c.InstructorID, &createdOn, &updatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	c.CreatedOn = createdOn.Format("2006-01-02")
	c.UpdatedOn = updatedOn.Format("2006-01-02")

	if c.Videos, err = r.listVideos(ctx, id); err != nil {
		return nil, err
	}
	if c.Resources, err = r.listResources(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *courseRepository) listVideos(ctx context.Context, courseID int32) ([]domain.Video, error) {
	query := `SELECT id, course_id, title, url, duration_seconds, position FROM course_videos WHERE course_id = $1 ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []domain.Video
	for rows.Next() {
		var v domain.Video
		if err := rows.Scan(&v.ID, &v.CourseID, &v.Title, &v.URL, &v.DurationSeconds, &v.Position); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *courseRepository) listResources(ctx context.Context, courseID int32) ([]domain.Resource, error) {
	query := `SELECT id, course_id, title, media_type, COALESCE(url, ''), position FROM course_resources WHERE course_id = $1 ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		var res domain.Resource
		if err := rows.Scan(&res.ID, &res.CourseID, &res.Title, &res.MediaType, &res.URL, &res.Position); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *courseRepository) List(ctx context.Context) ([]domain.Course, error) {
	return r.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY id`)
}

func (r *courseRepository) ListByInstructor(ctx context.Context, instructorID int32) ([]domain.Course, error) {
	return r.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses WHERE instructor_id = $1 ORDER BY id`, instructorID)
}

func (r *courseRepository) queryCourses(ctx context.Context, query string, args ...any) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var c domain.Course
		var createdOn, updatedOn time.Time
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.PriceCents, &c.LumpSumCents, &c.InstructorID, &createdOn, &updatedOn); err != nil {
			return nil, err
		}
		c.CreatedOn = createdOn.Format("2006-01-02")
		c.UpdatedOn = updatedOn.Format("2006-01-02")
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range courses {
		if courses[i].Videos, err = r.listVideos(ctx, courses[i].ID); err != nil {
			return nil, err
		}
		if courses[i].Resources, err = r.listResources(ctx, courses[i].ID); err != nil {
			return nil, err
		}
	}
	return courses, nil
}

func (r *courseRepository) Count(ctx context.Context) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM courses`).Scan(&count)
	return count, err
}

func (r *courseRepository) Delete(ctx context.Context, id int32) error {
	// Videos and resources cascade via foreign keys.
	_, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}

func (r *courseRepository) AddVideos(ctx context.Context, courseID int32, videos []domain.Video) error {
	return r.insertVideos(ctx, courseID, videos)
}

func (r *courseRepository) AddResources(ctx context.Context, courseID int32, resources []domain.Resource) error {
	return r.insertResources(ctx, courseID, resources)
}

func (r *courseRepository) DeleteResource(ctx context.Context, courseID, resourceID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM course_resources WHERE id = $1 AND course_id = $2`, resourceID, courseID)
	return err
}
