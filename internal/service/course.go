package service

import (
	"context"
	"fmt"
	"time"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/logger"
	"learnledger-backend/internal/repository"
)

type courseService struct {
	courseRepo repository.CourseRepository
	userRepo   repository.UserRepository
	txRepo     repository.TransactionRepository
	bank       BankService
	maxCourses int
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	txRepo repository.TransactionRepository,
	bank BankService,
	maxCourses int,
) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		userRepo:   userRepo,
		txRepo:     txRepo,
		bank:       bank,
		maxCourses: maxCourses,
	}
}

// CreateCourse publishes a course and pays the instructor the one-time lump
// sum out of the platform account. If the payout fails the course row is
// removed again so publication and payment succeed or fail together.
func (s *courseService) CreateCourse(ctx context.Context, instructorID int32, course *domain.Course) (*domain.Course, error) {
	instructor, err := s.userRepo.GetByID(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	if instructor.Role != domain.RoleInstructor {
		return nil, domain.ErrNotAuthorized
	}

	if s.maxCourses > 0 {
		count, err := s.courseRepo.Count(ctx)
		if err != nil {
			return nil, err
		}
		if int(count) >= s.maxCourses {
			return nil, domain.ErrCourseLimitReached
		}
	}

	if course.PriceCents < 0 || course.LumpSumCents < 0 {
		return nil, domain.ErrInvalidAmount
	}
	if course.LumpSumCents == 0 {
		course.LumpSumCents = domain.DefaultLumpSumCents(course.PriceCents)
	}
	course.InstructorID = instructorID

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	if course.LumpSumCents > 0 {
		if err := s.bank.PayoutTransfer(ctx, instructorID, course.LumpSumCents); err != nil {
			if deleteErr := s.courseRepo.Delete(ctx, course.ID); deleteErr != nil {
				logger.Error("failed to remove course after lump sum payout failure",
					"course_id", course.ID, "error", deleteErr)
			}
			return nil, fmt.Errorf("lump sum payout failed: %w", err)
		}

		tx := &domain.Transaction{
			Type:              domain.TransactionTypeLumpSum,
			AmountCents:       course.LumpSumCents,
			ToUserID:          &instructorID,
			FromAccountNumber: s.bank.PlatformAccountNumber(),
			ToAccountNumber:   instructor.BankAccountNumber,
			Status:            domain.TransactionStatusCompleted,
			CourseID:          course.ID,
			CreatedOn:         time.Now(),
		}
		if err := s.txRepo.Create(ctx, tx); err != nil {
			// Unwind the payout and the course so the ledger stays explainable.
			if revertErr := s.bank.Transfer(ctx, instructor.BankAccountNumber, s.bank.PlatformAccountNumber(), course.LumpSumCents); revertErr != nil {
				logger.Error("failed to revert lump sum after transaction record failure",
					"course_id", course.ID, "error", revertErr)
			} else if earnErr := s.userRepo.AddEarnings(ctx, instructorID, -course.LumpSumCents); earnErr != nil {
				logger.Error("failed to revert instructor earnings",
					"instructor_id", instructorID, "error", earnErr)
			}
			if deleteErr := s.courseRepo.Delete(ctx, course.ID); deleteErr != nil {
				logger.Error("failed to remove course after transaction record failure",
					"course_id", course.ID, "error", deleteErr)
			}
			return nil, fmt.Errorf("failed to record lump sum transaction: %w", err)
		}
	}

	logger.Info("course published",
		"course_id", course.ID,
		"instructor_id", instructorID,
		"price_cents", course.PriceCents,
		"lump_sum_cents", course.LumpSumCents)
	return course, nil
}

func (s *courseService) GetCourse(ctx context.Context, courseID int32) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if instructor, err := s.userRepo.GetByID(ctx, course.InstructorID); err == nil {
		course.Instructor = instructor
	}
	return course, nil
}

func (s *courseService) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return s.courseRepo.List(ctx)
}

func (s *courseService) AddVideos(ctx context.Context, instructorID, courseID int32, videos []domain.Video) (*domain.Course, error) {
	if err := s.requireOwnership(ctx, instructorID, courseID); err != nil {
		return nil, err
	}
	if err := s.courseRepo.AddVideos(ctx, courseID, videos); err != nil {
		return nil, fmt.Errorf("failed to add videos: %w", err)
	}
	return s.courseRepo.GetByID(ctx, courseID)
}

func (s *courseService) AddResources(ctx context.Context, instructorID, courseID int32, resources []domain.Resource) (*domain.Course, error) {
	if err := s.requireOwnership(ctx, instructorID, courseID); err != nil {
		return nil, err
	}
	if err := s.courseRepo.AddResources(ctx, courseID, resources); err != nil {
		return nil, fmt.Errorf("failed to add resources: %w", err)
	}
	return s.courseRepo.GetByID(ctx, courseID)
}

func (s *courseService) DeleteResource(ctx context.Context, instructorID, courseID, resourceID int32) error {
	if err := s.requireOwnership(ctx, instructorID, courseID); err != nil {
		return err
	}
	return s.courseRepo.DeleteResource(ctx, courseID, resourceID)
}

func (s *courseService) requireOwnership(ctx context.Context, instructorID, courseID int32) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.InstructorID != instructorID {
		return domain.ErrNotAuthorized
	}
	return nil
}
