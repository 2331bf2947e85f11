package service

import (
	"context"
	"time"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/repository"
)

type adminService struct {
	userRepo        repository.UserRepository
	courseRepo      repository.CourseRepository
	txRepo          repository.TransactionRepository
	accountRepo     repository.BankAccountRepository
	platformAccount string
}

func NewAdminService(
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	txRepo repository.TransactionRepository,
	accountRepo repository.BankAccountRepository,
	platformAccount string,
) AdminService {
	return &adminService{
		userRepo:        userRepo,
		courseRepo:      courseRepo,
		txRepo:          txRepo,
		accountRepo:     accountRepo,
		platformAccount: platformAccount,
	}
}

// platformSharePercent is the platform's cut of purchase revenue. The other
// 80% goes to instructors as commissions.
const platformSharePercent = 20

func (s *adminService) PlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	stats := &domain.PlatformStats{}

	var err error
	if stats.TotalCourses, err = s.courseRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalLearners, err = s.userRepo.CountByRole(ctx, domain.RoleLearner); err != nil {
		return nil, err
	}
	if stats.TotalInstructors, err = s.userRepo.CountByRole(ctx, domain.RoleInstructor); err != nil {
		return nil, err
	}
	if stats.TotalEnrollments, err = s.txRepo.CountActivePurchases(ctx); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByNumber(ctx, s.platformAccount)
	if err != nil {
		return nil, err
	}
	stats.PlatformBalanceCents = account.BalanceCents

	if stats.TotalRevenueCents, err = s.txRepo.SumActivePurchaseAmounts(ctx); err != nil {
		return nil, err
	}
	stats.PlatformIncomeCents = stats.TotalRevenueCents * platformSharePercent / 100

	now := time.Now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	monthly, err := s.txRepo.MonthlyRevenueSince(ctx, since)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[[2]int]repository.MonthlyRevenue, len(monthly))
	for _, m := range monthly {
		byMonth[[2]int{m.Year, int(m.Month)}] = m
	}
	stats.MonthlyRevenue = lastTwelveMonths(now, func(year int, month time.Month) domain.EarningsPoint {
		point := domain.EarningsPoint{Year: year, Month: month}
		if m, ok := byMonth[[2]int{year, int(month)}]; ok {
			point.AmountCents = m.AmountCents
			point.Enrollments = m.Enrollments
		}
		return point
	})

	return stats, nil
}
