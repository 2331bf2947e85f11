package service

import (
	"context"
	"errors"
	"fmt"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/logger"
	"learnledger-backend/internal/repository"
)

type bankService struct {
	accountRepo     repository.BankAccountRepository
	userRepo        repository.UserRepository
	platformAccount string
}

func NewBankService(accountRepo repository.BankAccountRepository, userRepo repository.UserRepository, platformAccount string) BankService {
	return &bankService{
		accountRepo:     accountRepo,
		userRepo:        userRepo,
		platformAccount: platformAccount,
	}
}

func (s *bankService) PlatformAccountNumber() string {
	return s.platformAccount
}

func (s *bankService) GetBalance(ctx context.Context, userID int32) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user.BankAccountNumber == "" {
		return 0, domain.ErrBankAccountNotLinked
	}
	account, err := s.accountRepo.GetByNumber(ctx, user.BankAccountNumber)
	if err != nil {
		return 0, err
	}
	return account.BalanceCents, nil
}

func (s *bankService) Transfer(ctx context.Context, fromAccount, toAccount string, amountCents int64) error {
	if amountCents <= 0 {
		return domain.ErrInvalidAmount
	}

	// Resolve both accounts up front so a missing account is reported as
	// such rather than as an insufficient-funds failure.
	if _, err := s.accountRepo.GetByNumber(ctx, fromAccount); err != nil {
		return err
	}
	if _, err := s.accountRepo.GetByNumber(ctx, toAccount); err != nil {
		return err
	}

	ok, err := s.accountRepo.DebitIfSufficient(ctx, fromAccount, amountCents)
	if err != nil {
		return fmt.Errorf("failed to debit account %s: %w", fromAccount, err)
	}
	if !ok {
		return domain.ErrInsufficientFunds
	}

	if err := s.accountRepo.Credit(ctx, toAccount, amountCents); err != nil {
		// Put the debited money back so funds are never stranded.
		if revertErr := s.accountRepo.Credit(ctx, fromAccount, amountCents); revertErr != nil {
			logger.Error("failed to revert debit after credit failure",
				"from_account", fromAccount,
				"amount_cents", amountCents,
				"error", revertErr)
		}
		return fmt.Errorf("failed to credit account %s: %w", toAccount, err)
	}
	return nil
}

func (s *bankService) PurchaseTransfer(ctx context.Context, learnerID int32, accountNumber, secret string, amountCents int64) error {
	user, err := s.userRepo.GetByID(ctx, learnerID)
	if err != nil {
		return err
	}
	if user.BankAccountNumber == "" {
		return domain.ErrBankAccountNotLinked
	}
	if accountNumber != user.BankAccountNumber || secret != user.BankSecret {
		return domain.ErrInvalidCredentials
	}
	return s.Transfer(ctx, accountNumber, s.platformAccount, amountCents)
}

func (s *bankService) PayoutTransfer(ctx context.Context, instructorID int32, amountCents int64) error {
	instructor, err := s.userRepo.GetByID(ctx, instructorID)
	if err != nil {
		return err
	}
	if instructor.BankAccountNumber == "" {
		return domain.ErrBankAccountNotLinked
	}

	if err := s.Transfer(ctx, s.platformAccount, instructor.BankAccountNumber, amountCents); err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return domain.ErrInsufficientPlatformFunds
		}
		return err
	}

	if err := s.userRepo.AddEarnings(ctx, instructorID, amountCents); err != nil {
		// The money moved; the earnings counter is a derived convenience
		// figure, so log instead of unwinding the payout.
		logger.Error("failed to update instructor earnings after payout",
			"instructor_id", instructorID,
			"amount_cents", amountCents,
			"error", err)
	}
	return nil
}
