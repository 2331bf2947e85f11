package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/repository"
	"learnledger-backend/internal/security"
)

type authService struct {
	userRepo    repository.UserRepository
	accountRepo repository.BankAccountRepository
	tokens      security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, accountRepo repository.BankAccountRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		tokens:      tokens,
	}
}

func (s *authService) Signup(ctx context.Context, role domain.Role, userName, fullName, email, password string) (*domain.User, string, error) {
	switch role {
	case domain.RoleLearner, domain.RoleInstructor, domain.RoleAdmin:
	default:
		return nil, "", fmt.Errorf("unknown role %q", role)
	}
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("email and password are required")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("email %s is already registered", email)
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Role:         role,
		UserName:     userName,
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

func (s *authService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) UpdateProfile(ctx context.Context, userID int32, userName, fullName, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if userName != "" {
		user.UserName = userName
	}
	if fullName != "" {
		user.FullName = fullName
	}
	if email != "" {
		user.Email = email
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *authService) UpdateBankDetails(ctx context.Context, userID int32, accountNumber, secret string) error {
	account, err := s.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		return err
	}
	// The secret on file with the bank must match before the account can be
	// linked to a profile.
	if account.SecretKey != secret {
		return domain.ErrInvalidCredentials
	}
	return s.userRepo.UpdateBankDetails(ctx, userID, accountNumber, secret)
}
