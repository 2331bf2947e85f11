package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/logger"
	"learnledger-backend/internal/repository"
)

// AccountSeed describes one simulated bank account in the roster file.
type AccountSeed struct {
	AccountNumber string `yaml:"account_number"`
	BalanceCents  int64  `yaml:"balance_cents"`
	SecretKey     string `yaml:"secret_key"`
	BankName      string `yaml:"bank_name"`
}

// UserSeed describes one user in the roster file. The password is stored
// in plain text in the roster and hashed during seeding.
type UserSeed struct {
	Role              string `yaml:"role"`
	UserName          string `yaml:"user_name"`
	FullName          string `yaml:"full_name"`
	Email             string `yaml:"email"`
	Password          string `yaml:"password"`
	BankAccountNumber string `yaml:"bank_account_number"`
	BankSecret        string `yaml:"bank_secret"`
}

// Roster is the full seed manifest: the platform and participant bank
// accounts plus the initial users linked to them.
type Roster struct {
	Accounts []AccountSeed `yaml:"accounts"`
	Users    []UserSeed    `yaml:"users"`
}

// LoadRoster reads a roster manifest from a YAML file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}
	return &roster, nil
}

// Seeder applies a roster to the database. Seeding is idempotent: accounts
// and users that already exist are left untouched, so the command can run
// on every deploy.
type Seeder struct {
	userRepo    repository.UserRepository
	accountRepo repository.BankAccountRepository
}

func NewSeeder(userRepo repository.UserRepository, accountRepo repository.BankAccountRepository) *Seeder {
	return &Seeder{userRepo: userRepo, accountRepo: accountRepo}
}

// Apply creates every missing account and user from the roster.
func (s *Seeder) Apply(ctx context.Context, roster *Roster) error {
	for _, acc := range roster.Accounts {
		if err := s.seedAccount(ctx, acc); err != nil {
			return err
		}
	}
	for _, u := range roster.Users {
		if err := s.seedUser(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedAccount(ctx context.Context, seed AccountSeed) error {
	_, err := s.accountRepo.GetByNumber(ctx, seed.AccountNumber)
	if err == nil {
		logger.Debug("Account already seeded", "account_number", seed.AccountNumber)
		return nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("failed to look up account %s: %w", seed.AccountNumber, err)
	}

	account := &domain.BankAccount{
		AccountNumber: seed.AccountNumber,
		BalanceCents:  seed.BalanceCents,
		SecretKey:     seed.SecretKey,
		BankName:      seed.BankName,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return fmt.Errorf("failed to create account %s: %w", seed.AccountNumber, err)
	}
	logger.Info("Seeded bank account", "account_number", seed.AccountNumber, "balance_cents", seed.BalanceCents)
	return nil
}

func (s *Seeder) seedUser(ctx context.Context, seed UserSeed) error {
	_, err := s.userRepo.GetByEmail(ctx, seed.Email)
	if err == nil {
		logger.Debug("User already seeded", "email", seed.Email)
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("failed to look up user %s: %w", seed.Email, err)
	}

	role := domain.Role(seed.Role)
	switch role {
	case domain.RoleLearner, domain.RoleInstructor, domain.RoleAdmin:
	default:
		return fmt.Errorf("unknown role %q for user %s", seed.Role, seed.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password for %s: %w", seed.Email, err)
	}

	user := &domain.User{
		Role:              role,
		UserName:          seed.UserName,
		FullName:          seed.FullName,
		Email:             seed.Email,
		PasswordHash:      string(hash),
		BankAccountNumber: seed.BankAccountNumber,
		BankSecret:        seed.BankSecret,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", seed.Email, err)
	}
	logger.Info("Seeded user", "email", seed.Email, "role", seed.Role)
	return nil
}
