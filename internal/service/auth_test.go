package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/security"
)

func authFixtures() (*MockUserRepo, *MockBankAccountRepo, AuthService) {
	userRepo := new(MockUserRepo)
	accountRepo := new(MockBankAccountRepo)
	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	svc := NewAuthService(userRepo, accountRepo, tokens)
	return userRepo, accountRepo, svc
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userRepo, _, svc := authFixtures()

		userRepo.On("GetByEmail", ctx, "lena@test.com").Return(nil, domain.ErrUserNotFound)
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 5
		}).Return(nil)

		user, token, err := svc.Signup(ctx, domain.RoleLearner, "lena", "Lena Learner", "lena@test.com", "hunter2!")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, int32(5), user.ID)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2!")))
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		userRepo, _, svc := authFixtures()

		userRepo.On("GetByEmail", ctx, "lena@test.com").Return(&domain.User{ID: 5}, nil)

		user, _, err := svc.Signup(ctx, domain.RoleLearner, "lena", "Lena Learner", "lena@test.com", "hunter2!")
		assert.Error(t, err)
		assert.Nil(t, user)
		userRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Unknown Role", func(t *testing.T) {
		_, _, svc := authFixtures()

		user, _, err := svc.Signup(ctx, domain.Role("Owner"), "x", "X", "x@test.com", "pw")
		assert.Error(t, err)
		assert.Nil(t, user)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2!"), bcrypt.DefaultCost)
	stored := &domain.User{ID: 5, Role: domain.RoleLearner, Email: "lena@test.com", PasswordHash: string(hash)}

	t.Run("Success Embeds Role Claim", func(t *testing.T) {
		userRepo, _, svc := authFixtures()

		userRepo.On("GetByEmail", ctx, "lena@test.com").Return(stored, nil)

		user, token, err := svc.Login(ctx, "lena@test.com", "hunter2!")
		assert.NoError(t, err)
		assert.Equal(t, int32(5), user.ID)

		tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
		claims, err := tokens.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, int32(5), claims.UserID)
		assert.Equal(t, domain.RoleLearner, claims.Role)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		userRepo, _, svc := authFixtures()

		userRepo.On("GetByEmail", ctx, "lena@test.com").Return(stored, nil)

		_, _, err := svc.Login(ctx, "lena@test.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		userRepo, _, svc := authFixtures()

		userRepo.On("GetByEmail", ctx, "ghost@test.com").Return(nil, domain.ErrUserNotFound)

		_, _, err := svc.Login(ctx, "ghost@test.com", "whatever")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestAuthService_UpdateBankDetails(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userRepo, accountRepo, svc := authFixtures()

		accountRepo.On("GetByNumber", ctx, "10005").Return(&domain.BankAccount{AccountNumber: "10005", SecretKey: "secret-5"}, nil)
		userRepo.On("UpdateBankDetails", ctx, int32(5), "10005", "secret-5").Return(nil)

		err := svc.UpdateBankDetails(ctx, 5, "10005", "secret-5")
		assert.NoError(t, err)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		userRepo, accountRepo, svc := authFixtures()

		accountRepo.On("GetByNumber", ctx, "10005").Return(&domain.BankAccount{AccountNumber: "10005", SecretKey: "secret-5"}, nil)

		err := svc.UpdateBankDetails(ctx, 5, "10005", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		userRepo.AssertNotCalled(t, "UpdateBankDetails", ctx, int32(5), "10005", "wrong")
	})

	t.Run("Unknown Account", func(t *testing.T) {
		_, accountRepo, svc := authFixtures()

		accountRepo.On("GetByNumber", ctx, "99999").Return(nil, domain.ErrAccountNotFound)

		err := svc.UpdateBankDetails(ctx, 5, "99999", "secret")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}
