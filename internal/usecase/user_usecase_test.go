package usecase_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/usecase"
	"github.com/sambhav/earnings/internal/usecase/mocks"
)

type userFixture struct {
	uc          *usecase.UserUseCase
	userRepo    *mocks.MockUserRepository
	accountRepo *mocks.MockAccountRepository
}

func newUserFixture() *userFixture {
	f := &userFixture{
		userRepo:    mocks.NewMockUserRepository(),
		accountRepo: mocks.NewMockAccountRepository(),
	}
	f.uc = usecase.NewUserUseCase(f.userRepo, f.accountRepo, mocks.NewMockIDGenerator())
	return f
}

func registerInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    "priya@example.com",
		Name:     "Priya Sharma",
		Phone:    "9876543210",
		Password: "Str0ngPass",
	}
}

func TestRegister_MemberGetsLinkedAccount(t *testing.T) {
	f := newUserFixture()

	user, err := f.uc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Role != domain.RoleMember {
		t.Errorf("expected member by default, got %s", user.Role)
	}
	if user.AccountID == "" {
		t.Fatal("expected a linked account")
	}
	if user.HashedPassword != "" {
		t.Error("hashed password must not be returned")
	}

	account, err := f.accountRepo.GetByID(context.Background(), user.AccountID)
	if err != nil {
		t.Fatalf("expected account to exist: %v", err)
	}
	if account.Phone != "9876543210" {
		t.Errorf("expected account phone, got %q", account.Phone)
	}
}

func TestRegister_ReviewerHasNoAccount(t *testing.T) {
	f := newUserFixture()

	input := registerInput()
	input.Role = domain.RoleReviewer

	user, err := f.uc.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.AccountID != "" {
		t.Errorf("reviewers must not get an earnings account, got %q", user.AccountID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newUserFixture()

	if _, err := f.uc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input := registerInput()
	input.Phone = "9876543211"
	_, err := f.uc.Register(context.Background(), input)
	if !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	f := newUserFixture()

	input := registerInput()
	input.Password = "password"

	_, err := f.uc.Register(context.Background(), input)
	if !errors.Is(err, domain.ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak, got %v", err)
	}
}

func TestRegister_UnknownRole(t *testing.T) {
	f := newUserFixture()

	input := registerInput()
	input.Role = "superuser"

	_, err := f.uc.Register(context.Background(), input)
	if !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected ErrInsufficientRole, got %v", err)
	}
}

func (f *userFixture) seedUser(email, password string, active bool) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &domain.User{
		ID:             "usr_1",
		Email:          email,
		Name:           "Priya Sharma",
		HashedPassword: string(hash),
		Role:           domain.RoleMember,
		Active:         active,
	}
	_ = f.userRepo.Create(context.Background(), user)
	return user
}

func TestAuthenticate(t *testing.T) {
	f := newUserFixture()
	f.seedUser("priya@example.com", "Str0ngPass", true)

	user, err := f.uc.Authenticate(context.Background(), usecase.AuthenticateInput{
		Email:    "priya@example.com",
		Password: "Str0ngPass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "priya@example.com" {
		t.Errorf("expected the registered user, got %q", user.Email)
	}
	if user.HashedPassword != "" {
		t.Error("hashed password must not be returned")
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	f := newUserFixture()
	user := f.seedUser("priya@example.com", "Str0ngPass", true)

	// Wrong password, unknown user and inactive user all collapse into
	// the same error.
	_, err := f.uc.Authenticate(context.Background(), usecase.AuthenticateInput{
		Email:    "priya@example.com",
		Password: "WrongPass1",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	_, err = f.uc.Authenticate(context.Background(), usecase.AuthenticateInput{
		Email:    "nobody@example.com",
		Password: "Str0ngPass",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	user.Active = false
	_, err = f.uc.Authenticate(context.Background(), usecase.AuthenticateInput{
		Email:    "priya@example.com",
		Password: "Str0ngPass",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
