package regsvc

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/mkrupp/homecase-registration/internal/domain"
	context_ "github.com/mkrupp/homecase-registration/internal/infra/context"
	"github.com/mkrupp/homecase-registration/internal/infra/logging"
	"github.com/mkrupp/homecase-registration/internal/repo/user"
)

// RegistrationService registers, authenticates and lists users.
// Every operation opens its own repository and closes it before returning.
type RegistrationService struct {
	NewUserRepo user.RepositoryFactory
	Validator   *validator.Validate
	Log         logging.Logger
}

// NewRegistrationService creates a RegistrationService backed by the given repository factory.
func NewRegistrationService(repoFactory user.RepositoryFactory) *RegistrationService {
	return &RegistrationService{
		NewUserRepo: repoFactory,
		Validator:   NewValidator(),
		Log:         logging.GetLogger("svc.regsvc.registration_service"),
	}
}

// AddUser stores a new user. Returns domain.ErrMissingField if any value is blank
// and domain.ErrUserAlreadyExists if the username is taken.
func (s *RegistrationService) AddUser(ctx context.Context, username, email, password string) (err error) {
	ctx = context_.WithUsername(ctx, username)

	defer func() {
		if err != nil {
			s.Log.ErrorContext(ctx, "add user failed", "error", err)
		} else {
			s.Log.InfoContext(ctx, "user added")
		}
	}()

	newUser := domain.User{Username: username, Email: email, Password: password}
	if err := ValidateUser(s.Validator, newUser); err != nil {
		return fmt.Errorf("validate user: %w", err)
	}

	repo, err := s.NewUserRepo()
	if err != nil {
		return fmt.Errorf("new user repo: %w", err)
	}
	defer closeRepo(ctx, s.Log, repo)

	if err := repo.CreateUser(ctx, newUser); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// AuthenticateUser reports whether username exists and its stored password
// equals password exactly. Storage failures count as a failed login.
func (s *RegistrationService) AuthenticateUser(ctx context.Context, username, password string) bool {
	ctx = context_.WithUsername(ctx, username)

	if err := s.authenticate(ctx, username, password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.Log.WarnContext(ctx, "authentication rejected", "error", err)
		} else {
			s.Log.ErrorContext(ctx, "authentication failed", "error", err)
		}

		return false
	}

	s.Log.InfoContext(ctx, "user authenticated")

	return true
}

func (s *RegistrationService) authenticate(ctx context.Context, username, password string) error {
	repo, err := s.NewUserRepo()
	if err != nil {
		return fmt.Errorf("new user repo: %w", err)
	}
	defer closeRepo(ctx, s.Log, repo)

	found, ok, err := repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return errors.Join(domain.ErrInvalidCredentials, err)
		}

		return fmt.Errorf("get user: %w", err)
	} else if !ok {
		return domain.ErrInvalidCredentials
	}

	if found.Password != password {
		return domain.ErrInvalidCredentials
	}

	return nil
}

// DisplayUsers writes one line per stored user to w.
// Nothing is written when the table is empty or the store is unavailable.
func (s *RegistrationService) DisplayUsers(ctx context.Context, w io.Writer) {
	users, err := s.listUsers(ctx)
	if err != nil {
		s.Log.ErrorContext(ctx, "list users failed", "error", err)

		return
	}

	for _, u := range users {
		fmt.Fprintf(w, "Login: %s, Email: %s\n", u.Username, u.Email)
	}
}

func (s *RegistrationService) listUsers(ctx context.Context) ([]domain.User, error) {
	repo, err := s.NewUserRepo()
	if err != nil {
		return nil, fmt.Errorf("new user repo: %w", err)
	}
	defer closeRepo(ctx, s.Log, repo)

	users, err := repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func closeRepo(ctx context.Context, log logging.Logger, repo user.Repository) {
	if err := repo.Close(); err != nil {
		log.WarnContext(ctx, "close user repo failed", "error", err)
	}
}
