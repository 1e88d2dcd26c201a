package regsvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkrupp/homecase-registration/internal/domain"
	"github.com/mkrupp/homecase-registration/internal/infra/logging"
	"github.com/mkrupp/homecase-registration/internal/infra/transport/console"
)

// Menu choices accepted by UserChoice.
const (
	ChoiceLogin    = "1"
	ChoiceRegister = "2"
)

// Messages shown to the user.
const (
	MenuPrompt       = "Choose an action: 1 - login, 2 - register\n> "
	MsgInvalidInput  = "Invalid input"
	MsgLoginSuccess  = "Login successful"
	MsgLoginFailure  = "Invalid login or password"
	MsgUserExists    = "Registration failed: username is already taken"
	MsgMissingField  = "Registration failed: username, email and password are required"
	MsgRegisterError = "Registration failed"
)

// ConsoleTransportConfig contains configuration parameters for the console dialogue.
type ConsoleTransportConfig struct {
	console.ConsoleConfig

	// ListUsers prints all users after a successful registration
	ListUsers bool `env:"LIST_USERS" default:"false"`
}

// ConsoleTransport drives the login/registration dialogue.
type ConsoleTransport struct {
	regSvc *RegistrationService
	con    *console.Console
	log    logging.Logger
	cfg    ConsoleTransportConfig
}

var _ console.ConsoleTransport = (*ConsoleTransport)(nil)

// NewConsoleTransport creates a ConsoleTransport talking over con.
func NewConsoleTransport(
	regSvc *RegistrationService,
	con *console.Console,
	cfg ConsoleTransportConfig,
) *ConsoleTransport {
	return &ConsoleTransport{
		regSvc: regSvc,
		con:    con,
		log:    logging.GetLogger("svc.regsvc.console_transport"),
		cfg:    cfg,
	}
}

// UserChoice reads lines until one is a known menu choice and returns it.
// Any other line, including an empty one, is rejected and the menu is shown again.
func (ct *ConsoleTransport) UserChoice(ctx context.Context) (string, error) {
	for {
		choice, err := ct.con.Prompt(MenuPrompt)
		if err != nil {
			return "", fmt.Errorf("read choice: %w", err)
		}

		switch choice {
		case ChoiceLogin, ChoiceRegister:
			return choice, nil
		}

		ct.log.DebugContext(ctx, "rejected menu input", "input", choice)
		ct.con.Println(MsgInvalidInput)
	}
}

// Serve implements console.ConsoleTransport: it reads one menu choice and runs
// the matching flow.
func (ct *ConsoleTransport) Serve(ctx context.Context) error {
	choice, err := ct.UserChoice(ctx)
	if err != nil {
		return err
	}

	// UserChoice only returns known choices.
	switch choice {
	case ChoiceLogin:
		return ct.handleLogin(ctx)
	default:
		return ct.handleRegister(ctx)
	}
}

func (ct *ConsoleTransport) handleLogin(ctx context.Context) error {
	username, err := ct.con.Prompt("Username: ")
	if err != nil {
		return fmt.Errorf("read username: %w", err)
	}

	password, err := ct.con.PromptPassword("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	if ct.regSvc.AuthenticateUser(ctx, username, password) {
		ct.con.Println(MsgLoginSuccess)
	} else {
		ct.con.Println(MsgLoginFailure)
	}

	return nil
}

func (ct *ConsoleTransport) handleRegister(ctx context.Context) error {
	username, err := ct.con.Prompt("Username: ")
	if err != nil {
		return fmt.Errorf("read username: %w", err)
	}

	email, err := ct.con.Prompt("Email: ")
	if err != nil {
		return fmt.Errorf("read email: %w", err)
	}

	password, err := ct.con.PromptPassword("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	if err := ct.regSvc.AddUser(ctx, username, email, password); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			ct.con.Println(MsgUserExists)
		case errors.Is(err, domain.ErrMissingField):
			ct.con.Println(MsgMissingField)
		default:
			ct.con.Println(MsgRegisterError)
		}

		return nil
	}

	ct.con.Printf("User %s registered\n", username)

	if ct.cfg.ListUsers {
		ct.regSvc.DisplayUsers(ctx, ct.con.Out)
	}

	return nil
}
