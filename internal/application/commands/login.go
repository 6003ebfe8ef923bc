package commands

import (
	"context"
	"fmt"
	"strings"

	"prestito/internal/application"
	"prestito/internal/ports"
)

// LoginCommand checks operator credentials
type LoginCommand struct {
	creds    ports.CredentialStore
	User     string
	Password string
}

// NewLoginCommand creates a new LoginCommand
func NewLoginCommand(creds ports.CredentialStore, user, password string) *LoginCommand {
	return &LoginCommand{
		creds:    creds,
		User:     strings.TrimSpace(user),
		Password: password,
	}
}

// Validate checks if the login input is complete
func (c *LoginCommand) Validate() error {
	if err := application.ValidateRequired("user", c.User); err != nil {
		return err
	}
	return application.ValidateRequired("password", c.Password)
}

// Execute verifies the credentials and returns the operator name
func (c *LoginCommand) Execute(ctx context.Context) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if err := c.creds.Verify(c.User, c.Password); err != nil {
		return "", fmt.Errorf("login failed for %s: %w", c.User, err)
	}
	return c.User, nil
}

// SetPasswordCommand registers an operator or changes a password
type SetPasswordCommand struct {
	creds    ports.CredentialStore
	User     string
	Password string
}

// NewSetPasswordCommand creates a new SetPasswordCommand
func NewSetPasswordCommand(creds ports.CredentialStore, user, password string) *SetPasswordCommand {
	return &SetPasswordCommand{
		creds:    creds,
		User:     strings.TrimSpace(user),
		Password: password,
	}
}

// Validate checks that the user name fits the credentials file
func (c *SetPasswordCommand) Validate() error {
	if err := application.ValidateRequired("user", c.User); err != nil {
		return err
	}
	if strings.ContainsAny(c.User, ": \t\n") {
		return &application.ValidationError{Field: "user", Message: "user must not contain colons or spaces"}
	}
	if len(c.Password) < 4 {
		return &application.ValidationError{Field: "password", Message: "password must be at least 4 characters"}
	}
	return nil
}

// Execute stores the password hash
func (c *SetPasswordCommand) Execute(ctx context.Context) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if err := c.creds.SetPassword(c.User, c.Password); err != nil {
		return "", fmt.Errorf("failed to set password: %w", err)
	}
	return fmt.Sprintf("Password set for %s", c.User), nil
}
