package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"prestito/internal/application/commands"
)

var operatorCmd = &cobra.Command{
	Use:   "operator",
	Short: "Manage operator logins for the terminal UI",
}

var operatorAddCmd = &cobra.Command{
	Use:   "add <user>",
	Short: "Create an operator or change its password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		password, err := readPassword(cmd, "New password: ")
		if err != nil {
			return err
		}
		msg, err := commands.NewSetPasswordCommand(GetLibrary().Credentials, args[0], password).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, msg)
		return nil
	},
}

var operatorLoginCmd = &cobra.Command{
	Use:   "login <user>",
	Short: "Check an operator's password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		password, err := readPassword(cmd, "Password: ")
		if err != nil {
			return err
		}
		user, err := commands.NewLoginCommand(GetLibrary().Credentials, args[0], password).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Logged in as %s\n", user)
		return nil
	},
}

var operatorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List operators",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := GetLibrary().Credentials.Users()
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(users)
		}
		for _, u := range users {
			fmt.Fprintln(out, u)
		}
		return nil
	},
}

// readPassword reads without echo from a terminal, or one line from a pipe
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	rootCmd.AddCommand(operatorCmd)
	operatorCmd.AddCommand(operatorAddCmd)
	operatorCmd.AddCommand(operatorLoginCmd)
	operatorCmd.AddCommand(operatorListCmd)
}
