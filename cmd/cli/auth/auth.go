package auth

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/teelane/budget-manager/cmd/cli/config"
)

// InitAuth registers register/login/logout on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd())
}

// ==========================
// Register
// ==========================
func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		Long:  "Register a new user with username and password.",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := promptCredentials()
			if err != nil {
				return err
			}

			if err := postJSON("/api/register", map[string]string{
				"username": username,
				"password": password,
			}, nil); err != nil {
				return fmt.Errorf("failed to register: %w", err)
			}

			fmt.Println("User registered successfully! You can now login.")
			return nil
		},
	}
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login an existing user",
		Long:  "Login and save JWT token locally for future CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := promptCredentials()
			if err != nil {
				return err
			}

			var out struct {
				Token string `json:"token"`
			}
			if err := postJSON("/api/login", map[string]string{
				"username": username,
				"password": password,
			}, &out); err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if out.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}

			if err := config.SaveToken(out.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Println("Login successful! JWT token saved locally.")
			return nil
		},
	}
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout current user",
		Long:  "Remove locally saved JWT token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.RemoveToken(); err != nil {
				return err
			}
			fmt.Println("Logged out successfully.")
			return nil
		},
	}
}

// promptCredentials reads a username and a hidden password from the terminal.
func promptCredentials() (string, string, error) {
	fmt.Print("Username: ")
	var username string
	fmt.Scanln(&username)
	if username == "" {
		return "", "", fmt.Errorf("username is required")
	}

	fmt.Print("Password: ")
	password, err := readPassword(os.Stdin)
	if err != nil {
		return "", "", err
	}
	fmt.Println()
	if password == "" {
		return "", "", fmt.Errorf("password is required")
	}

	return username, password, nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", scanner.Err()
}

func postJSON(path string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := http.Post(config.APIURL()+path, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return err
		}
	}

	return nil
}
