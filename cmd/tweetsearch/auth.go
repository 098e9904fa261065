package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tweetsearch/pkg/auth"
	"tweetsearch/pkg/config"
	"tweetsearch/pkg/logger"
	"tweetsearch/pkg/session"
	"tweetsearch/pkg/ui"
)

var (
	// Auth command flags
	loginEmail  string
	keepSession bool
	logoutAll   bool
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage platform accounts and the session cache",
	Long: `Manage the accounts tweetsearch logs in with.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (TWEETSEARCH_USERNAME, TWEETSEARCH_PASSWORD)

Session cookies obtained by logging in are cached separately so later
searches can skip the login.`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Store account credentials securely",
	Example: `  # Interactive login
  tweetsearch auth login

  # Login with username and email
  tweetsearch auth login myhandle --email me@example.com`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [username]",
	Short: "Remove stored credentials and cached session cookies",
	Example: `  # Remove one account
  tweetsearch auth logout myhandle

  # Remove every stored account
  tweetsearch auth logout --all

  # Drop the account but keep the cached session
  tweetsearch auth logout myhandle --keep-session`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored accounts with sanitized credential information.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email used when the platform asks for verification")
	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "remove every stored account")
	logoutCmd.Flags().BoolVar(&keepSession, "keep-session", false, "keep the cached session cookies")
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager("")
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	var username string
	if len(args) > 0 {
		username = strings.TrimSpace(args[0])
	}
	if username == "" {
		fmt.Fprint(os.Stderr, "Username: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(input)
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	if existing, _ := manager.Retrieve(username); existing != nil {
		fmt.Fprintf(os.Stderr, "Account '%s' already exists. Update credentials? (y/N): ", username)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	email := loginEmail
	if email == "" {
		fmt.Fprint(os.Stderr, "Email (optional): ")
		input, _ := reader.ReadString('\n')
		email = strings.TrimSpace(input)
	}

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := readPassword(reader)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	account := &auth.Account{
		Username:     username,
		Email:        email,
		Password:     password,
		LastModified: time.Now(),
	}
	if err := manager.Store(account); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	ui.PrintSuccess("Account saved: " + username)
	if accounts, _ := manager.List(); len(accounts) > 1 {
		ui.PrintInfo("Tip", fmt.Sprintf("tweetsearch search <query> --account %s", username))
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager("")
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	var usernames []string
	switch {
	case logoutAll:
		accounts, err := manager.List()
		if err != nil {
			return fmt.Errorf("failed to list accounts: %w", err)
		}
		for _, account := range accounts {
			usernames = append(usernames, account.Username)
		}
	case len(args) == 1:
		usernames = []string{args[0]}
	default:
		account, err := manager.RetrieveDefault()
		if err != nil {
			return fmt.Errorf("no stored accounts found")
		}
		usernames = []string{account.Username}
	}

	for _, username := range usernames {
		if err := manager.Delete(username); err != nil {
			ui.PrintError("Failed to remove account", err)
			continue
		}
		ui.PrintSuccess("Account removed: " + username)
	}

	if keepSession {
		return nil
	}
	return clearSession()
}

// clearSession deletes the cached session cookies so the next search logs in
func clearSession() error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cookies := session.NewCookieStore(cfg.Session.CookiesFile, logger.NewNopLogger())
	if !cookies.Exists() {
		return nil
	}
	if err := cookies.Delete(); err != nil {
		return fmt.Errorf("failed to remove session cookies: %w", err)
	}
	ui.PrintInfo("Session cookies removed", cookies.Path())
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager("")
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	accounts, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'tweetsearch auth login' to add an account")
		return nil
	}

	ui.PrintHighlight("Stored Accounts")
	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Username: %s\n", i+1, sanitized.Username)
		if sanitized.Email != "" {
			fmt.Printf("   Email: %s\n", sanitized.Email)
		}
		fmt.Printf("   Password: %s\n", sanitized.Password)
		if !sanitized.LastModified.IsZero() {
			fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}

// readPassword reads without echo from a terminal, or a plain line otherwise
func readPassword(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(password)), nil
	}

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
