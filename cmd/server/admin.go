package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"loan-predict/internal/app"
	"loan-predict/internal/db"
	"loan-predict/internal/db/repository"
	"loan-predict/internal/service/security"
)

func newCreateAdminCmd() *cobra.Command {
	var (
		dbPath   string
		username string
		email    string
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an active admin account",
		Long: "Create an active admin account. The password is prompted for on a terminal " +
			"and read from the first line of stdin otherwise.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(dbPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			writeDB, err := db.OpenSQLite(cfg.DBPath, db.ModeWrite, 0)
			if err != nil {
				return err
			}
			defer writeDB.Close()
			if err := db.RunMigrations(writeDB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			accounts := repository.NewAccountRepo(writeDB, writeDB)
			created, err := app.EnsureAdmin(cmd.Context(), accounts, security.NewBcryptHasher(cfg.Auth.BcryptCost),
				app.AdminAccount{Username: username, Email: email, Password: password}, logger)
			if err != nil {
				return err
			}
			if !created {
				return fmt.Errorf("username %q or email %q is already in use", username, email)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", username)
			return nil
		},
	}
	dbPathFlag(cmd.Flags(), &dbPath)
	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// readPassword prompts without echo when in is a terminal and otherwise
// reads one line.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required on stdin")
	}
	return line, nil
}
