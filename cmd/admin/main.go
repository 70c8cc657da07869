package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/antonio-alexander/go-employee-manager/internal"
	"github.com/antonio-alexander/go-employee-manager/internal/auth"
	"github.com/antonio-alexander/go-employee-manager/internal/data"
	internalSql "github.com/antonio-alexander/go-employee-manager/internal/sql"
	"github.com/antonio-alexander/go-employee-manager/internal/utilities"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

func main() {
	pwd, _ := os.Getwd()
	envs := make(map[string]string)
	for _, env := range os.Environ() {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
	loadEnvs(pwd, envs)
	if err := rootCmd(envs).Execute(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// loadEnvs merges dotenv files into the provided environment; values
// already present (the real environment) always win
func loadEnvs(pwd string, envs map[string]string) {
	files := []string{".env"}
	if appEnv, ok := envs["APP_ENV"]; ok && appEnv != "" {
		files = append(files, "."+appEnv+".env")
	}
	for _, file := range files {
		fileEnvs, err := godotenv.Read(filepath.Join(pwd, file))
		if err != nil {
			continue
		}
		for key, value := range fileEnvs {
			if _, ok := envs[key]; !ok {
				envs[key] = value
			}
		}
	}
}

// openSql creates the sql layer used by the admin commands
func openSql(ctx context.Context, envs map[string]string) (interface {
	internal.Closer
	internalSql.Migrator
	internalSql.Sql
}, error) {
	logger := utilities.NewLogger()
	_ = logger.Configure(envs)
	sql := internalSql.NewMySql(logger)
	if err := sql.Configure(envs); err != nil {
		return nil, err
	}
	if err := sql.Open(ctx); err != nil {
		return nil, err
	}
	return sql, nil
}

// readPassword prompts for a hidden password twice and validates that
// the entries match and meet the strength requirements
func readPassword() (string, error) {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	fmt.Print("Confirm password: ")
	password2, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if string(password) != string(password2) {
		return "", errors.New("passwords don't match")
	}
	if err := auth.IsStrongPassword(string(password)); err != nil {
		return "", err
	}
	return string(password), nil
}

func migrateCmd(envs map[string]string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply any pending database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sql, err := openSql(ctx, envs)
			if err != nil {
				return err
			}
			defer sql.Close(ctx)
			if err := sql.Migrate(ctx); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
}

func createSuperuserCmd(envs map[string]string) *cobra.Command {
	var email, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a staff superuser account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !auth.IsValidEmail(email) {
				return errors.Errorf("invalid email: %s", email)
			}
			password, err := readPassword()
			if err != nil {
				return err
			}
			passwordHash, err := auth.HashAndSaltPassword([]byte(password))
			if err != nil {
				return err
			}
			sql, err := openSql(ctx, envs)
			if err != nil {
				return err
			}
			defer sql.Close(ctx)
			user, err := sql.SuperuserCreate(ctx, data.UserPartial{
				Email:     &email,
				FirstName: &firstName,
				LastName:  &lastName,
			}, passwordHash)
			if err != nil {
				return err
			}
			fmt.Printf("created superuser %s (%d)\n", user.Email, user.Id)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address of the superuser")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name of the superuser")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name of the superuser")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("go-employee-manager v%s (%s) built from: %s\n",
				Version, GitCommit, GitBranch)
		},
	}
}

func rootCmd(envs map[string]string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "employee-admin",
		Short:         "Administrative commands for the employee manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(migrateCmd(envs))
	cmd.AddCommand(createSuperuserCmd(envs))
	cmd.AddCommand(versionCmd())
	return cmd
}
