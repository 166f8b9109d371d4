package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/tourism/internal/activity"
	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/auth"
	"github.com/mrlokans/tourism/internal/config"
	"github.com/mrlokans/tourism/internal/database"
)

// CreateAdminCommand adds an admin account without going through the
// registration page, which deployments usually switch off.
type CreateAdminCommand struct {
	Name     string
	Email    string
	Password string
	Database databaseFlags

	auth     config.Auth
	defaults config.Database
	out      io.Writer
}

// NewCreateAdminCommand creates a new CreateAdminCommand with defaults from cfg
func NewCreateAdminCommand(cfg *config.Config) *CreateAdminCommand {
	return &CreateAdminCommand{
		auth:     cfg.Auth,
		defaults: cfg.Database,
		out:      os.Stdout,
	}
}

// ParseFlags parses command line flags
func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.Name, "name", "", "Full name of the admin (required)")
	fs.StringVar(&cmd.Email, "email", "", "Login email of the admin (required)")
	fs.StringVar(&cmd.Password, "password", "", "Initial password (required)")
	cmd.Database.register(fs, cmd.defaults)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin -name <name> -email <email> -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an admin account. Missing tables are created first.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s create-admin -name \"Asha Rao\" -email asha@example.com -password 's3cret!'\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case cmd.Name == "":
		return fmt.Errorf("required flag -name not provided")
	case cmd.Email == "":
		return fmt.Errorf("required flag -email not provided")
	case cmd.Password == "":
		return fmt.Errorf("required flag -password not provided")
	}
	return nil
}

// Run creates the account
func (cmd *CreateAdminCommand) Run() error {
	ctx := context.Background()
	logger := cmd.Database.logger()

	store, err := database.Open(cmd.Database.config(), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := database.Initialize(ctx, store, cmd.auth.BcryptCost); err != nil {
		return err
	}

	conn, err := store.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	admin, err := auth.NewService(conn, cmd.auth).RegisterAdmin(cmd.Name, cmd.Email, cmd.Password, cmd.Password)
	if err != nil {
		if apperr.IsKnown(err) {
			return fmt.Errorf("cannot create admin: %s", apperr.Message(err))
		}
		return err
	}
	activity.NewRecorder(conn.Gorm(), logger).Record(ctx, nil, activity.RoleGuest, "Admin registered: "+admin.Email)

	fmt.Fprintf(cmd.out, "Created admin #%d %s <%s>\n", admin.ID, admin.Fullname, admin.Email)
	return nil
}
