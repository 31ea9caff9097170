package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/config"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/database"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/models"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/services"
	"github.com/spf13/cobra"
)

// sampleUser is one account created by seed-users.
type sampleUser struct {
	Username string
	Email    string
	Role     string
}

var sampleUsers = []sampleUser{
	{Username: "john_doe", Email: "john@example.com", Role: models.RoleUser},
	{Username: "jane_smith", Email: "jane@example.com", Role: models.RoleUser},
	{Username: "mike_wilson", Email: "mike@example.com", Role: models.RoleUser},
	{Username: "sarah_johnson", Email: "sarah@example.com", Role: models.RoleUser},
	{Username: "admin_chef", Email: "chef@e-cuisine.example", Role: models.RoleAdmin},
	{Username: "support_admin", Email: "support@e-cuisine.example", Role: models.RoleAdmin},
}

// newDBCmd groups the operator commands. They talk to Postgres directly using
// the same DB_* environment as the server.
func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Operator commands run directly against the database",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := database.Connect(config.Load()); err != nil {
				return err
			}
			return database.Migrate()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return database.Close()
		},
	}

	var seedFile string
	seedServices := &cobra.Command{
		Use:   "seed-services",
		Short: "Load the sample catalog into an empty services table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records := catalog.SeedRecords()
			if seedFile != "" {
				loaded, err := catalog.LoadSeedFile(seedFile)
				if err != nil {
					return err
				}
				records = loaded
			}
			svc := services.NewCatalogService(services.NewGormServiceRepository(database.DB))
			n, err := svc.Seed(cmd.Context(), records)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "services table already populated, nothing inserted")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d services\n", n)
			return nil
		},
	}
	seedServices.Flags().StringVar(&seedFile, "file", "", "JSON array of services to load instead of the sample catalog")

	var admin struct{ username, email, password string }
	seedAdmin := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin account if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			auth := services.NewAuthService(database.DB, config.Load())
			created, err := seedUser(auth, admin.username, admin.email, admin.password, models.RoleAdmin)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s <%s>\n", admin.username, admin.email)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "admin already exists: %s\n", admin.email)
			}
			return nil
		},
	}
	seedAdmin.Flags().StringVar(&admin.username, "username", "admin_user", "Admin username")
	seedAdmin.Flags().StringVar(&admin.email, "email", "admin@e-cuisine.example", "Admin email")
	seedAdmin.Flags().StringVar(&admin.password, "password", "", "Admin password (min 8 characters)")
	_ = seedAdmin.MarkFlagRequired("password")

	var usersPassword string
	seedUsers := &cobra.Command{
		Use:   "seed-users",
		Short: "Create the sample user and admin accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			auth := services.NewAuthService(database.DB, config.Load())
			created := 0
			for _, u := range sampleUsers {
				ok, err := seedUser(auth, u.Username, u.Email, usersPassword, u.Role)
				if err != nil {
					return fmt.Errorf("seed %s: %w", u.Email, err)
				}
				if ok {
					created++
					fmt.Fprintf(cmd.OutOrStdout(), "created %s <%s> [%s]\n", u.Username, u.Email, u.Role)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d new users added\n", created)
			return printUsers(cmd, auth)
		},
	}
	seedUsers.Flags().StringVar(&usersPassword, "password", "", "Password given to every sample account")
	_ = seedUsers.MarkFlagRequired("password")

	listUsers := &cobra.Command{
		Use:   "list-users",
		Short: "List every account without password hashes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printUsers(cmd, services.NewAuthService(database.DB, config.Load()))
		},
	}

	cmd.AddCommand(seedServices, seedAdmin, seedUsers, listUsers)
	return cmd
}

// seedUser creates an account unless the email is already registered.
func seedUser(auth *services.AuthService, username, email, password, role string) (bool, error) {
	_, err := auth.CreateUser(username, email, password, role)
	if errors.Is(err, services.ErrEmailTaken) {
		slog.Info("account already exists", "email", email)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func printUsers(cmd *cobra.Command, auth *services.AuthService) error {
	users, err := auth.ListUsers()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "found %d users:\n", len(users))
	for _, u := range users {
		fmt.Fprintf(cmd.OutOrStdout(), "- %s <%s> [%s] (id: %s)\n", u.Username, u.Email, u.Role, u.ID)
	}
	return nil
}
