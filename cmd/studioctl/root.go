package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/adampresley/studiosite/cmd/studioctl/internal/seed"
	"github.com/adampresley/studiosite/pkg/database"
	"github.com/adampresley/studiosite/pkg/models"
	"github.com/adampresley/studiosite/pkg/services"
	"github.com/rfberaldo/sqlz"
	"github.com/spf13/cobra"
)

const defaultDSN = "file:./data/studiosite.db"

/*
App carries the database and services shared by every command. It is filled
in by the root command's pre-run once flags are parsed.
*/
type App struct {
	DSN        string
	BcryptCost int

	db                *sqlz.DB
	clientService     services.ClientServicer
	imageService      services.ImageServicer
	profileService    services.ProfileServicer
	shootService      services.ShootServicer
	siteConfigService services.SiteConfigServicer
}

func Execute() error {
	return newRootCmd(&App{}).Execute()
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "studioctl",
		Short:        "Operator tasks for the studio website database",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open()
		},
	}

	dsn := os.Getenv("DSN")
	if dsn == "" {
		dsn = defaultDSN
	}

	cmd.PersistentFlags().StringVar(&app.DSN, "dsn", dsn, "SQLite data source name (env DSN)")
	cmd.PersistentFlags().IntVar(&app.BcryptCost, "bcrypt-cost", 12, "bcrypt cost used when hashing passwords")

	cmd.AddCommand(
		newMigrateCmd(app),
		newCreateAdminCmd(app),
		newCreateClientCmd(app),
		newSeedCmd(app),
	)

	return cmd
}

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// open() already migrated
			fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
			return nil
		},
	}
}

func newCreateAdminCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin profile that can sign in to the admin panel",
		Args:  cobra.NoArgs,
		RunE:  app.handleCreateAdmin,
	}

	cmd.Flags().String("email", "", "email address used to sign in")
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("password", "", "password (env ADMIN_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newCreateClientCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-client",
		Short: "Create a client portal account",
		Args:  cobra.NoArgs,
		RunE:  app.handleCreateClient,
	}

	cmd.Flags().String("name", "", "client name")
	cmd.Flags().String("email", "", "client email, used for download notifications")
	cmd.Flags().String("code", "", "access code the client signs in with")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func newSeedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load site copy, staff, clients and shoots from a YAML file",
		Args:  cobra.NoArgs,
		RunE:  app.handleSeed,
	}

	cmd.Flags().StringP("file", "f", "seed.yaml", "path to the seed file")
	return cmd
}

func (a *App) open() error {
	var (
		err error
	)

	if err = database.EnsureDataDir(a.DSN); err != nil {
		return err
	}

	if a.db, err = database.Connect(a.DSN); err != nil {
		return err
	}

	if err = database.Migrate(a.db); err != nil {
		return err
	}

	a.clientService = services.NewClientService(services.ClientServiceConfig{DB: a.db})
	a.imageService = services.NewImageService(services.ImageServiceConfig{DB: a.db})
	a.profileService = services.NewProfileService(services.ProfileServiceConfig{DB: a.db, BcryptCost: a.BcryptCost})
	a.shootService = services.NewShootService(services.ShootServiceConfig{DB: a.db})
	a.siteConfigService = services.NewSiteConfigService(services.SiteConfigServiceConfig{DB: a.db})

	return nil
}

func (a *App) handleCreateAdmin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	name, _ := cmd.Flags().GetString("name")
	password, _ := cmd.Flags().GetString("password")

	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}

	profile := &models.Profile{
		Email: email,
		Name:  name,
		Role:  models.RoleAdmin,
	}

	if err := a.profileService.Create(profile, password); err != nil {
		return fmt.Errorf("error creating admin: %w", err)
	}

	slog.Info("admin created", "id", profile.ID, "email", profile.Email)
	fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", profile.Email, profile.ID)
	return nil
}

func (a *App) handleCreateClient(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	code, _ := cmd.Flags().GetString("code")

	client := &models.Client{
		Name:     name,
		Email:    email,
		Password: code,
	}

	if err := a.clientService.Create(client); err != nil {
		return fmt.Errorf("error creating client: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created client %s (id %d)\n", client.Name, client.ID)
	return nil
}

func (a *App) handleSeed(cmd *cobra.Command, args []string) error {
	var (
		err    error
		f      *os.File
		file   seed.File
		result seed.Result
	)

	fileName, _ := cmd.Flags().GetString("file")

	if f, err = os.Open(fileName); err != nil {
		return fmt.Errorf("error opening seed file: %w", err)
	}

	defer f.Close()

	if file, err = seed.Parse(f); err != nil {
		return err
	}

	seeder := seed.NewSeeder(seed.SeederConfig{
		ClientService:     a.clientService,
		ImageService:      a.imageService,
		ProfileService:    a.profileService,
		ShootService:      a.shootService,
		SiteConfigService: a.siteConfigService,
	})

	if result, err = seeder.Apply(file); err != nil {
		return err
	}

	fmt.Fprintf(
		cmd.OutOrStdout(),
		"seeded %d config keys, %d staff, %d clients, %d shoots, %d images (%d already present)\n",
		result.SiteConfigKeys, result.Staff, result.Clients, result.Shoots, result.Images, result.Skipped,
	)

	return nil
}
