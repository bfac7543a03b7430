package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/healthcare/clinic-dashboard/internal/platform/sandbox"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clinic-datagen",
		Short: "Generate a synthetic clinic as a SQL INSERT script",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

			cfg, err := resolveConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cfg, time.Now, logger)
		},
	}

	defaults := sandbox.DefaultSeedConfig()
	f := cmd.Flags()
	f.String("config", "", "YAML file with counts, database, output and seed")
	f.String("out", defaults.Output, "Output script path")
	f.String("database", defaults.Database, "Database named in the USE directive")
	f.Uint64("seed", 0, "Random seed (0 picks one)")
	f.Int("patients", defaults.Patients, "Number of patients")
	f.Int("doctors", defaults.Doctors, "Number of doctors")
	f.Int("services", defaults.Services, "Number of services")
	f.Int("employees", defaults.Employees, "Number of non-doctor employees")
	f.Int("appointments", defaults.Appointments, "Number of appointments")
	f.Int("feedback", defaults.Feedback, "Number of feedback rows")
	f.Int("referrals", defaults.Referrals, "Number of referrals")
	return cmd
}

// resolveConfig layers defaults, the optional yaml file and then any flag the
// user set explicitly.
func resolveConfig(f *pflag.FlagSet) (sandbox.SeedConfig, error) {
	cfg := sandbox.DefaultSeedConfig()
	if path, _ := f.GetString("config"); path != "" {
		loaded, err := sandbox.LoadSeedConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if f.Changed("out") {
		cfg.Output, _ = f.GetString("out")
	}
	if f.Changed("database") {
		cfg.Database, _ = f.GetString("database")
	}
	if f.Changed("seed") {
		cfg.Seed, _ = f.GetUint64("seed")
	}
	counts := map[string]*int{
		"patients":     &cfg.Patients,
		"doctors":      &cfg.Doctors,
		"services":     &cfg.Services,
		"employees":    &cfg.Employees,
		"appointments": &cfg.Appointments,
		"feedback":     &cfg.Feedback,
		"referrals":    &cfg.Referrals,
	}
	for name, dst := range counts {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	return cfg, cfg.Validate()
}

func run(cfg sandbox.SeedConfig, now func() time.Time, logger zerolog.Logger) error {
	ds, err := sandbox.NewGenerator(cfg.Seed, now).Generate(cfg)
	if err != nil {
		return err
	}
	if err := ds.WriteFile(cfg.Output); err != nil {
		return err
	}

	event := logger.Info().Str("output", cfg.Output).Str("database", cfg.Database)
	for table, n := range ds.Counts() {
		event = event.Int(table, n)
	}
	event.Msg("Data generation complete")
	return nil
}
