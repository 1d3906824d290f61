package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"confposter/pkg/config"
	"confposter/pkg/instagram"
	"confposter/pkg/logger"
	"confposter/pkg/notify"
	"confposter/pkg/ratelimit"
	"confposter/pkg/scheduler"
	"confposter/pkg/supabase"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "confposter",
	Short: "Quota-aware Instagram publisher for moderated confessions",
	Long: `confposter publishes moderated, user-submitted confession images to
Instagram business accounts in bounded batches.

Each run selects eligible rows from a hosted table, respects the
platform's content publishing quota, publishes at most a few posts,
and durably records the outcome back into the table. Partial failures
alert an operator by email instead of failing the run.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./confposter.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`confposter {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// setup loads configuration and initializes the global logger.
func setup() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildSchedulers wires one scheduler per tenant from the configuration.
func buildSchedulers(cfg *config.Config) map[string]*scheduler.Scheduler {
	log := logger.GetLogger()
	store := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Supabase.RequestTimeout, log)
	alerts := notify.NewNotifier(notify.NewSMTPSender(cfg.Email), log)
	clock := scheduler.NewSystemClock()

	schedulers := make(map[string]*scheduler.Scheduler, len(cfg.Tenants))
	for _, tenant := range cfg.Tenants {
		limiter := ratelimit.NewTokenBucket(cfg.Scheduler.RequestsPerMinute, time.Minute)
		publisher := instagram.NewClient(tenant.BusinessAccountID, tenant.AccessToken, cfg.Scheduler.RequestTimeout, limiter, log)
		schedulers[tenant.Name] = scheduler.New(store, publisher, alerts, tenant, cfg.Scheduler, clock, log)
	}
	return schedulers
}

// selectSchedulers returns the scheduler for the named tenant, or all of
// them in config order when name is empty.
func selectSchedulers(cfg *config.Config, schedulers map[string]*scheduler.Scheduler, name string) ([]*scheduler.Scheduler, error) {
	if name == "" {
		out := make([]*scheduler.Scheduler, 0, len(cfg.Tenants))
		for _, tenant := range cfg.Tenants {
			out = append(out, schedulers[tenant.Name])
		}
		return out, nil
	}

	tenant, ok := cfg.Tenant(name)
	if !ok {
		return nil, fmt.Errorf("unknown tenant %q", name)
	}
	return []*scheduler.Scheduler{schedulers[tenant.Name]}, nil
}
