package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/grid-picks/internal/api"
	"github.com/yourusername/grid-picks/internal/config"
	"github.com/yourusername/grid-picks/internal/engine"
	"github.com/yourusername/grid-picks/internal/logger"
	"github.com/yourusername/grid-picks/internal/metrics"
	"github.com/yourusername/grid-picks/internal/repository"
	"github.com/yourusername/grid-picks/internal/service"
	"github.com/yourusername/grid-picks/internal/window"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	nowFlag    string
	appLog     *logrus.Logger
	cfg        *config.Config
	client     *api.Client
	repos      *repository.Repositories
	calc       *window.Calculator
	betService *service.BetService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&nowFlag, "now", "", "Evaluate at this RFC3339 instant instead of the current time")

	rootCmd.AddCommand(windowsCmd, formCmd, submitCmd, deleteCmd, lineupCmd, monitorCmd)
}

var rootCmd = &cobra.Command{
	Use:           "gridpicks",
	Short:         "Betting window and limits client for the grid picks contest",
	Long:          `Evaluates betting windows, bet forms and lineups for a championship and submits bets within its limits.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if client != nil {
			_ = client.Close()
		}
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies() error {
	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.SetOutput(os.Stderr)

	metrics.InitRegistry()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	calc = window.NewCalculator(loc, cfg.WindowPolicy())

	httpCfg := api.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.APITimeout()
	httpCfg.MaxRetries = cfg.API.RetryAttempts
	httpCfg.RateLimit = cfg.API.RateLimit
	client = api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		HTTP:    httpCfg,
	}, appLog)

	repos, err = repository.NewRepositories(client, repository.NewCache(cfg.CacheTTL()), cfg.Championship.ID)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	betService = service.NewBetService(repos, engine.New(calc), appLog)
	return nil
}

// now returns the evaluation instant, honouring --now.
func now() (time.Time, error) {
	if nowFlag == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, nowFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: %w", nowFlag, err)
	}
	return t, nil
}
