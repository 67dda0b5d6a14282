package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/swarmdash/internal/chat"
	"github.com/alfredjeanlab/swarmdash/internal/client"
	"github.com/alfredjeanlab/swarmdash/internal/config"
	"github.com/alfredjeanlab/swarmdash/internal/events"
	"github.com/alfredjeanlab/swarmdash/internal/ui"
)

var (
	apiURL     string
	userID     string
	jsonOutput bool
	logLevel   string

	cfg         *config.Config
	swarmClient client.SwarmClient
	publisher   events.Publisher = events.NoopPublisher{}
)

var rootCmd = &cobra.Command{
	Use:          "swarm <command>",
	Short:        "Terminal client for the YieldSwarm agent backend",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(logLevel); err != nil {
			return err
		}
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c
		swarmClient = client.NewHTTPClient(cfg.APIURL)

		pub, err := events.NewPublisher(cfg.NATSURL)
		if err != nil {
			// Events are best effort; the commands work without a bus.
			slog.Warn("events: disabled", "error", err)
		} else {
			publisher = pub
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if swarmClient != nil {
			swarmClient.Close()
		}
		if publisher != nil {
			publisher.Close()
		}
	},
}

// loadConfig resolves settings: flags over environment over the active
// profile over defaults.
func loadConfig() (*config.Config, error) {
	var active *config.Profile
	if path, err := profilesPath(); err == nil {
		ps, err := config.LoadProfiles(path)
		if err != nil {
			slog.Warn("config: ignoring profiles", "error", err)
		} else {
			active = ps.ActiveProfile()
		}
	}

	c, err := config.Load(active)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		c.APIURL = apiURL
	}
	if userID != "" {
		c.UserID = userID
	}
	return c, nil
}

func endpoints() chat.Endpoints {
	return chat.Endpoints{Backend: cfg.APIURL, Coordinator: cfg.CoordinatorURL}
}

// setupLogging installs a text handler on stderr at the given level.
func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return fmt.Errorf("invalid --log-level %q (debug, info, warn or error)", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (default $SWARM_API_URL, active profile, or "+config.DefaultAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "user ID sent with chat and portfolio requests (default $SWARM_USER_ID or generated)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "agents", Title: "Agents:"},
		&cobra.Group{ID: "portfolio", Title: "Portfolio:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Agents
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(subscribeCmd)

	// Portfolio
	rootCmd.AddCommand(investCmd)
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(opportunitiesCmd)

	// System
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(profileCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
