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
	"github.com/spf13/viper"

	"github.com/hrygo/meetsense/internal/profile"
	"github.com/hrygo/meetsense/plugin/ai"
	"github.com/hrygo/meetsense/plugin/calendar"
	"github.com/hrygo/meetsense/server"
	"github.com/hrygo/meetsense/server/service/scheduler"
	"github.com/hrygo/meetsense/store"
	"github.com/hrygo/meetsense/store/db/sqlite"
)

const greetingBanner = `meetsense - meeting scheduling service`

var rootCmd = &cobra.Command{
	Use:   "meetsense",
	Short: "An AI-assisted meeting scheduling service",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		instanceProfile, err := profile.GetProfile()
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		db, err := sqlite.NewDB(instanceProfile.DSN)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		eventStore := store.New(db)

		registry, err := buildRegistry(instanceProfile, eventStore)
		if err != nil {
			return fmt.Errorf("failed to build calendar registry: %w", err)
		}

		var completion ai.CompletionService
		if instanceProfile.IsCompletionEnabled() {
			completion, err = ai.NewCompletionService(&ai.CompletionConfig{
				BaseURL: instanceProfile.CompletionBaseURL,
				APIKey:  instanceProfile.CompletionAPIKey,
				Model:   instanceProfile.CompletionModel,
				Timeout: instanceProfile.CompletionTimeout,
			})
			if err != nil {
				slog.Warn("completion backend disabled", slog.String("error", err.Error()))
				completion = nil
			}
		}

		engine := scheduler.NewEngine(registry, completion, instanceProfile.Location())

		srv, err := server.NewServer(instanceProfile, engine)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		fmt.Println(greetingBanner)
		go func() {
			<-ctx.Done()
			srv.Shutdown(context.Background())
		}()
		return srv.Start(ctx)
	},
}

// buildRegistry wires the configured availability backend behind the
// per-participant session registry.
func buildRegistry(p *profile.Profile, eventStore *store.Store) (*calendar.Registry, error) {
	switch p.CalendarProvider {
	case "store":
		provider := calendar.NewStoreProvider(eventStore)
		return calendar.NewRegistry(func(string) (calendar.Provider, error) {
			return provider, nil
		}), nil
	case "ics":
		provider := calendar.NewICSProvider(p.ICSFeeds, nil)
		return calendar.NewRegistry(func(string) (calendar.Provider, error) {
			return provider, nil
		}), nil
	case "static":
		provider := calendar.NewStaticProvider(nil)
		return calendar.NewRegistry(func(string) (calendar.Provider, error) {
			return provider, nil
		}), nil
	default:
		return nil, fmt.Errorf("unsupported calendar provider %q", p.CalendarProvider)
	}
}

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8082)
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("timezone", "Asia/Kolkata")
	viper.SetDefault("calendar-provider", "store")
	viper.SetDefault("completion-timeout", "10s")
	viper.SetDefault("rate-limit-rps", 10)
	viper.SetDefault("rate-limit-burst", 20)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8082, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name")
	rootCmd.PersistentFlags().String("timezone", "Asia/Kolkata", "local zone for business hours")
	rootCmd.PersistentFlags().String("calendar-provider", "store", `availability backend: "store", "ics" or "static"`)

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("meetsense")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
