package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"go-meercat/internal/bot"
	"go-meercat/internal/config"
	"go-meercat/internal/db"
	"go-meercat/internal/editor"
	"go-meercat/internal/logging"
	"go-meercat/internal/nlu"
	"go-meercat/internal/probe"
	"go-meercat/internal/resolver"
	"go-meercat/internal/seed"
	"go-meercat/internal/web"
	"go-meercat/internal/webex"
)

var (
	envFile    string
	seedFile   string
	webhookURL string
)

var rootCmd = &cobra.Command{
	Use:   "meercat",
	Short: "Webex bot that finds Meraki equivalents of Catalyst switches and back",
	Long: `meercat serves the Webex and Dialogflow webhooks of the switch
equivalence bot. Settings come from the environment, optionally loaded from
an env file.

Examples:
  # Run with settings from .env
  meercat

  # Load the catalog from a seed file before serving
  meercat --env-file prod.env --seed catalog.yaml

  # Point the Webex webhooks at a public URL
  meercat webhooks --url https://meercat.example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

var webhooksCmd = &cobra.Command{
	Use:   "webhooks --url BASE_URL",
	Short: "Replace the bot's Webex webhooks with ones pointing at BASE_URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		logging.Init(cfg.LogLevel)
		api := webex.NewClient(cfg.WebexToken,
			webex.WithBaseURL(cfg.WebexAPIURL),
			webex.WithRetries(cfg.WebexRetries, time.Second),
		)
		_, err = api.RegisterWebhooks(cmd.Context(), webhookURL, cfg.WebhookSecret)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to an env file; ignored when missing")
	rootCmd.Flags().StringVar(&seedFile, "seed", "", "Path to a YAML catalog applied at start-up; overrides SEED_FILE")

	webhooksCmd.Flags().StringVar(&webhookURL, "url", "", "Public base URL of the bot")
	_ = webhooksCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(webhooksCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SilenceUsage = true
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("meercat exited")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	logging.Init(cfg.LogLevel)

	dsn := cfg.DBPath
	if cfg.DatabaseURL != "" {
		dsn = cfg.DatabaseURL
	}
	store, err := db.Open(dsn, db.WithTimeout(cfg.StoreTimeout))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := applySeed(ctx, store, cfg); err != nil {
		return err
	}

	api := webex.NewClient(cfg.WebexToken,
		webex.WithBaseURL(cfg.WebexAPIURL),
		webex.WithRetries(cfg.WebexRetries, time.Second),
	)
	agent, err := nlu.NewDialogflow(ctx, cfg.DialogflowProjectID, cfg.GoogleCredentials)
	if err != nil {
		return err
	}
	b, err := bot.New(ctx, api, resolver.New(store), editor.New(store), agent, probe.New(), bot.Config{
		Name:        cfg.BotName,
		EmailDomain: cfg.EmailDomain,
		Language:    cfg.DialogflowLanguage,
	})
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		Views:                 web.Engine(cfg.TemplatesDir),
		JSONEncoder:           jsoniter.Marshal,
		JSONDecoder:           jsoniter.Unmarshal,
		DisableStartupMessage: true,
	})
	web.SetupRoutes(app, b, cfg.BotName, cfg.WebhookSecret)

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		errc <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

// applySeed loads the seed catalog, if any, and makes sure the bootstrap
// admins exist.
func applySeed(ctx context.Context, store *db.Store, cfg *config.Config) error {
	path := cfg.SeedFile
	if seedFile != "" {
		path = seedFile
	}

	catalog := &seed.Catalog{}
	if path != "" {
		var err error
		if catalog, err = seed.Load(path); err != nil {
			return err
		}
	} else if len(cfg.BootstrapAdmins) == 0 {
		return nil
	}

	_, err := seed.Apply(ctx, store, catalog, cfg.BootstrapAdmins...)
	return err
}
