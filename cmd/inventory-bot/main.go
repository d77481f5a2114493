// Command inventory-bot runs the Telegram inventory collection bot: it
// walks each conversation through point of sale, container, acrylic
// selection, and photo collection, then archives the photos in the
// configured storage backend grouped by point of sale.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/inventory-drive-bot/internal/bot"
	"github.com/fpang/inventory-drive-bot/internal/config"
	"github.com/fpang/inventory-drive-bot/internal/drive"
	"github.com/fpang/inventory-drive-bot/internal/flow"
	"github.com/fpang/inventory-drive-bot/internal/logging"
	"github.com/fpang/inventory-drive-bot/internal/s3store"
	"github.com/fpang/inventory-drive-bot/internal/telegram"
	"github.com/fpang/inventory-drive-bot/internal/upload"
)

// CLI flags
var (
	catalogFlag  string
	perPhotoFlag bool
)

// rootCmd is the main Cobra command.
var rootCmd = &cobra.Command{
	Use:   "inventory-bot",
	Short: "Telegram bot that archives inventory photos per point of sale",
	Long: `inventory-bot collects structured inventory evidence through a Telegram
conversation: a point-of-sale name, a container, the acrylics present, and up
to five photos per acrylic. On /finalizar every photo is uploaded into the
storage backend under a folder named after the point of sale, with
deterministic archive filenames.

Configuration comes from environment variables (a .env file is honored):
BOT_TOKEN, STORAGE_BACKEND (drive|s3), and the backend's own variables.

Examples:
  inventory-bot
  inventory-bot --catalog catalog.yaml --per-photo-progress`,
	RunE: runMain,
}

func init() {
	rootCmd.Flags().StringVar(&catalogFlag, "catalog", "", "YAML catalog file overriding the built-in container/acrylic options")
	rootCmd.Flags().BoolVar(&perPhotoFlag, "per-photo-progress", false, "Send one progress message per uploaded photo")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) error {
	start := time.Now()
	_ = godotenv.Load()
	logging.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Configuration invalid")
		return err
	}

	if catalogFlag != "" {
		cfg.CatalogPath = catalogFlag
	}
	catalog := config.DefaultCatalog()
	if cfg.CatalogPath != "" {
		catalog, err = config.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.CatalogPath).Msg("Catalog file invalid")
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, diagnoser, rootID, err := buildStore(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.StorageBackend).Msg("Storage backend unavailable")
		return err
	}

	tg := telegram.NewClient(cfg.BotToken)
	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Telegram token rejected")
		return err
	}

	pipeline := upload.NewPipeline(store, tg, rootID, cfg.UploadWorkers)
	machine := flow.New(catalog)
	dispatcher := bot.New(tg, machine, pipeline, diagnoser, bot.Options{
		PollTimeoutSeconds: cfg.PollTimeoutSeconds,
		PerPhotoProgress:   perPhotoFlag,
		RootID:             rootID,
		EnvSummary:         envSummary(cfg),
	})

	logging.NewStartupLogger("inventory-bot").
		Config("botUsername", me.Username).
		Config("storageBackend", cfg.StorageBackend).
		Config("uploadWorkers", fmt.Sprintf("%d", cfg.UploadWorkers)).
		Feature("perPhotoProgress", perPhotoFlag).
		Feature("customCatalog", cfg.CatalogPath != "").
		InitDuration(time.Since(start)).
		Log()

	return dispatcher.Run(ctx)
}

// buildStore constructs the configured asset store backend, returning
// the store, its diagnoser, and the storage root id.
func buildStore(ctx context.Context, cfg *config.Config) (upload.AssetStore, bot.Diagnoser, string, error) {
	switch cfg.StorageBackend {
	case config.BackendDrive:
		client, err := drive.NewClient(ctx, cfg.ServiceAccountJSON)
		if err != nil {
			return nil, nil, "", err
		}
		return client, client, cfg.DriveRootFolderID, nil

	case config.BackendS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, "", fmt.Errorf("load AWS config: %w", err)
		}
		store := s3store.New(s3.NewFromConfig(awsCfg), cfg.S3Bucket)
		return store, store, cfg.S3RootPrefix, nil
	}
	return nil, nil, "", fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// envSummary renders the /diagnostico configuration presence lines.
// Values are never included, only presence.
func envSummary(cfg *config.Config) []string {
	present := func(ok bool) string {
		if ok {
			return "✅ Configurado"
		}
		return "❌ Faltante"
	}

	lines := []string{
		"• BOT_TOKEN: " + present(cfg.BotToken != ""),
		"• STORAGE_BACKEND: " + cfg.StorageBackend,
	}
	switch cfg.StorageBackend {
	case config.BackendDrive:
		lines = append(lines,
			"• GOOGLE_DRIVE_ROOT_FOLDER_ID: "+present(cfg.DriveRootFolderID != ""),
			"• GOOGLE_SERVICE_ACCOUNT_JSON: "+present(len(cfg.ServiceAccountJSON) > 0),
		)
	case config.BackendS3:
		lines = append(lines, "• S3_BUCKET: "+present(cfg.S3Bucket != ""))
	}
	return lines
}
