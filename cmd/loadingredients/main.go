package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"foodgram-backend/config"
	"foodgram-backend/database"
	"foodgram-backend/importer"
	"foodgram-backend/logging"
	"foodgram-backend/models"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "loadingredients <file.csv|file.json>",
		Short: "Load the ingredient catalog into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

			db, err := database.Connect(cfg.Database)
			if err != nil {
				return err
			}

			records, err := importer.ReadFile(args[0])
			if err != nil {
				return err
			}
			result, err := importer.Load(cmd.Context(), db, records, batchSize)
			if err != nil {
				return err
			}
			var total int64
			if err := db.WithContext(cmd.Context()).Model(&models.Ingredient{}).Count(&total).Error; err != nil {
				return err
			}
			cmd.Printf("loaded %d of %d ingredients, catalog now holds %d\n", result.Inserted, result.Read, total)
			return nil
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch", importer.DefaultBatchSize, "rows per insert statement")

	if err := godotenv.Load(); err != nil {
		logging.Debug().Msg("no .env file found, using environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("ingredient import failed")
		stop()
		os.Exit(1)
	}
}
