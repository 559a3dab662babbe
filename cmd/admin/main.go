package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"centraldoconsumidor/backend/internal/analysis"
	"centraldoconsumidor/backend/internal/complaint"
	"centraldoconsumidor/backend/internal/config"
	"centraldoconsumidor/backend/internal/logging"
	"centraldoconsumidor/backend/internal/reputation"
	"centraldoconsumidor/backend/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Operator tools for the Central do Consumidor backend",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

var cfg *config.Config

func init() {
	cobra.OnInitialize(func() {
		cfg = config.Load()
		logging.Init(cfg.SlogLevel(), cfg.LogFormat)
	})

	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(channelsCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(companyCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(complaintCmd)
	rootCmd.AddCommand(escalationCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStorage connects to postgres only. No redis is needed for admin
// commands; cache and notification calls become no-ops.
func openStorage() (*storage.Service, error) {
	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN environment variable is required")
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return storage.NewStorageService(db, nil), nil
}

func reputationService(s *storage.Service) *reputation.Service {
	return reputation.NewService(reputation.NewCalculator(s, time.Now), s, cfg.ReputationCacheTTL)
}

func complaintService(s *storage.Service) (*complaint.Service, error) {
	table, err := config.LoadChannelTable(cfg.ChannelTablePath)
	if err != nil {
		return nil, err
	}
	return complaint.NewService(s, analysis.NewScorer(table), reputationService(s)), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
