package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"centraldoconsumidor/backend/internal/analysis"
	"centraldoconsumidor/backend/internal/config"
	"centraldoconsumidor/backend/internal/models"
)

var channelsFlags struct {
	category string
	priority string
	all      bool
}

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Rank the recommended channels for a category and priority",
	RunE:  runChannels,
}

func init() {
	f := channelsCmd.Flags()
	f.StringVar(&channelsFlags.category, "category", "", "Complaint category")
	f.StringVar(&channelsFlags.priority, "priority", "MEDIUM", "Complaint priority")
	f.BoolVar(&channelsFlags.all, "all", false, "Rank every channel of the table, not only the candidates")
}

func runChannels(cmd *cobra.Command, _ []string) error {
	table, err := config.LoadChannelTable(cfg.ChannelTablePath)
	if err != nil {
		return err
	}
	scorer := analysis.NewScorer(table)

	category, _ := models.ParseCategory(channelsFlags.category)
	priority, ok := models.ParsePriority(channelsFlags.priority)
	if !ok {
		return fmt.Errorf("unknown priority %q", channelsFlags.priority)
	}

	candidates := scorer.RecommendChannels(category, priority)
	if channelsFlags.all {
		candidates = table.Names()
	}

	out := cmd.OutOrStdout()
	for _, rec := range scorer.RankAndExplain(candidates, category, priority) {
		mark := " "
		if rec.Recommended {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %3d  %s\n", mark, rec.Score, rec.Explanation)
	}
	return nil
}
