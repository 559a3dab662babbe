package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"centraldoconsumidor/backend/internal/models"
)

var refreshFlags struct {
	all bool
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [company_id...]",
	Short: "Recompute and store company reputations",
	RunE:  runRefresh,
}

var rankFlags struct {
	category string
	limit    int
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Print the best rated companies",
	RunE:  runRank,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshFlags.all, "all", false, "Refresh every company")

	f := rankCmd.Flags()
	f.StringVar(&rankFlags.category, "category", "", "Only companies of this category")
	f.IntVar(&rankFlags.limit, "limit", 10, "Number of companies to print")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	if !refreshFlags.all && len(args) == 0 {
		return fmt.Errorf("give company ids or --all")
	}
	s, err := openStorage()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	ids := args
	if refreshFlags.all {
		companies, err := s.ListCompanies(ctx, "")
		if err != nil {
			return err
		}
		ids = nil
		for _, c := range companies {
			ids = append(ids, c.ID)
		}
	}

	svc := reputationService(s)
	out := cmd.OutOrStdout()
	for _, id := range ids {
		rep, err := svc.Refresh(ctx, id)
		if err != nil {
			return fmt.Errorf("refresh %s: %w", id, err)
		}
		fmt.Fprintf(out, "%s\t%d\t%s\n", rep.CompanyID, rep.OverallScore, rep.Trend)
	}
	fmt.Fprintf(out, "Refreshed %d companies.\n", len(ids))
	return nil
}

func runRank(cmd *cobra.Command, _ []string) error {
	var category models.Category
	if rankFlags.category != "" {
		parsed, ok := models.ParseCategory(rankFlags.category)
		if !ok {
			return fmt.Errorf("unknown category %q", rankFlags.category)
		}
		category = parsed
	}

	s, err := openStorage()
	if err != nil {
		return err
	}
	reps, err := reputationService(s).TopCompanies(commandContext(cmd), rankFlags.limit, category)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, rep := range reps {
		fmt.Fprintf(out, "%2d. %-30s %3d  %v\n", i+1, rep.CompanyName, rep.OverallScore, []string(rep.Badges))
	}
	return nil
}
