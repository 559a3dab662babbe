package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"centraldoconsumidor/backend/internal/escalation"
	"centraldoconsumidor/backend/internal/models"
)

var escalationCmd = &cobra.Command{
	Use:   "escalation",
	Short: "Quote and follow legal escalations",
}

var escalationQuoteFlags struct {
	category   string
	complexity string
}

var escalationQuoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Print the cost, time and required documents of an escalation",
	RunE:  runEscalationQuote,
}

var escalationStatusCmd = &cobra.Command{
	Use:   "status <escalation_id> <status>",
	Short: "Move an escalation forward on behalf of the legal team",
	Args:  cobra.ExactArgs(2),
	RunE:  runEscalationStatus,
}

func init() {
	f := escalationQuoteCmd.Flags()
	f.StringVar(&escalationQuoteFlags.category, "category", "", "Complaint category")
	f.StringVar(&escalationQuoteFlags.complexity, "complexity", "medium", "simple, medium or complex")
	escalationCmd.AddCommand(escalationQuoteCmd)
	escalationCmd.AddCommand(escalationStatusCmd)
}

func runEscalationQuote(cmd *cobra.Command, _ []string) error {
	complexity, ok := escalation.ParseComplexity(escalationQuoteFlags.complexity)
	if !ok {
		return fmt.Errorf("unknown complexity %q", escalationQuoteFlags.complexity)
	}
	category, _ := models.ParseCategory(escalationQuoteFlags.category)
	est := escalation.Quote(category, complexity)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", est.Name, est.Template)
	fmt.Fprintf(out, "Custo: R$ %.2f\n", est.Cost)
	fmt.Fprintf(out, "Prazo: %s\n", est.Time)
	for _, doc := range est.Requirements {
		fmt.Fprintf(out, "- %s\n", doc)
	}
	return nil
}

func runEscalationStatus(cmd *cobra.Command, args []string) error {
	status, ok := models.ParseEscalationStatus(args[1])
	if !ok {
		return fmt.Errorf("unknown escalation status %q", args[1])
	}

	s, err := openStorage()
	if err != nil {
		return err
	}
	updated, err := escalation.NewService(s).UpdateStatus(commandContext(cmd), args[0], status)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Escalation %s is now %s\n", updated.ID, updated.Status)
	return nil
}
