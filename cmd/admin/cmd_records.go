package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"centraldoconsumidor/backend/internal/complaint"
	"centraldoconsumidor/backend/internal/models"
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Manage companies",
}

var companyAddFlags struct {
	name     string
	cnpj     string
	category string
}

var companyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a company",
	RunE:  runCompanyAdd,
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage consumers",
}

var userCreateFlags struct {
	name  string
	email string
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a consumer and print a token for it",
	RunE:  runUserCreate,
}

var complaintCmd = &cobra.Command{
	Use:   "complaint",
	Short: "Record company and channel responses",
}

var complaintStatusFlags struct {
	source  string
	message string
}

var complaintStatusCmd = &cobra.Command{
	Use:   "status <complaint_id> <status>",
	Short: "Move a complaint to a new status on behalf of a company or channel",
	Args:  cobra.ExactArgs(2),
	RunE:  runComplaintStatus,
}

func init() {
	f := companyAddCmd.Flags()
	f.StringVar(&companyAddFlags.name, "name", "", "Company name (required)")
	f.StringVar(&companyAddFlags.cnpj, "cnpj", "", "CNPJ")
	f.StringVar(&companyAddFlags.category, "category", "", "Business category (required)")
	_ = companyAddCmd.MarkFlagRequired("name")
	_ = companyAddCmd.MarkFlagRequired("category")
	companyCmd.AddCommand(companyAddCmd)

	f = userCreateCmd.Flags()
	f.StringVar(&userCreateFlags.name, "name", "", "Consumer name (required)")
	f.StringVar(&userCreateFlags.email, "email", "", "Consumer email (required)")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("email")
	userCmd.AddCommand(userCreateCmd)

	f = complaintStatusCmd.Flags()
	f.StringVar(&complaintStatusFlags.source, "source", string(models.SourceCompany), "Who reports the change: company, channel or system")
	f.StringVar(&complaintStatusFlags.message, "message", "", "Message shown to the consumer")
	complaintCmd.AddCommand(complaintStatusCmd)
}

func runCompanyAdd(cmd *cobra.Command, _ []string) error {
	category, ok := models.ParseCategory(companyAddFlags.category)
	if !ok {
		return fmt.Errorf("unknown category %q", companyAddFlags.category)
	}
	s, err := openStorage()
	if err != nil {
		return err
	}

	company := &models.Company{Name: companyAddFlags.name, CNPJ: companyAddFlags.cnpj, Category: category}
	if err := s.SaveCompany(commandContext(cmd), company); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Company %s created with id %s\n", company.Name, company.ID)
	return nil
}

func runUserCreate(cmd *cobra.Command, _ []string) error {
	s, err := openStorage()
	if err != nil {
		return err
	}

	user := &models.User{Name: userCreateFlags.name, Email: userCreateFlags.email}
	if err := s.SaveUser(commandContext(cmd), user); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "User %s created with id %s\n", user.Email, user.ID)
	return runToken(cmd, []string{user.ID})
}

func runComplaintStatus(cmd *cobra.Command, args []string) error {
	status, ok := models.ParseStatus(args[1])
	if !ok {
		return fmt.Errorf("unknown status %q", args[1])
	}
	source, ok := models.ParseUpdateSource(complaintStatusFlags.source)
	if !ok || source == models.SourceUser {
		return fmt.Errorf("source must be company, channel or system")
	}

	s, err := openStorage()
	if err != nil {
		return err
	}
	svc, err := complaintService(s)
	if err != nil {
		return err
	}

	updated, err := svc.UpdateStatus(commandContext(cmd), complaint.StatusChange{
		ComplaintID: args[0],
		Status:      status,
		Source:      source,
		Message:     complaintStatusFlags.message,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Complaint %s is now %s\n", updated.ID, updated.Status)
	return nil
}
