package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"domainwatch/internal/config"
	"domainwatch/internal/database"
	"domainwatch/internal/models"
	"domainwatch/internal/repository"
	"domainwatch/internal/services"
)

var domainCmd = &cobra.Command{
	Use:   "domain",
	Short: "Manage tracked domains",
	Long:  "Add, list, and manage the domains being monitored.",
}

var domainListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tracked domains",
	Run:   runDomainList,
}

var domainAddCmd = &cobra.Command{
	Use:   "add [domain]",
	Short: "Add a domain",
	Args:  cobra.ExactArgs(1),
	Run:   runDomainAdd,
}

var domainRemoveCmd = &cobra.Command{
	Use:   "remove [domain]",
	Short: "Remove a domain and its notification history",
	Args:  cobra.ExactArgs(1),
	Run:   runDomainRemove,
}

var domainEnableCmd = &cobra.Command{
	Use:   "enable [domain]",
	Short: "Enable checking for a domain",
	Args:  cobra.ExactArgs(1),
	Run:   runDomainEnable,
}

var domainDisableCmd = &cobra.Command{
	Use:   "disable [domain]",
	Short: "Disable checking for a domain",
	Args:  cobra.ExactArgs(1),
	Run:   runDomainDisable,
}

var domainExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the domain list to a JSON file (stdout when omitted)",
	Args:  cobra.MaximumNArgs(1),
	Run:   runDomainExport,
}

var domainImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import domains from an export file",
	Args:  cobra.ExactArgs(1),
	Run:   runDomainImport,
}

var domainNotes string

func init() {
	rootCmd.AddCommand(domainCmd)
	domainCmd.AddCommand(domainListCmd)
	domainCmd.AddCommand(domainAddCmd)
	domainCmd.AddCommand(domainRemoveCmd)
	domainCmd.AddCommand(domainEnableCmd)
	domainCmd.AddCommand(domainDisableCmd)
	domainCmd.AddCommand(domainExportCmd)
	domainCmd.AddCommand(domainImportCmd)

	domainAddCmd.Flags().StringVarP(&domainNotes, "notes", "n", "", "Free-form notes")
}

func getDomainService() (*services.DomainService, func()) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate("migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	domainRepo := repository.NewDomainRepository(db)
	return services.NewDomainService(domainRepo), func() { db.Close() }
}

func runDomainList(cmd *cobra.Command, args []string) {
	svc, cleanup := getDomainService()
	defer cleanup()

	domains, err := svc.List()
	if err != nil {
		log.Fatalf("Failed to list domains: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDOMAIN\tSTATUS\tEXPIRY\tENABLED\tLAST CHECKED")
	for _, d := range domains {
		enabled := "yes"
		if !d.Enabled {
			enabled = "no"
		}
		expiry := "-"
		if d.ExpiryDate != nil {
			expiry = d.ExpiryDate.Format("2006-01-02")
		}
		checked := "never"
		if d.LastChecked != nil {
			checked = d.LastChecked.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Status, expiry, enabled, checked)
	}
	w.Flush()
}

func runDomainAdd(cmd *cobra.Command, args []string) {
	svc, cleanup := getDomainService()
	defer cleanup()

	domain, err := svc.Create(args[0], domainNotes, true)
	if err != nil {
		log.Fatalf("Failed to add domain: %v", err)
	}
	fmt.Printf("Domain '%s' added (ID: %d)\n", domain.Name, domain.ID)
}

func runDomainRemove(cmd *cobra.Command, args []string) {
	svc, cleanup := getDomainService()
	defer cleanup()

	domain, err := svc.GetByName(args[0])
	if err != nil {
		log.Fatalf("Domain not found: %s", args[0])
	}
	if err := svc.Delete(domain.ID); err != nil {
		log.Fatalf("Failed to remove domain: %v", err)
	}
	fmt.Printf("Domain '%s' removed\n", domain.Name)
}

func runDomainEnable(cmd *cobra.Command, args []string) {
	setDomainEnabled(args[0], true)
}

func runDomainDisable(cmd *cobra.Command, args []string) {
	setDomainEnabled(args[0], false)
}

func setDomainEnabled(name string, enabled bool) {
	svc, cleanup := getDomainService()
	defer cleanup()

	domain, err := svc.GetByName(name)
	if err != nil {
		log.Fatalf("Domain not found: %s", name)
	}
	if _, err := svc.Update(domain.ID, nil, &enabled); err != nil {
		log.Fatalf("Failed to update domain: %v", err)
	}
	state := "enabled"
	if !enabled {
		state = "disabled"
	}
	fmt.Printf("Domain '%s' %s\n", domain.Name, state)
}

func runDomainExport(cmd *cobra.Command, args []string) {
	svc, cleanup := getDomainService()
	defer cleanup()

	file, err := svc.Export()
	if err != nil {
		log.Fatalf("Failed to export domains: %v", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode export: %v", err)
	}
	data = append(data, '\n')

	if len(args) == 0 {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(args[0], data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", args[0], err)
	}
	fmt.Printf("Exported %d domain(s) to %s\n", len(file.Domains), args[0])
}

func runDomainImport(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("Failed to read %s: %v", args[0], err)
	}

	var file models.DomainExportFile
	if err := json.Unmarshal(data, &file); err != nil {
		log.Fatalf("Invalid export file: %v", err)
	}

	svc, cleanup := getDomainService()
	defer cleanup()

	imported, skipped, err := svc.ImportFile(&file)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	fmt.Printf("Imported %d domain(s), skipped %d\n", imported, skipped)
}
