package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"domainwatch/internal/config"
	"domainwatch/internal/database"
	"domainwatch/internal/repository"
	"domainwatch/internal/services"
	"domainwatch/internal/whois"
)

var checkCmd = &cobra.Command{
	Use:   "check [domain]",
	Short: "Run an expiry check",
	Long:  "Check all enabled domains, or a single domain when one is given. Single-domain checks do not send notifications.",
	Args:  cobra.MaximumNArgs(1),
	Run:   runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	checker, domainRepo, cleanup := getChecker()
	defer cleanup()

	if len(args) == 1 {
		domain, err := domainRepo.GetByName(args[0])
		if err != nil {
			log.Fatalf("Domain not found: %s", args[0])
		}
		updated, err := checker.CheckDomain(domain.ID)
		if err != nil {
			log.Fatalf("Check failed: %v", err)
		}
		days := "-"
		if d := updated.DaysLeft(time.Now().UTC()); d != nil {
			days = fmt.Sprintf("%d", *d)
		}
		fmt.Printf("%s: status=%s days_left=%s\n", updated.Name, updated.Status, days)
		return
	}

	summary, err := checker.CheckAll(context.Background())
	if err != nil {
		log.Fatalf("Check run failed: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tSTATUS\tDAYS LEFT\tEXPIRY\tERROR")
	for _, r := range summary.Results {
		days := "-"
		if r.DaysLeft != nil {
			days = fmt.Sprintf("%d", *r.DaysLeft)
		}
		expiry := "-"
		if r.ExpiryDate != nil {
			expiry = r.ExpiryDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Domain, r.Status, days, expiry, r.Error)
	}
	w.Flush()
	fmt.Printf("Checked %d domain(s) in %s\n",
		summary.CheckedCount, summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
}

func getChecker() (*services.CheckerService, *repository.DomainRepository, func()) {
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
	logRepo := repository.NewNotificationLogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	settingsService := services.NewSettingsService(settingsRepo)
	notificationService := services.NewNotificationService(settingsService, logRepo)
	whoisClient := whois.New(cfg.Check.WhoisTimeoutDuration())
	checker := services.NewCheckerService(
		domainRepo, notificationService, whoisClient, cfg.Check.RateLimitDelayDuration())

	return checker, domainRepo, func() { db.Close() }
}
