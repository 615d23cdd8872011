package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "domainwatch",
	Short: "Domain expiration monitor",
	Long:  "Domain Watch tracks domain registrations via WHOIS and alerts before they expire.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
