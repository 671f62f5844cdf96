package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	tripID  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tripledger-cli",
		Short: "TripLedger CLI tool",
		Long:  `A command line interface for interacting with the TripLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the TripLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&tripID, "trip", "", "Trip ID")

	balancesCmd := &cobra.Command{
		Use:   "balances",
		Short: "Show per-member net balances for a trip",
		Run: func(cmd *cobra.Command, args []string) {
			showBalances()
		},
	}

	settlementCmd := &cobra.Command{
		Use:   "settlement",
		Short: "Show the settlement plan for a trip",
		Run: func(cmd *cobra.Command, args []string) {
			showSettlement()
		},
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency for a trip",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	rootCmd.AddCommand(balancesCmd, settlementCmd, consistencyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func requireTrip() {
	if tripID == "" {
		fmt.Println("--trip is required")
		os.Exit(1)
	}
}

func get(path string) []byte {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}

func showBalances() {
	requireTrip()

	var result struct {
		TripID   string `json:"trip_id"`
		Balances []struct {
			MemberID      string `json:"member_id"`
			Amount        int64  `json:"amount"`
			AmountDecimal string `json:"amount_decimal"`
		} `json:"balances"`
	}
	if err := json.Unmarshal(get("/api/v1/trips/"+tripID+"/balances"), &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Balances for trip %s:\n", result.TripID)
	for _, b := range result.Balances {
		fmt.Printf("  %s: %s\n", b.MemberID, b.AmountDecimal)
	}
}

func showSettlement() {
	requireTrip()

	var result struct {
		TripID    string `json:"trip_id"`
		Transfers []struct {
			FromMemberID  string `json:"from_member_id"`
			ToMemberID    string `json:"to_member_id"`
			AmountDecimal string `json:"amount_decimal"`
		} `json:"transfers"`
	}
	if err := json.Unmarshal(get("/api/v1/trips/"+tripID+"/settlement"), &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if len(result.Transfers) == 0 {
		fmt.Println("Trip is settled, no transfers needed")
		return
	}

	fmt.Printf("Settlement plan for trip %s:\n", result.TripID)
	for _, t := range result.Transfers {
		fmt.Printf("  %s pays %s %s\n", t.FromMemberID, t.ToMemberID, t.AmountDecimal)
	}
}

func checkConsistency() {
	requireTrip()

	body := get("/api/v1/trips/" + tripID + "/consistency")

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Consistency check PASSED\n")
	fmt.Printf("Status: %s\n", result["status"])
}
