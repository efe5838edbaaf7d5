package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "artelab-cli",
		Short: "ArteLab escrow CLI tool",
		Long:  `A command line interface for operating the ArteLab escrow API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ArteLab API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(consistencyCmd(), reconcileCmd())

	walletCmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}
	walletCmd.AddCommand(walletGetCmd(), walletReconcileCmd())

	rootCmd.AddCommand(ledgerCmd, walletCmd, migrateCmd())

	return rootCmd
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check escrow conservation across the whole ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiGet("/api/v1/ledger/consistency")
			if err != nil {
				return err
			}

			if consistent, ok := result["consistent"].(bool); ok && !consistent {
				printJSON(result)
				return fmt.Errorf("ledger is NOT consistent: %v", result["detail"])
			}

			fmt.Println("Consistency check PASSED")
			printJSON(result)
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile every wallet against the ledger fold",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiPost("/api/v1/ledger/reconcile", nil)
			if err != nil {
				return err
			}
			printJSON(result)

			if consistent, ok := result["ledger_consistent"].(bool); ok && !consistent {
				return fmt.Errorf("ledger is NOT consistent")
			}
			return nil
		},
	}
}

func walletGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <wallet-id>",
		Short: "Show a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiGet("/api/v1/wallets/" + args[0])
			if err != nil {
				return err
			}
			printJSON(result)
			return nil
		},
	}
}

func walletReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <wallet-id>",
		Short: "Reconcile one wallet against its ledger fold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiPost("/api/v1/wallets/"+args[0]+"/reconcile", nil)
			if err != nil {
				return err
			}
			printJSON(result)

			if reconciled, ok := result["reconciled"].(bool); ok && !reconciled {
				return fmt.Errorf("wallet %s does NOT match its ledger fold", args[0])
			}
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	var databaseURL, migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Run database migrations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}

			switch direction {
			case "up":
				return postgres.RunMigrations(databaseURL, migrationsPath)
			case "down":
				return postgres.RunMigrationsDown(databaseURL, migrationsPath)
			default:
				return fmt.Errorf("unknown direction %q, want up or down", direction)
			}
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection URL")
	cmd.Flags().StringVar(&migrationsPath, "migrations", "migrations", "Path to migration files")

	return cmd
}

func apiGet(path string) (map[string]any, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return decodeResponse(resp)
}

func apiPost(path string, body io.Reader) (map[string]any, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", body)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return decodeResponse(resp)
}

func decodeResponse(resp *http.Response) (map[string]any, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return result, nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(data))
}
