package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", "")
	},
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the current queue status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/queue", "")
	},
}

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join the waiting queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/queue/join", "")
	},
}

var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Leave the waiting queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/queue/leave", "")
	},
}

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Call the next players off the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/queue/call", "")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the matches currently being played",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/matches/active", "")
	},
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List the players in the directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/admin/users", "")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the player leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/leaderboard", "")
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire stale called queue entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/sweep", "")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", "")
	},
}

func performRequest(method, endpoint, body string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
