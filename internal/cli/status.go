package cli

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/globalsolution/ecoprev/internal/server"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Get current server status and runtime metrics",
	Long:  `Query the running ecoprev server for readiness and process resource usage.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := NewClient()

	data, status, err := client.Get("/status")
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if status != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", status, string(data))
	}

	if jsonOut {
		fmt.Println(string(data))
		return nil
	}

	var result server.StatusResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}

	fmt.Println("=== Server Status ===")
	fmt.Printf("\nVersion: %s\n", result.Version)
	fmt.Printf("Ready:   %t\n", result.Ready)

	rt := result.Runtime
	if rt == nil {
		return nil
	}

	fmt.Printf("\nProcess:\n")
	fmt.Printf("  PID:        %d\n", rt.Process.PID)
	fmt.Printf("  RSS:        %.1f MB\n", float64(rt.Process.RSSBytes)/1024/1024)
	fmt.Printf("  CPU:        %.1f%%\n", rt.Process.CPUPercent)
	fmt.Printf("  Threads:    %d\n", rt.Process.Threads)
	fmt.Printf("  Goroutines: %d\n", rt.Process.Goroutines)
	fmt.Printf("  Uptime:     %.0fs\n", rt.Process.UptimeSeconds)

	fmt.Printf("\nHost:\n")
	fmt.Printf("  CPU:    %.1f%% (%d cores)\n", rt.CPU.UsagePercent, rt.CPU.Cores)
	fmt.Printf("  Load:   %.2f %.2f %.2f\n", rt.CPU.Load1, rt.CPU.Load5, rt.CPU.Load15)
	fmt.Printf("  Memory: %.1f%% (%.1f / %.1f GB)\n",
		rt.Memory.UsagePercent,
		float64(rt.Memory.UsedBytes)/1024/1024/1024,
		float64(rt.Memory.TotalBytes)/1024/1024/1024)
	if rt.Memory.SwapTotalBytes > 0 {
		fmt.Printf("  Swap:   %.1f / %.1f GB\n",
			float64(rt.Memory.SwapUsedBytes)/1024/1024/1024,
			float64(rt.Memory.SwapTotalBytes)/1024/1024/1024)
	}

	return nil
}
