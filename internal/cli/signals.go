package cli

import (
	"encoding/json"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
)

// signalResult is what stop and reload print once the signal is delivered.
type signalResult struct {
	Status string `json:"status"`
	PID    int    `json:"pid"`
	Signal string `json:"signal"`
}

var (
	stopCmd = newSignalCommand(
		"stop",
		"Stop the running ecoprev server",
		`Stop the ecoprev server by sending SIGTERM to the process in the PID file.
In-flight predictions are allowed to finish before the listener closes.`,
		syscall.SIGTERM,
		"stopped",
	)
	reloadCmd = newSignalCommand(
		"reload",
		"Reload the ecoprev server configuration",
		`Ask the ecoprev server to re-read its configuration by sending SIGHUP.
Only the log level and rate limit are applied; models are loaded once at startup.`,
		syscall.SIGHUP,
		"reload_requested",
	)
)

func init() {
	rootCmd.AddCommand(stopCmd, reloadCmd)
}

func newSignalCommand(use, short, long string, sig syscall.Signal, status string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := signalServer(sig)
			if err != nil {
				return err
			}
			out, err := formatSignalResult(jsonOut, signalResult{Status: status, PID: pid, Signal: signalName(sig)})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&pidFile, "pid-file", "", "PID file path (overrides config)")
	return cmd
}

func formatSignalResult(asJSON bool, res signalResult) (string, error) {
	if asJSON {
		data, err := json.Marshal(res)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return fmt.Sprintf("Sent %s to process %d (%s)", res.Signal, res.PID, res.Status), nil
}

func signalName(sig syscall.Signal) string {
	switch sig {
	case syscall.SIGTERM:
		return "SIGTERM"
	case syscall.SIGHUP:
		return "SIGHUP"
	default:
		return sig.String()
	}
}
