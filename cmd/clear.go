package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"court-compare/core/config"
	"court-compare/core/logger"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for clear command
	clearSession string
	yesConfirm   bool
)

// clearCmd purges staged uploads and cached results.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Purge staged snapshots and cached comparison results",
	Long: `Removes every staged snapshot file and the cached comparison results.
Without --session the results of all sessions are removed.

Examples:
  # Reset everything (with interactive confirmation)
  clear

  # Reset one session without prompting
  clear --session 5f1c... --yes`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().StringVar(&clearSession, "session", "", "Only clear results of this session id")
	clearCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm (non-interactive)")

	RootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	if !confirmDestructiveAction(os.Stdin, cmd.OutOrStdout()) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	store, err := openStaging(ctx, cfg, l)
	if err != nil {
		return err
	}
	sessions, err := openSessions(cfg, l)
	if err != nil {
		return err
	}

	files, err := store.Purge(ctx)
	if err != nil {
		return err
	}

	if clearSession != "" {
		if err := sessions.Clear(ctx, clearSession); err != nil {
			return err
		}
		l.Info("Cleared session", zap.String("session", clearSession), zap.Int("files", files))
		return nil
	}

	n, err := sessions.Purge(ctx)
	if err != nil {
		return err
	}
	l.Info("Cleared all sessions", zap.Int("sessions", n), zap.Int("files", files))
	return nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
// Without a terminal on stdin nothing is confirmed unless --yes is given.
func confirmDestructiveAction(in *os.File, out io.Writer) bool {
	if yesConfirm {
		fmt.Fprintln(out, "Auto-confirmed via --yes flag")
		return true
	}
	if !isatty.IsTerminal(in.Fd()) && !isatty.IsCygwinTerminal(in.Fd()) {
		return false
	}

	fmt.Fprint(out, "Type 'yes' to confirm: ")
	return readConfirmation(in)
}

func readConfirmation(r io.Reader) bool {
	response, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
