package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/veracity/internal/cache"
	"github.com/ppiankov/veracity/internal/detect"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/pipeline"
	"github.com/ppiankov/veracity/internal/refsource"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkJSON bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Check a piece of text once, without a session",
	Long: `Extracts factual claims from the given text (or stdin), verifies them
against the reference source and prints the confidence report. No
conversation state is kept.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text to check: pass it as an argument or on stdin")
	}

	cfg := loadConfig()

	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
	}

	var store cache.Cache = cache.Nop{}
	if cfg.Cache.Enabled {
		store = cache.NewMemory(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	source := refsource.NewWikipedia(cfg, store)
	pipe := pipeline.NewFromConfig(cfg, source, detect.NewSessionStore(), logger)

	result := pipe.CheckText(context.Background(), text)

	if checkJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	renderResult(os.Stdout, result)
	return nil
}

func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// renderResult prints a human-readable report
func renderResult(w io.Writer, result model.TurnResult) {
	report := result.Report

	fmt.Fprintf(w, "%s Confidence: %s (%.2f)\n", report.Emoji, report.Level, report.Score)
	fmt.Fprintf(w, "   %s\n\n", report.Summary)

	if len(result.Claims) == 0 {
		fmt.Fprintln(w, "No verifiable facts found.")
		return
	}

	fmt.Fprintf(w, "Facts (%d verified / %d total):\n", report.Stats.Verified, report.Stats.Total)
	for _, claim := range result.Claims {
		marker := "?"
		if claim.Verified {
			marker = "+"
		} else if claim.Confidence == model.TierLow {
			marker = "-"
		}
		fmt.Fprintf(w, "  [%s] %-14s %-30q %s\n", marker, claim.Type, claim.Entity, claim.Note)
	}

	if len(result.Contradictions) > 0 {
		fmt.Fprintf(w, "\nContradictions (%d):\n", len(result.Contradictions))
		for _, c := range result.Contradictions {
			fmt.Fprintf(w, "  [%s] %s (%s)\n", c.Severity, c.Message, c.Difference)
		}
	}

	fmt.Fprintf(w, "\n%s\n", result.Formatted.Markdown)
}
