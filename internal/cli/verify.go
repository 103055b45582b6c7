package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/crosscheck/internal/model"
	"github.com/ppiankov/crosscheck/internal/orchestrate"
	"github.com/spf13/cobra"
)

var (
	claimID          string
	claimTimePeriod  string
	claimJurisdict   string
	claimEntity      string
	verifyTimeout    time.Duration
	verifyOutputPath string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <claim text>",
	Short: "Verify a single claim against the configured provider set",
	Long: `Verify fans the claim out to every configured LLM backend, cross-validates
their answers, and prints the verification result as JSON.

The result carries the final verdict, a confidence score and band, the full
evidence set (including failed provider calls, for audit), the triangulation
breakdown, and - for low-confidence results - a human-review package.

Example:
  crosscheck verify "The Eiffel Tower was completed in 1889"
  crosscheck verify "Revenue grew 40% in 2023" --entity "Acme Corp" --time-period 2023
  crosscheck verify "..." --json result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&claimID, "claim-id", "", "claim identifier (generated if empty)")
	verifyCmd.Flags().StringVar(&claimTimePeriod, "time-period", "", "time period the claim applies to")
	verifyCmd.Flags().StringVar(&claimJurisdict, "jurisdiction", "", "jurisdiction the claim applies to")
	verifyCmd.Flags().StringVar(&claimEntity, "entity", "", "entity the claim is about")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 0, "overall verification timeout (overrides config)")
	verifyCmd.Flags().StringVar(&verifyOutputPath, "json", "", "write result JSON to this path instead of stdout")
}

func runVerify(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(args[0])
	if text == "" {
		return fmt.Errorf("claim text is empty")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if verifyTimeout > 0 {
		cfg.Gateway.OverallTimeout = verifyTimeout
	}

	orchestrator, err := orchestrate.New(cfg)
	if err != nil {
		return err
	}

	id := claimID
	if id == "" {
		id = uuid.NewString()
	}

	claim := model.Claim{
		ID:   id,
		Text: text,
		Context: model.ClaimContext{
			TimePeriod:   claimTimePeriod,
			Jurisdiction: claimJurisdict,
			Entity:       claimEntity,
		},
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying claim %s against %d providers\n", id, len(cfg.Providers))
	}

	result, err := orchestrator.Verify(context.Background(), claim)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if verifyOutputPath != "" {
		if err := os.WriteFile(verifyOutputPath, data, 0644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote result: %s\n", verifyOutputPath)
		}
	} else {
		fmt.Println(string(data))
	}

	// A one-line human summary on stderr so the JSON stays pipeable
	fmt.Fprintf(os.Stderr, "%s: %s (%.3f, %s)\n", id, result.FinalVerdict, result.ConfidenceScore, result.ConfidenceLevel)
	if result.Escalation != nil {
		fmt.Fprintf(os.Stderr, "Escalated for review: urgency %s, est. %d min\n",
			result.Escalation.Urgency, result.Escalation.EstimatedReviewMinutes)
	}

	return nil
}
