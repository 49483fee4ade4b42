package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/verity/internal/model"
)

// demoText is scored when predict gets no arguments
const demoText = "Breaking: This miraculous cure will change your life!"

var (
	predictModel string
	predictJSON  bool
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict [text...]",
	Short: "Classify a piece of text as FAKE or REAL",
	Long: `Predict scores the given text (all arguments joined by spaces) against the
trained artifact and prints the label and confidence.

Example:
  verity predict "Scientists confirm new vaccine results"
  verity predict --json Shocking weird trick doctors hate
  verity predict --model /tmp/model.json "President signed the bill"`,
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringVar(&predictModel, "model", "", "artifact path (default: artifact.path, then search paths)")
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "print the prediction as JSON")
}

func runPredict(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		text = demoText
	}
	if strings.TrimSpace(text) == "" {
		return model.ErrInvalidInput
	}

	pred, err := newPredictor().Predict(text, artifactPath(predictModel))
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	out := cmd.OutOrStdout()
	if predictJSON {
		return json.NewEncoder(out).Encode(pred)
	}
	fmt.Fprintf(out, "%s %v\n", pred.Label, pred.Score)
	return nil
}
