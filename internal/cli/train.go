package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/verity/internal/classifier"
	"github.com/ppiankov/verity/internal/train"
)

var (
	trainOut     string
	trainBackend string
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the classifier and write the model artifact",
	Long: `Train fits a TF-IDF + logistic regression model on the built-in labelled
samples and writes it to the artifact path. When statistical fitting is
unavailable or impossible, a keyword rule model is written instead.

Example:
  verity train
  verity train --out /tmp/model.json
  verity train --backend rules`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().StringVar(&trainOut, "out", "", "artifact output path (default: artifact.path or artifacts/model.json)")
	trainCmd.Flags().StringVar(&trainBackend, "backend", "", "fitting backend: auto, statistical, rules (default: train.backend)")
}

func runTrain(cmd *cobra.Command, args []string) error {
	backendName := trainBackend
	if backendName == "" {
		backendName = cfg.Train.Backend
	}

	opts := classifier.Options{
		MaxIterations:  cfg.Train.MaxIterations,
		Regularization: cfg.Train.Regularization,
	}
	backend, err := train.BackendFor(backendName, opts)
	if err != nil {
		return err
	}

	trainer := train.NewTrainer(train.WithBackend(backend), train.WithLogger(logger))
	path, err := trainer.TrainAndSave(artifactPath(trainOut))
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved model to: %s\n", path)
	return nil
}
