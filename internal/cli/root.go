package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/verity/internal/logging"
	"github.com/ppiankov/verity/internal/model"
	"github.com/ppiankov/verity/internal/predict"
)

// Version is set at build time via -ldflags
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool

	// cfg is the merged configuration: defaults < config file < VERITY_* env < flags
	cfg    = model.DefaultConfig()
	logger = slog.Default()

	configFileUsed string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "verity",
	Short: "Verity - FAKE/REAL news headline classifier",
	Long: `Verity labels a piece of news text as FAKE or REAL and reports a confidence
score in [0, 1].

Train a model artifact once, then score text from the command line, from a
file, from an RSS/Atom feed, or over HTTP.

Verity is a toy classifier trained on a tiny sample. Treat its scores as a
signal, not a verdict.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		level := logging.ParseLevel(cfg.Log.Level)
		if verbose {
			level = slog.LevelDebug
		}
		logger = logging.Init(cfg.Log.Format, level)
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "verity %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.verity/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and VERITY_* environment variables on top of the defaults
func loadConfig() error {
	v := viper.New()

	if err := setDefaults(v, model.DefaultConfig()); err != nil {
		return err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".verity"))
		}
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	// VERITY_SERVER_ADDR overrides server.addr
	v.SetEnvPrefix("VERITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	} else if verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}

	loaded := model.DefaultConfig()
	if err := v.Unmarshal(loaded); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	cfg = loaded
	configFileUsed = v.ConfigFileUsed()
	return nil
}

// setDefaults registers every key of c with v so env vars can override keys
// that the config file does not mention.
func setDefaults(v *viper.Viper, c *model.Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode defaults: %w", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("decode defaults: %w", err)
	}

	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, val := range m {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if child, ok := val.(map[string]any); ok && len(child) > 0 {
				walk(key, child)
				continue
			}
			v.SetDefault(key, val)
		}
	}
	walk("", tree)
	return nil
}

// newPredictor builds a predictor honouring artifact.search_paths
func newPredictor() *predict.Predictor {
	opts := []predict.Option{predict.WithLogger(logger)}
	if len(cfg.Artifact.SearchPaths) > 0 {
		opts = append(opts, predict.WithSearchPaths(cfg.Artifact.SearchPaths...))
	}
	return predict.New(opts...)
}

// artifactPath returns the --model flag value, falling back to artifact.path
func artifactPath(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Artifact.Path
}
