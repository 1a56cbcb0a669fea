// docsplit splits a text document into an exact number of coherent sections,
// using an LLM to find idea boundaries and deterministic fallbacks to
// guarantee the count.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docsplit/internal/config"
	"docsplit/internal/logging"
	"docsplit/internal/oracle"
	"docsplit/internal/split"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiKey     string
	provider   string
	model      string
	structured bool

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docsplit",
	Short: "Split documents into an exact number of coherent sections",
	Long: `docsplit partitions a text document into exactly the number of sections you
ask for, without losing or altering a single word.

An LLM is consulted to place section boundaries at idea boundaries; every
reply is validated against the original text, and any failure falls back to
deterministic paragraph/sentence splitting, so the requested count is always
delivered.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var splitCmd = &cobra.Command{
	Use:   "split <file> <sections>",
	Short: "Split a document file into the given number of sections",
	Args:  cobra.ExactArgs(2),
	RunE:  runSplit,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "docsplit.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "LLM API key (overrides config and environment)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "LLM provider: gemini or openai")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model override")
	rootCmd.PersistentFlags().BoolVar(&structured, "structured", false, "use the single-pass structured grouping protocol")
	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	path := args[0]
	target, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("sections must be a number: %q", args[1])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if provider != "" {
		cfg.LLM.Provider = provider
	}
	if model != "" {
		cfg.LLM.Model = model
	}
	if structured {
		cfg.Splitter.StructuredMode = true
	}

	logger = logging.New(cfg.Logging, verbose)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	client, err := oracle.NewClient(cfg.LLM, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("splitting document",
		zap.String("file", path),
		zap.Int("sections", target),
		zap.String("provider", cfg.LLM.Provider))

	splitter := split.New(split.NewOracle(client, cfg.Splitter, logger), cfg.Splitter, logger)
	sections, err := splitter.Split(ctx, string(data), target)
	if err != nil {
		return err
	}

	for i, section := range sections {
		fmt.Printf("\n--- SECTION %d/%d ---\n", i+1, len(sections))
		fmt.Println(section)
	}
	fmt.Printf("\nCreated %d sections\n", len(sections))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
