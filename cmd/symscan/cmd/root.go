package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/symscan/symscan/internal/config"
	"github.com/symscan/symscan/internal/reader"
	"github.com/symscan/symscan/internal/version"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "symscan",
	Short: "Barcode symbol decoding for images, pixel buffers, and PDFs",
	Long: `symscan decodes barcode symbols (QR Code, EAN, UPC, Code 128, PDF417,
DataMatrix, Aztec and more) from images, raw pixel buffers, and PDF documents.

This tool provides:
- Single and multi-symbol decoding from common image formats
- Raw grayscale and RGBA pixel buffer decoding
- PDF image extraction and decoding
- Parallel batch processing of image directories
- Both CLI and HTTP server modes

Examples:
  symscan image photo.jpg
  symscan batch codes/ --recursive --format json
  symscan pdf invoice.pdf --pages 1-3
  symscan serve --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _ := cmd.PersistentFlags().GetBool("version")
		if v {
			ver, commit, date := version.Info()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "symscan version %s\n", ver)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Commit: %s\n", commit)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Date: %s\n", date)
			return nil
		}
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes. This allows
// tests to execute commands without calling os.Exit().
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags that apply to all commands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/symscan, /etc/symscan)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("version", false, "print version information and exit")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if globalConfig == nil {
			initConfig()
		}

		var logLevel slog.Level
		if globalConfig.Verbose {
			logLevel = slog.LevelDebug
		} else {
			switch globalConfig.LogLevel {
			case "debug":
				logLevel = slog.LevelDebug
			case "warn":
				logLevel = slog.LevelWarn
			case "error":
				logLevel = slog.LevelError
			default:
				logLevel = slog.LevelInfo
			}
		}

		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configLoader = config.NewLoader()

	var err error
	if cfgFile != "" {
		globalConfig, err = configLoader.LoadWithFile(cfgFile)
	} else {
		globalConfig, err = configLoader.Load()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// GetConfig returns the global configuration, reloaded so that CLI flag
// bindings registered after the initial load are included.
func GetConfig() *config.Config {
	if globalConfig == nil {
		initConfig()
	}

	loader := GetConfigLoader()
	var cfg config.Config
	if err := loader.GetViper().Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling updated configuration: %v\n", err)
		return globalConfig
	}

	return &cfg
}

// GetConfigLoader returns the global configuration loader.
func GetConfigLoader() *config.Loader {
	if configLoader == nil {
		configLoader = config.NewLoader()
	}
	return configLoader
}

// addDecodeFlags registers the decode option flags shared by the symbol
// decoding subcommands.
func addDecodeFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("try-harder", false, "spend more time searching (rotations, inversion, downscaling)")
	cmd.Flags().String("formats", "", "comma-separated symbol formats to look for (e.g., QRCode,EAN-13)")
	cmd.Flags().Int("max-symbols", 0, "maximum symbols to decode per image (0 = config default)")
}

// decodeOptions resolves decode options from configuration, with CLI flag
// overrides taking precedence.
func decodeOptions(cfg *config.Config, cmd *cobra.Command) reader.Options {
	opts := reader.Options{
		TryHarder:  cfg.Decode.TryHarder,
		Formats:    cfg.Decode.Formats,
		MaxSymbols: cfg.Decode.MaxSymbols,
	}
	if cmd.Flags().Changed("try-harder") {
		opts.TryHarder, _ = cmd.Flags().GetBool("try-harder")
	}
	if cmd.Flags().Changed("formats") {
		opts.Formats, _ = cmd.Flags().GetString("formats")
	}
	if cmd.Flags().Changed("max-symbols") {
		opts.MaxSymbols, _ = cmd.Flags().GetInt("max-symbols")
	}
	return opts
}
