package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/symscan/symscan/internal/batch"
	"github.com/symscan/symscan/internal/reader"
	"github.com/symscan/symscan/internal/utils"
)

const (
	outputFormatJSON = "json"
	outputFormatCSV  = "csv"
	outputFormatYAML = "yaml"
	outputFormatText = "text"
)

// imageCmd represents the image command.
var imageCmd = &cobra.Command{
	Use:   "image [files...]",
	Short: "Decode barcode symbols from image files",
	Long: `Decode barcode symbols from one or more image files.

Supported formats: PNG, JPEG, GIF, BMP, TIFF, WebP

Examples:
  symscan image photo.jpg
  symscan image *.png --format json
  symscan image label.png --formats QRCode,EAN-13 --max-symbols 4`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && (args[0] == "--help" || args[0] == "-h") {
			return cmd.Help()
		}
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		outputFile := cfg.Output.File
		if cmd.Flags().Changed("output") {
			outputFile, _ = cmd.Flags().GetString("output")
		}
		if err := validateOutputFormat(format); err != nil {
			return err
		}

		opts := decodeOptions(cfg, cmd)
		r := reader.NewDefault()

		files := make([]batch.FileResult, 0, len(args))
		for _, pth := range args {
			if !utils.IsSupportedImage(pth) {
				return fmt.Errorf("unsupported image format: %s", pth)
			}
			data, err := utils.LoadImageBytes(pth)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", pth, err)
			}
			files = append(files, batch.FileResult{
				File:    pth,
				Symbols: r.DecodeImageMulti(data, opts),
			})
		}

		result := &batch.Result{Files: files, WorkerCount: 1}
		return result.SaveResults(format, outputFile, true)
	},
}

func validateOutputFormat(format string) error {
	switch format {
	case outputFormatText, outputFormatJSON, outputFormatCSV, outputFormatYAML:
		return nil
	}
	return fmt.Errorf("invalid output format: %s (must be one of: text, json, csv, yaml)", format)
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "text", "output format (text, json, csv, yaml)")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
}

func init() {
	rootCmd.AddCommand(imageCmd)

	addOutputFlags(imageCmd)
	addDecodeFlags(imageCmd)

	_ = viper.BindPFlag("output.format", imageCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output.file", imageCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("decode.try_harder", imageCmd.Flags().Lookup("try-harder"))
	_ = viper.BindPFlag("decode.formats", imageCmd.Flags().Lookup("formats"))
	_ = viper.BindPFlag("decode.max_symbols", imageCmd.Flags().Lookup("max-symbols"))

	// Ensure subcommand help prints expected sections when executed directly in tests
	imageCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintln(out, cmd.Short); err != nil {
			return
		}
		if _, err := fmt.Fprintln(out, "Usage:"); err != nil {
			return
		}
		_, _ = fmt.Fprintln(out, cmd.UseLine())
		_, _ = fmt.Fprintln(out, "Flags:")
		_, _ = fmt.Fprintln(out, cmd.Flags().FlagUsages())
	})
}

// GetImageCommand returns the image command for testing purposes.
func GetImageCommand() *cobra.Command {
	return imageCmd
}
