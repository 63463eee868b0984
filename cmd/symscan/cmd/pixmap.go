package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/symscan/symscan/internal/reader"
)

// pixmapCmd represents the pixmap command.
var pixmapCmd = &cobra.Command{
	Use:   "pixmap [file]",
	Short: "Decode barcode symbols from a raw pixel buffer",
	Long: `Decode barcode symbols from a raw, headerless pixel buffer.

The input file must contain exactly width*height bytes for grayscale
buffers, or width*height*4 bytes for RGBA buffers. Results are printed
as JSON.

Examples:
  symscan pixmap frame.raw --width 640 --height 480
  symscan pixmap frame.rgba --width 640 --height 480 --layout rgba`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input file provided")
		}
		if len(args) > 1 {
			return errors.New("pixmap decodes exactly one buffer file")
		}

		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		if width <= 0 || height <= 0 {
			return fmt.Errorf("invalid dimensions: %dx%d (--width and --height are required)", width, height)
		}

		layout, _ := cmd.Flags().GetString("layout")
		pix, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		var pm reader.Pixmap
		switch strings.ToLower(layout) {
		case "gray", "grey":
			pm = reader.GrayPixmap(width, height, pix)
		case "rgba":
			pm = reader.RGBAPixmap(width, height, pix)
		default:
			return fmt.Errorf("invalid pixel layout: %s (must be gray or rgba)", layout)
		}

		cfg := GetConfig()
		r := reader.NewDefault()
		records := r.DecodePixmapMulti(pm, decodeOptions(cfg, cmd))

		bts, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(bts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pixmapCmd)

	pixmapCmd.Flags().Int("width", 0, "buffer width in pixels")
	pixmapCmd.Flags().Int("height", 0, "buffer height in pixels")
	pixmapCmd.Flags().String("layout", "gray", "pixel layout (gray, rgba)")
	addDecodeFlags(pixmapCmd)
}

// GetPixmapCommand returns the pixmap command for testing purposes.
func GetPixmapCommand() *cobra.Command {
	return pixmapCmd
}
