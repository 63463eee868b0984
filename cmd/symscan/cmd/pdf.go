package cmd

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/spf13/cobra"

	"github.com/symscan/symscan/internal/batch"
	"github.com/symscan/symscan/internal/pdf"
	"github.com/symscan/symscan/internal/reader"
)

// pdfCmd represents the pdf command.
var pdfCmd = &cobra.Command{
	Use:   "pdf [files...]",
	Short: "Decode barcode symbols from images embedded in PDF files",
	Long: `Extract images from PDF files and decode any barcode symbols they
contain. Works best with scanned PDFs or PDFs carrying image-based labels.

Examples:
  symscan pdf shipping-labels.pdf
  symscan pdf *.pdf --format json
  symscan pdf invoice.pdf --pages 1-5`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         processPDFs,
}

func processPDFs(cmd *cobra.Command, args []string) error {
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

	pages := cfg.PDF.Pages
	if cmd.Flags().Changed("pages") {
		pages, _ = cmd.Flags().GetString("pages")
	}

	opts := decodeOptions(cfg, cmd)
	r := reader.NewDefault()

	var files []batch.FileResult
	for _, pth := range args {
		extracted, err := pdf.ExtractImages(pth, pages)
		if err != nil {
			return fmt.Errorf("failed to extract images from %s: %w", pth, err)
		}
		for _, ex := range extracted {
			files = append(files, batch.FileResult{
				File:    fmt.Sprintf("%s#page=%d,image=%d", pth, ex.Page, ex.Index),
				Symbols: r.DecodePixmapMulti(grayPixmap(ex.Image), opts),
			})
		}
	}

	result := &batch.Result{Files: files, WorkerCount: 1}
	return result.SaveResults(format, outputFile, true)
}

// grayPixmap converts an extracted image into a grayscale pixel buffer.
func grayPixmap(img image.Image) reader.Pixmap {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return reader.GrayPixmap(gray.Rect.Dx(), gray.Rect.Dy(), gray.Pix)
}

func init() {
	rootCmd.AddCommand(pdfCmd)

	addOutputFlags(pdfCmd)
	addDecodeFlags(pdfCmd)
	pdfCmd.Flags().String("pages", "", "page range to process (e.g., '1-5', '1,3,5')")
}

// GetPDFCommand returns the pdf command for testing purposes.
func GetPDFCommand() *cobra.Command {
	return pdfCmd
}
