package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// formatBatchResults formats per-file decode results in the requested format.
func formatBatchResults(files []FileResult, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(files)
	case "csv":
		return formatCSV(files)
	case "yaml":
		return formatYAML(files)
	default: // text
		return formatText(files)
	}
}

type batchDocument struct {
	Images []FileResult `json:"images" yaml:"images"`
}

// formatJSON formats results as indented JSON.
func formatJSON(files []FileResult) (string, error) {
	bts, err := json.MarshalIndent(batchDocument{Images: files}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bts) + "\n", nil
}

// formatYAML formats results as YAML.
func formatYAML(files []FileResult) (string, error) {
	bts, err := yaml.Marshal(batchDocument{Images: files})
	if err != nil {
		return "", err
	}
	return string(bts), nil
}

// formatCSV formats results as CSV, one row per symbol.
func formatCSV(files []FileResult) (string, error) {
	rows := [][]string{{
		"file", "symbol_index", "format", "text", "symbology", "error",
		"top_left_x", "top_left_y", "bottom_right_x", "bottom_right_y",
	}}

	for _, f := range files {
		if f.Err != "" {
			rows = append(rows, []string{f.File, "0", "", "", "", f.Err, "0", "0", "0", "0"})
			continue
		}
		if len(f.Symbols) == 0 {
			rows = append(rows, []string{f.File, "0", "", "", "", "", "0", "0", "0", "0"})
			continue
		}
		for j, sym := range f.Symbols {
			rows = append(rows, []string{
				f.File,
				strconv.Itoa(j),
				sym.Format,
				sym.Text,
				sym.SymbologyIdentifier,
				sym.Error,
				strconv.Itoa(sym.Position.TopLeft.X),
				strconv.Itoa(sym.Position.TopLeft.Y),
				strconv.Itoa(sym.Position.BottomRight.X),
				strconv.Itoa(sym.Position.BottomRight.Y),
			})
		}
	}

	var output strings.Builder
	writer := csv.NewWriter(&output)
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return output.String(), writer.Error()
}

// formatText formats results as plain text.
func formatText(files []FileResult) (string, error) {
	var output strings.Builder
	for i, f := range files {
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString(fmt.Sprintf("# %s\n", f.File))
		if f.Err != "" {
			output.WriteString(fmt.Sprintf("  error: %s\n", f.Err))
			continue
		}
		if len(f.Symbols) == 0 {
			output.WriteString("  no symbols found\n")
			continue
		}
		for _, sym := range f.Symbols {
			if sym.Error != "" {
				output.WriteString(fmt.Sprintf("  [%s] error: %s\n", sym.Format, sym.Error))
				continue
			}
			output.WriteString(fmt.Sprintf("  [%s] %s\n", sym.Format, sym.Text))
		}
	}
	return output.String(), nil
}
