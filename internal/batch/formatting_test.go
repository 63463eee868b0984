package batch

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/symscan/symscan/internal/engine"
	"github.com/symscan/symscan/internal/reader"
)

func sampleFiles() []FileResult {
	return []FileResult{
		{
			File: "codes/a.png",
			Symbols: []reader.Record{
				{
					Format: "QRCode",
					Text:   "hello",
					Position: engine.Quadrilateral{
						TopLeft:     engine.Point{X: 10, Y: 12},
						TopRight:    engine.Point{X: 90, Y: 12},
						BottomRight: engine.Point{X: 90, Y: 80},
						BottomLeft:  engine.Point{X: 10, Y: 80},
					},
					SymbologyIdentifier: "]Q1",
				},
			},
		},
		{File: "codes/blank.png", Symbols: []reader.Record{}},
		{File: "codes/broken.png", Err: "Error loading image"},
	}
}

func TestFormatJSON(t *testing.T) {
	out, err := formatJSON(sampleFiles())
	require.NoError(t, err)

	var doc batchDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Images, 3)
	assert.Equal(t, "hello", doc.Images[0].Symbols[0].Text)
	assert.Equal(t, "Error loading image", doc.Images[2].Err)
}

func TestFormatYAML(t *testing.T) {
	out, err := formatYAML(sampleFiles())
	require.NoError(t, err)

	var doc batchDocument
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Images, 3)
	assert.Equal(t, "QRCode", doc.Images[0].Symbols[0].Format)
}

func TestFormatCSV(t *testing.T) {
	out, err := formatCSV(sampleFiles())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4) // header + one per file
	assert.Contains(t, lines[0], "file,symbol_index,format")
	assert.Contains(t, lines[1], "codes/a.png,0,QRCode,hello,]Q1")
	assert.Contains(t, lines[3], "Error loading image")
}

func TestFormatText(t *testing.T) {
	out, err := formatText(sampleFiles())
	require.NoError(t, err)

	assert.Contains(t, out, "# codes/a.png")
	assert.Contains(t, out, "[QRCode] hello")
	assert.Contains(t, out, "no symbols found")
	assert.Contains(t, out, "error: Error loading image")
}

func TestFormatBatchResultsDefaultsToText(t *testing.T) {
	out, err := formatBatchResults(sampleFiles(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "# codes/a.png")
}
