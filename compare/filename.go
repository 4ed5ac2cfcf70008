package compare

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// DefaultFilenameTemplate names the exported workbook.
const DefaultFilenameTemplate = "Inkoop_vergelijking"

type filenameData struct {
	Timestamp string
	Date      string
}

// RenderFilename renders an artifact filename template ({{.Date}} and
// {{.Timestamp}} are available) and enforces the .xlsx extension.
func RenderFilename(tmplText string, now time.Time) (string, error) {
	if tmplText == "" {
		tmplText = DefaultFilenameTemplate
	}

	data := filenameData{
		Timestamp: now.UTC().Format("20060102T150405Z"),
		Date:      now.UTC().Format("20060102"),
	}

	tmpl, err := template.New("filename").Parse(tmplText)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	result := strings.TrimSpace(buf.String())
	if result == "" {
		return "", fmt.Errorf("empty filename")
	}
	if !strings.HasSuffix(strings.ToLower(result), ".xlsx") {
		result += ".xlsx"
	}
	return result, nil
}
