package cv

import (
	"regexp"
	"strings"
)

// MIME types of the two downloads offered by the builder.
const (
	PDFContentType      = "application/pdf"
	SnapshotContentType = "application/json"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// SuggestedFilename derives the PDF download name from the full name:
// "Jane Q. Public" becomes "Jane_Q._Public_CV.pdf".
func SuggestedFilename(fullName string) string {
	return whitespaceRun.ReplaceAllString(fullName, "_") + "_CV.pdf"
}

// ExportFilename is the snapshot download name, "cv_data.json" when the
// name is blank.
func ExportFilename(fullName string) string {
	name := strings.TrimSpace(fullName)
	if name == "" {
		name = "cv"
	}
	return name + "_data.json"
}
