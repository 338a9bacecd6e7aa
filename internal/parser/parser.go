package parser

import (
	"path/filepath"
	"strings"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/segment"
)

// SupportedExtensions lists file extensions accepted for ingestion.
// Trading partners commonly name files after the transaction set.
var SupportedExtensions = map[string]bool{
	".edi": true,
	".x12": true,
	".txt": true,
	".dat": true,
	".850": true,
	".856": true,
	".810": true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Interpret walks segments with a fresh interpreter using the default
// element separator for diagnostics.
func Interpret(segments []segment.Segment) *Result {
	return New(segment.DefaultDelimiters.Element).Run(segments)
}
