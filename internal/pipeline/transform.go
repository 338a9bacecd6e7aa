package pipeline

import (
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/parser"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/projector"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/segment"
)

// TransformOptions controls how raw text is split into segments.
type TransformOptions struct {
	Delimiters segment.Delimiters
	// DetectDelimiters reads the separators from the ISA header when present,
	// falling back to Delimiters.
	DetectDelimiters bool
}

// DefaultTransformOptions uses "~" and "*" with ISA detection on.
func DefaultTransformOptions() TransformOptions {
	return TransformOptions{
		Delimiters:       segment.DefaultDelimiters,
		DetectDelimiters: true,
	}
}

// Outcome is the in-memory result of transforming one file.
type Outcome struct {
	Filename   string             `json:"filename"`
	Delimiters segment.Delimiters `json:"-"`
	Segments   int                `json:"segments"`
	Result     *parser.Result     `json:"-"`
	Tables     *projector.Tables  `json:"tables"`
}

// Transform runs tokenize, interpret and project over one document. It does
// no I/O and never fails: bad segments surface as diagnostics.
func Transform(text, filename string, opts TransformOptions) *Outcome {
	d := opts.Delimiters
	if d.Segment == 0 || d.Element == 0 {
		d = segment.DefaultDelimiters
	}
	if opts.DetectDelimiters {
		d = segment.DetectDelimiters(text, d)
	}

	segs := segment.Tokenize(text, d)
	res := parser.New(d.Element).Run(segs)
	return &Outcome{
		Filename:   filename,
		Delimiters: d,
		Segments:   len(segs),
		Result:     res,
		Tables:     projector.Project(res.Document, filename),
	}
}
