package parser

import (
	"fmt"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/document"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/segment"
)

// DiagnosticKind classifies something the interpreter wants reported.
type DiagnosticKind string

const (
	// KindSkipped means the segment was dropped and had no effect.
	KindSkipped DiagnosticKind = "segment_skipped"
	// KindHeaderReplaced means a second BEG/BSN/BIG overwrote the header.
	KindHeaderReplaced DiagnosticKind = "header_replaced"
)

// Diagnostic describes one self-healed or suspicious segment.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Index   int            `json:"index"`
	Tag     string         `json:"tag"`
	Segment string         `json:"segment"`
	Reason  string         `json:"reason"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at segment %d (%s): %s", d.Kind, d.Index, d.Tag, d.Reason)
}

// Result is the interpreter output for one document.
type Result struct {
	Document    *document.Document
	Diagnostics []Diagnostic
}

// Skipped counts segments dropped by the self-healing harness.
func (r *Result) Skipped() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == KindSkipped {
			n++
		}
	}
	return n
}

// Interpreter folds a segment sequence into a document.Document.
// It holds no per-run state and is safe to share between goroutines.
type Interpreter struct {
	elementSep byte
}

// New returns an Interpreter. elementSep is only used to render segments in
// diagnostics.
func New(elementSep byte) *Interpreter {
	if elementSep == 0 {
		elementSep = segment.DefaultDelimiters.Element
	}
	return &Interpreter{elementSep: elementSep}
}

// Run walks segments once. A segment whose handler fails is skipped and
// reported; the walk always reaches the end of the sequence.
func (in *Interpreter) Run(segments []segment.Segment) *Result {
	st := newState(in.elementSep)
	for i, seg := range segments {
		h, ok := handlers[seg.Tag()]
		if !ok {
			continue
		}
		st.index, st.current = i, seg
		if err := h(st, fields(seg)); err != nil {
			st.report(KindSkipped, err.Error())
		}
	}
	return &Result{Document: st.doc, Diagnostics: st.diags}
}

type loop int

const (
	loopNone loop = iota
	loopPO
	loopInvoice
)

// state is the mutable interpretation state of a single run.
type state struct {
	doc *document.Document

	seenPO      map[int]struct{}
	seenASN     map[int]struct{}
	seenInvoice map[int]struct{}

	// Cursors point at the most recently appended line of each type.
	// Detail segments (PID, SN1) attach through them.
	poLine      *document.POLine
	asnLine     *document.ASNLine
	invoiceLine *document.InvoiceLine

	lastHeader loop // header CUR applies to

	elementSep byte
	index      int
	current    segment.Segment
	diags      []Diagnostic
}

func newState(elementSep byte) *state {
	return &state{
		doc:         &document.Document{},
		seenPO:      make(map[int]struct{}),
		seenASN:     make(map[int]struct{}),
		seenInvoice: make(map[int]struct{}),
		elementSep:  elementSep,
	}
}

func (st *state) report(kind DiagnosticKind, reason string) {
	st.diags = append(st.diags, Diagnostic{
		Kind:    kind,
		Index:   st.index,
		Tag:     st.current.Tag(),
		Segment: st.current.String(st.elementSep),
		Reason:  reason,
	})
}
