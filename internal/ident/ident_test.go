package ident

import (
	"regexp"
	"testing"
)

var idPattern = regexp.MustCompile(`^[A-Z]+-[0-9a-f]{8}$`)

func TestNew_KnownValues(t *testing.T) {
	tests := []struct {
		prefix string
		seed   string
		want   string
	}{
		{PrefixPOHeader, "f.txt_4500001", "PO-e0fe9ea8"},
		{PrefixInterchange, "000000001", "ISA-977bc7f0"},
		{PrefixPOLine, "test.edi_1", "POL-2e4ce12c"},
		{PrefixTransaction, "", "TX-d41d8cd9"},
	}
	for _, tc := range tests {
		t.Run(tc.prefix+"/"+tc.seed, func(t *testing.T) {
			got := New(tc.prefix, tc.seed)
			if got != tc.want {
				t.Errorf("New(%q, %q) = %q, want %q", tc.prefix, tc.seed, got, tc.want)
			}
		})
	}
}

func TestNew_Deterministic(t *testing.T) {
	a := New("PO", "f.txt_4500001")
	for i := 0; i < 100; i++ {
		if b := New("PO", "f.txt_4500001"); b != a {
			t.Fatalf("iteration %d: expected %q, got %q", i, a, b)
		}
	}
}

func TestNew_OneCharacterChangesOutput(t *testing.T) {
	a := New("PO", "f.txt_4500001")
	b := New("PO", "f.txt_4500002")
	if a == b {
		t.Errorf("expected different IDs for different seeds, both %q", a)
	}
}

func TestNew_Shape(t *testing.T) {
	for _, prefix := range []string{
		PrefixInterchange, PrefixTransaction, PrefixPOHeader, PrefixPOLine,
		PrefixASNHeader, PrefixASNLine, PrefixInvoiceHeader, PrefixInvoiceLine,
		PrefixInvoiceCharge,
	} {
		id := New(prefix, "seed with spaces and ünïcode")
		if !idPattern.MatchString(id) {
			t.Errorf("id %q does not match %s", id, idPattern)
		}
	}
}

func TestSeed(t *testing.T) {
	if got := Seed("f.txt", "4500001"); got != "f.txt_4500001" {
		t.Errorf("expected %q, got %q", "f.txt_4500001", got)
	}
}
