package ident

import (
	"crypto/md5"
	"encoding/hex"
)

// Prefixes used for each entity kind.
const (
	PrefixInterchange   = "ISA"
	PrefixTransaction   = "TX"
	PrefixPOHeader      = "PO"
	PrefixPOLine        = "POL"
	PrefixASNHeader     = "ASN"
	PrefixASNLine       = "ASNL"
	PrefixInvoiceHeader = "INV"
	PrefixInvoiceLine   = "INVL"
	PrefixInvoiceCharge = "CHG"
)

const hexDigits = 8

// New returns a deterministic identifier "{prefix}-{8 hex}" for seed.
// The same seed always yields the same ID, across processes and runs.
// MD5 keeps IDs compatible with rows loaded by earlier versions of the loader.
func New(prefix, seed string) string {
	sum := md5.Sum([]byte(seed))
	return prefix + "-" + hex.EncodeToString(sum[:])[:hexDigits]
}

// Seed joins a filename and a natural key the way every child ID is seeded.
func Seed(filename, key string) string {
	return filename + "_" + key
}
