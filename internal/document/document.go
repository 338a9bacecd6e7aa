package document

// Document is everything the interpreter extracted from one EDI file.
// Headers are nil until their opening segment is seen.
type Document struct {
	Interchange  *InterchangeInfo
	Transactions []TransactionRef

	POHeader *POHeader
	POLines  []*POLine

	ASNHeader *ASNHeader
	ASNLines  []*ASNLine

	InvoiceHeader  *InvoiceHeader
	InvoiceLines   []*InvoiceLine
	InvoiceCharges []*InvoiceCharge
}

// Empty reports whether nothing recognizable was found.
func (d *Document) Empty() bool {
	return d.Interchange == nil &&
		len(d.Transactions) == 0 &&
		d.POHeader == nil && len(d.POLines) == 0 &&
		d.ASNHeader == nil && len(d.ASNLines) == 0 &&
		d.InvoiceHeader == nil && len(d.InvoiceLines) == 0 && len(d.InvoiceCharges) == 0
}

// InterchangeInfo is taken from the ISA envelope.
type InterchangeInfo struct {
	SenderID      string
	ReceiverID    string
	Date          string // ISO-8601
	Time          string
	ControlNumber string
}

// TransactionRef is one ST segment.
type TransactionRef struct {
	Type          string // 850, 856, 810, ...
	ControlNumber string
}

// POHeader comes from BEG (850).
type POHeader struct {
	PONumber     string
	PODate       string
	CurrencyCode string
	TotalAmount  float64
}

// POLine comes from PO1, with PID supplying the description.
type POLine struct {
	LineNum     int
	Qty         float64
	UOM         string
	Price       float64
	ItemCode    string
	Description string
}

// ASNHeader comes from BSN (856), with PRF and TD5 filling references.
type ASNHeader struct {
	ShipmentID  string
	ASNDate     string
	ASNTime     string
	PONumberRef string
	CarrierCode string
}

// ASNLine comes from LIN, with SN1 supplying shipped quantity.
type ASNLine struct {
	LineNum    int
	ItemCode   string
	QtyShipped float64
	UOM        string
	Price      float64
}

// InvoiceHeader comes from BIG (810), with TDS supplying the total.
type InvoiceHeader struct {
	InvoiceNumber string
	PONumber      string
	InvoiceDate   string
	TotalAmount   float64
	CurrencyCode  string
}

// InvoiceLine comes from IT1.
type InvoiceLine struct {
	LineNum     int
	Qty         float64
	UOM         string
	Price       float64
	ItemCode    string
	Description string
}

// InvoiceCharge comes from SAC. Charges are never deduplicated.
type InvoiceCharge struct {
	ChargeCode  string
	Description string
	Amount      float64
}
