package projector

// Table names a destination table. Only the constants below exist; Project
// never builds a Table from input data.
type Table string

const (
	Interchanges   Table = "EDI_Interchanges"
	Transactions   Table = "EDI_Transactions"
	POHeaders      Table = "PO_Headers"
	POLines        Table = "PO_Lines"
	ASNHeaders     Table = "ASN_Headers"
	ASNLines       Table = "ASN_Lines"
	InvoiceHeaders Table = "Invoice_Headers"
	InvoiceLines   Table = "Invoice_Lines"
	InvoiceCharges Table = "Invoice_Charges"
)

// AllTables lists every table in write order: parents before children.
var AllTables = []Table{
	Interchanges,
	Transactions,
	POHeaders,
	POLines,
	ASNHeaders,
	ASNLines,
	InvoiceHeaders,
	InvoiceLines,
	InvoiceCharges,
}

// Valid reports whether t is one of the known tables.
func (t Table) Valid() bool {
	for _, known := range AllTables {
		if t == known {
			return true
		}
	}
	return false
}

// Field is one named column value. Value is a string, int64, float64 or nil.
type Field struct {
	Name  string
	Value any
}

// Record is a row bound to its table.
type Record interface {
	Table() Table
	Fields() []Field
}

// nullable turns an absent foreign key into a SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type InterchangeRow struct {
	InterchangeID   string `json:"interchange_id"`
	SenderID        string `json:"sender_id"`
	ReceiverID      string `json:"receiver_id"`
	InterchangeDate string `json:"interchange_date"`
	InterchangeTime string `json:"interchange_time"`
	ControlNumber   string `json:"control_number"`
	SourceFilename  string `json:"source_filename"`
}

func (InterchangeRow) Table() Table { return Interchanges }

func (r InterchangeRow) Fields() []Field {
	return []Field{
		{"interchange_id", r.InterchangeID},
		{"sender_id", r.SenderID},
		{"receiver_id", r.ReceiverID},
		{"interchange_date", r.InterchangeDate},
		{"interchange_time", r.InterchangeTime},
		{"control_number", r.ControlNumber},
		{"source_filename", r.SourceFilename},
	}
}

type TransactionRow struct {
	TransactionID   string `json:"transaction_id"`
	InterchangeID   string `json:"interchange_id"`
	TransactionType string `json:"transaction_type"`
	ControlNumber   string `json:"control_number"`
}

func (TransactionRow) Table() Table { return Transactions }

func (r TransactionRow) Fields() []Field {
	return []Field{
		{"transaction_id", r.TransactionID},
		{"interchange_id", r.InterchangeID},
		{"transaction_type", r.TransactionType},
		{"control_number", r.ControlNumber},
	}
}

// POHeaderRow.TransactionID is empty when no 850 transaction was seen.
type POHeaderRow struct {
	POID           string  `json:"po_id"`
	TransactionID  string  `json:"transaction_id,omitempty"`
	PONumber       string  `json:"po_number"`
	PODate         string  `json:"po_date"`
	CurrencyCode   string  `json:"currency_code"`
	TotalAmount    float64 `json:"total_amount"`
	SourceFilename string  `json:"source_filename"`
}

func (POHeaderRow) Table() Table { return POHeaders }

func (r POHeaderRow) Fields() []Field {
	return []Field{
		{"po_id", r.POID},
		{"transaction_id", nullable(r.TransactionID)},
		{"po_number", r.PONumber},
		{"po_date", r.PODate},
		{"currency_code", r.CurrencyCode},
		{"total_amount", r.TotalAmount},
		{"source_filename", r.SourceFilename},
	}
}

type POLineRow struct {
	LineID      string  `json:"line_id"`
	POID        string  `json:"po_id"`
	LineNum     int64   `json:"line_num"`
	Qty         float64 `json:"qty"`
	UOM         string  `json:"uom"`
	Price       float64 `json:"price"`
	ItemCode    string  `json:"item_code"`
	Description string  `json:"description"`
}

func (POLineRow) Table() Table { return POLines }

func (r POLineRow) Fields() []Field {
	return []Field{
		{"line_id", r.LineID},
		{"po_id", r.POID},
		{"line_num", r.LineNum},
		{"qty", r.Qty},
		{"uom", r.UOM},
		{"price", r.Price},
		{"item_code", r.ItemCode},
		{"description", r.Description},
	}
}

type ASNHeaderRow struct {
	ASNID          string `json:"asn_id"`
	TransactionID  string `json:"transaction_id,omitempty"`
	ShipmentID     string `json:"shipment_id"`
	ASNDate        string `json:"asn_date"`
	ASNTime        string `json:"asn_time"`
	PONumberRef    string `json:"po_number_ref"`
	CarrierCode    string `json:"carrier_code"`
	SourceFilename string `json:"source_filename"`
}

func (ASNHeaderRow) Table() Table { return ASNHeaders }

func (r ASNHeaderRow) Fields() []Field {
	return []Field{
		{"asn_id", r.ASNID},
		{"transaction_id", nullable(r.TransactionID)},
		{"shipment_id", r.ShipmentID},
		{"asn_date", r.ASNDate},
		{"asn_time", r.ASNTime},
		{"po_number_ref", r.PONumberRef},
		{"carrier_code", r.CarrierCode},
		{"source_filename", r.SourceFilename},
	}
}

type ASNLineRow struct {
	LineID     string  `json:"line_id"`
	ASNID      string  `json:"asn_id"`
	LineNum    int64   `json:"line_num"`
	ItemCode   string  `json:"item_code"`
	QtyShipped float64 `json:"qty_shipped"`
	UOM        string  `json:"uom"`
	Price      float64 `json:"price"`
}

func (ASNLineRow) Table() Table { return ASNLines }

func (r ASNLineRow) Fields() []Field {
	return []Field{
		{"line_id", r.LineID},
		{"asn_id", r.ASNID},
		{"line_num", r.LineNum},
		{"item_code", r.ItemCode},
		{"qty_shipped", r.QtyShipped},
		{"uom", r.UOM},
		{"price", r.Price},
	}
}

type InvoiceHeaderRow struct {
	InvoiceID      string  `json:"invoice_id"`
	TransactionID  string  `json:"transaction_id,omitempty"`
	InvoiceNumber  string  `json:"invoice_number"`
	PONumber       string  `json:"po_number"`
	InvoiceDate    string  `json:"invoice_date"`
	TotalAmount    float64 `json:"total_amount"`
	CurrencyCode   string  `json:"currency_code"`
	SourceFilename string  `json:"source_filename"`
}

func (InvoiceHeaderRow) Table() Table { return InvoiceHeaders }

func (r InvoiceHeaderRow) Fields() []Field {
	return []Field{
		{"invoice_id", r.InvoiceID},
		{"transaction_id", nullable(r.TransactionID)},
		{"invoice_number", r.InvoiceNumber},
		{"po_number", r.PONumber},
		{"invoice_date", r.InvoiceDate},
		{"total_amount", r.TotalAmount},
		{"currency_code", r.CurrencyCode},
		{"source_filename", r.SourceFilename},
	}
}

type InvoiceLineRow struct {
	LineID      string  `json:"line_id"`
	InvoiceID   string  `json:"invoice_id"`
	LineNum     int64   `json:"line_num"`
	Qty         float64 `json:"qty"`
	UOM         string  `json:"uom"`
	Price       float64 `json:"price"`
	ItemCode    string  `json:"item_code"`
	Description string  `json:"description"`
}

func (InvoiceLineRow) Table() Table { return InvoiceLines }

func (r InvoiceLineRow) Fields() []Field {
	return []Field{
		{"line_id", r.LineID},
		{"invoice_id", r.InvoiceID},
		{"line_num", r.LineNum},
		{"qty", r.Qty},
		{"uom", r.UOM},
		{"price", r.Price},
		{"item_code", r.ItemCode},
		{"description", r.Description},
	}
}

type InvoiceChargeRow struct {
	ChargeID          string  `json:"charge_id"`
	InvoiceID         string  `json:"invoice_id"`
	ChargeCode        string  `json:"charge_code"`
	ChargeDescription string  `json:"charge_description"`
	Amount            float64 `json:"amount"`
}

func (InvoiceChargeRow) Table() Table { return InvoiceCharges }

func (r InvoiceChargeRow) Fields() []Field {
	return []Field{
		{"charge_id", r.ChargeID},
		{"invoice_id", r.InvoiceID},
		{"charge_code", r.ChargeCode},
		{"charge_description", r.ChargeDescription},
		{"amount", r.Amount},
	}
}
