package projector

import (
	"strconv"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/document"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/ident"
)

const defaultCurrency = "USD"

// Tables holds the rows of one ingestion run, one slice per table.
type Tables struct {
	Interchanges   []InterchangeRow   `json:"EDI_Interchanges"`
	Transactions   []TransactionRow   `json:"EDI_Transactions"`
	POHeaders      []POHeaderRow      `json:"PO_Headers"`
	POLines        []POLineRow        `json:"PO_Lines"`
	ASNHeaders     []ASNHeaderRow     `json:"ASN_Headers"`
	ASNLines       []ASNLineRow       `json:"ASN_Lines"`
	InvoiceHeaders []InvoiceHeaderRow `json:"Invoice_Headers"`
	InvoiceLines   []InvoiceLineRow   `json:"Invoice_Lines"`
	InvoiceCharges []InvoiceChargeRow `json:"Invoice_Charges"`
}

// Rows returns the rows of t in emission order. Unknown tables have no rows.
func (ts *Tables) Rows(t Table) []Record {
	switch t {
	case Interchanges:
		return records(ts.Interchanges)
	case Transactions:
		return records(ts.Transactions)
	case POHeaders:
		return records(ts.POHeaders)
	case POLines:
		return records(ts.POLines)
	case ASNHeaders:
		return records(ts.ASNHeaders)
	case ASNLines:
		return records(ts.ASNLines)
	case InvoiceHeaders:
		return records(ts.InvoiceHeaders)
	case InvoiceLines:
		return records(ts.InvoiceLines)
	case InvoiceCharges:
		return records(ts.InvoiceCharges)
	}
	return nil
}

func records[R Record](rows []R) []Record {
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

// Counts returns the row count of every table, including empty ones.
func (ts *Tables) Counts() map[Table]int {
	counts := make(map[Table]int, len(AllTables))
	for _, t := range AllTables {
		counts[t] = len(ts.Rows(t))
	}
	return counts
}

// Total is the number of rows across all tables.
func (ts *Tables) Total() int {
	n := 0
	for _, c := range ts.Counts() {
		n += c
	}
	return n
}

// Project builds the relational rows for one document. filename salts every
// identifier, so projecting the same document under the same name always
// yields identical rows.
func Project(doc *document.Document, filename string) *Tables {
	ts := &Tables{}
	if doc == nil || doc.Empty() {
		return ts
	}

	var ic document.InterchangeInfo
	if doc.Interchange != nil {
		ic = *doc.Interchange
	}
	interchangeSeed := ic.ControlNumber
	if interchangeSeed == "" {
		interchangeSeed = filename
	}
	interchangeID := ident.New(ident.PrefixInterchange, interchangeSeed)

	ts.Interchanges = append(ts.Interchanges, InterchangeRow{
		InterchangeID:   interchangeID,
		SenderID:        ic.SenderID,
		ReceiverID:      ic.ReceiverID,
		InterchangeDate: ic.Date,
		InterchangeTime: ic.Time,
		ControlNumber:   ic.ControlNumber,
		SourceFilename:  filename,
	})

	// A later ST of the same type takes over the header reference.
	txByType := make(map[string]string, len(doc.Transactions))
	for _, tx := range doc.Transactions {
		id := ident.New(ident.PrefixTransaction, ident.Seed(filename, tx.ControlNumber))
		txByType[tx.Type] = id
		ts.Transactions = append(ts.Transactions, TransactionRow{
			TransactionID:   id,
			InterchangeID:   interchangeID,
			TransactionType: tx.Type,
			ControlNumber:   tx.ControlNumber,
		})
	}

	projectPO(ts, doc, filename, txByType["850"])
	projectASN(ts, doc, filename, txByType["856"])
	projectInvoice(ts, doc, filename, txByType["810"])
	return ts
}

func projectPO(ts *Tables, doc *document.Document, filename, txID string) {
	h := doc.POHeader
	if h == nil || h.PONumber == "" {
		return
	}
	poID := ident.New(ident.PrefixPOHeader, ident.Seed(filename, h.PONumber))
	ts.POHeaders = append(ts.POHeaders, POHeaderRow{
		POID:           poID,
		TransactionID:  txID,
		PONumber:       h.PONumber,
		PODate:         h.PODate,
		CurrencyCode:   currency(h.CurrencyCode),
		TotalAmount:    h.TotalAmount,
		SourceFilename: filename,
	})
	for _, l := range doc.POLines {
		ts.POLines = append(ts.POLines, POLineRow{
			LineID:      ident.New(ident.PrefixPOLine, lineSeed(filename, l.LineNum)),
			POID:        poID,
			LineNum:     int64(l.LineNum),
			Qty:         l.Qty,
			UOM:         l.UOM,
			Price:       l.Price,
			ItemCode:    l.ItemCode,
			Description: l.Description,
		})
	}
}

func projectASN(ts *Tables, doc *document.Document, filename, txID string) {
	h := doc.ASNHeader
	if h == nil || h.ShipmentID == "" {
		return
	}
	asnID := ident.New(ident.PrefixASNHeader, ident.Seed(filename, h.ShipmentID))
	ts.ASNHeaders = append(ts.ASNHeaders, ASNHeaderRow{
		ASNID:          asnID,
		TransactionID:  txID,
		ShipmentID:     h.ShipmentID,
		ASNDate:        h.ASNDate,
		ASNTime:        h.ASNTime,
		PONumberRef:    h.PONumberRef,
		CarrierCode:    h.CarrierCode,
		SourceFilename: filename,
	})
	for _, l := range doc.ASNLines {
		ts.ASNLines = append(ts.ASNLines, ASNLineRow{
			LineID:     ident.New(ident.PrefixASNLine, lineSeed(filename, l.LineNum)),
			ASNID:      asnID,
			LineNum:    int64(l.LineNum),
			ItemCode:   l.ItemCode,
			QtyShipped: l.QtyShipped,
			UOM:        l.UOM,
			Price:      l.Price,
		})
	}
}

func projectInvoice(ts *Tables, doc *document.Document, filename, txID string) {
	h := doc.InvoiceHeader
	if h == nil || h.InvoiceNumber == "" {
		return
	}
	invID := ident.New(ident.PrefixInvoiceHeader, ident.Seed(filename, h.InvoiceNumber))
	ts.InvoiceHeaders = append(ts.InvoiceHeaders, InvoiceHeaderRow{
		InvoiceID:      invID,
		TransactionID:  txID,
		InvoiceNumber:  h.InvoiceNumber,
		PONumber:       h.PONumber,
		InvoiceDate:    h.InvoiceDate,
		TotalAmount:    h.TotalAmount,
		CurrencyCode:   currency(h.CurrencyCode),
		SourceFilename: filename,
	})
	for _, l := range doc.InvoiceLines {
		ts.InvoiceLines = append(ts.InvoiceLines, InvoiceLineRow{
			LineID:      ident.New(ident.PrefixInvoiceLine, lineSeed(filename, l.LineNum)),
			InvoiceID:   invID,
			LineNum:     int64(l.LineNum),
			Qty:         l.Qty,
			UOM:         l.UOM,
			Price:       l.Price,
			ItemCode:    l.ItemCode,
			Description: l.Description,
		})
	}
	for _, c := range doc.InvoiceCharges {
		ts.InvoiceCharges = append(ts.InvoiceCharges, InvoiceChargeRow{
			ChargeID:          ident.New(ident.PrefixInvoiceCharge, ident.Seed(filename, c.ChargeCode)),
			InvoiceID:         invID,
			ChargeCode:        c.ChargeCode,
			ChargeDescription: c.Description,
			Amount:            c.Amount,
		})
	}
}

func lineSeed(filename string, lineNum int) string {
	return ident.Seed(filename, strconv.Itoa(lineNum))
}

func currency(code string) string {
	if code == "" {
		return defaultCurrency
	}
	return code
}
