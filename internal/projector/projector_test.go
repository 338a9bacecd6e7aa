package projector

import (
	"encoding/json"
	"testing"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/document"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/parser"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/segment"
)

const samplePO = "ISA*00**00**01*SENDER*01*RECEIVER*230101*1200*U*00401*000000001*0*P*>~" +
	"ST*850*0001~BEG*00*NE*PO123**20230101~PO1*1*10*EA*5.00**VN*ITEM1~PID*F****Widget~"

func project(text, filename string) *Tables {
	res := parser.Interpret(segment.Tokenize(text, segment.DefaultDelimiters))
	return Project(res.Document, filename)
}

func TestProject_EndToEnd(t *testing.T) {
	ts := project(samplePO, "test.edi")

	want := map[Table]int{
		Interchanges: 1,
		Transactions: 1,
		POHeaders:    1,
		POLines:      1,
	}
	for table, n := range ts.Counts() {
		if n != want[table] {
			t.Errorf("%s: expected %d rows, got %d", table, want[table], n)
		}
	}

	ic := ts.Interchanges[0]
	if ic.InterchangeID != "ISA-977bc7f0" {
		t.Errorf("interchange id = %q", ic.InterchangeID)
	}
	if ic.ControlNumber != "000000001" || ic.InterchangeDate != "2023-01-01" {
		t.Errorf("unexpected interchange %+v", ic)
	}
	if ic.SourceFilename != "test.edi" {
		t.Errorf("source filename = %q", ic.SourceFilename)
	}

	tx := ts.Transactions[0]
	if tx.TransactionID != "TX-c55835b8" || tx.TransactionType != "850" {
		t.Errorf("unexpected transaction %+v", tx)
	}
	if tx.InterchangeID != ic.InterchangeID {
		t.Errorf("transaction points at %q, want %q", tx.InterchangeID, ic.InterchangeID)
	}

	po := ts.POHeaders[0]
	if po.POID != "PO-cbc38f6f" || po.PONumber != "PO123" {
		t.Errorf("unexpected PO header %+v", po)
	}
	if po.TransactionID != tx.TransactionID {
		t.Errorf("PO header transaction = %q, want %q", po.TransactionID, tx.TransactionID)
	}
	if po.CurrencyCode != "USD" || po.TotalAmount != 0 {
		t.Errorf("unexpected defaults %+v", po)
	}

	line := ts.POLines[0]
	if line.LineID != "POL-2e4ce12c" || line.POID != po.POID {
		t.Errorf("unexpected line ids %+v", line)
	}
	if line.LineNum != 1 || line.Qty != 10 || line.Price != 5 || line.ItemCode != "ITEM1" || line.Description != "Widget" {
		t.Errorf("unexpected line %+v", line)
	}
}

func TestProject_Idempotent(t *testing.T) {
	a, err := json.Marshal(project(samplePO, "test.edi"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(project(samplePO, "test.edi"))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Errorf("expected identical output\n%s\n%s", a, b)
	}

	c, _ := json.Marshal(project(samplePO, "other.edi"))
	if string(a) == string(c) {
		t.Error("expected filename to change the row IDs")
	}
}

func TestProject_InvoiceOnly(t *testing.T) {
	text := "ISA*00**00**01*S*01*R*230301*0800*U*00401*000000002*0*P*>~" +
		"ST*810*0003~BIG*20230301*INV9**PO123~IT1*1*2*EA*4.00**ITEM1~"
	ts := project(text, "inv.edi")

	for _, table := range []Table{Interchanges, Transactions, InvoiceHeaders, InvoiceLines} {
		if len(ts.Rows(table)) == 0 {
			t.Errorf("%s: expected rows", table)
		}
	}
	for _, table := range []Table{POHeaders, POLines, ASNHeaders, ASNLines, InvoiceCharges} {
		if n := len(ts.Rows(table)); n != 0 {
			t.Errorf("%s: expected no rows, got %d", table, n)
		}
	}

	inv := ts.InvoiceHeaders[0]
	if inv.InvoiceID != "INV-0a5e23ef" {
		t.Errorf("invoice id = %q", inv.InvoiceID)
	}
	if ts.InvoiceLines[0].LineID != "INVL-61829f05" || ts.InvoiceLines[0].InvoiceID != inv.InvoiceID {
		t.Errorf("unexpected invoice line %+v", ts.InvoiceLines[0])
	}
}

func TestProject_MissingNaturalKeySuppressesChildren(t *testing.T) {
	doc := &document.Document{
		POHeader: &document.POHeader{PODate: "2023-01-01"},
		POLines:  []*document.POLine{{LineNum: 1, Qty: 3}},
		InvoiceHeader: &document.InvoiceHeader{
			InvoiceDate: "2023-01-01",
		},
		InvoiceCharges: []*document.InvoiceCharge{{ChargeCode: "D240", Amount: 5}},
	}
	ts := Project(doc, "x.edi")

	if len(ts.POHeaders)+len(ts.POLines)+len(ts.InvoiceHeaders)+len(ts.InvoiceCharges) != 0 {
		t.Errorf("expected headers without keys to be dropped with their children: %+v", ts)
	}
	if len(ts.Interchanges) != 1 {
		t.Errorf("expected an interchange row, got %d", len(ts.Interchanges))
	}
}

func TestProject_InterchangeFallsBackToFilename(t *testing.T) {
	doc := &document.Document{
		Transactions:  []document.TransactionRef{{Type: "810", ControlNumber: "1"}},
		InvoiceHeader: &document.InvoiceHeader{InvoiceNumber: "INV9"},
	}
	ts := Project(doc, "inv.edi")
	if ts.Interchanges[0].InterchangeID != "ISA-3663fcb8" {
		t.Errorf("interchange id = %q", ts.Interchanges[0].InterchangeID)
	}
	if ts.InvoiceHeaders[0].CurrencyCode != "USD" {
		t.Errorf("currency = %q", ts.InvoiceHeaders[0].CurrencyCode)
	}
}

func TestProject_MissingTransactionLeavesReferenceAbsent(t *testing.T) {
	doc := &document.Document{
		Transactions: []document.TransactionRef{{Type: "850", ControlNumber: "1"}},
		ASNHeader:    &document.ASNHeader{ShipmentID: "S1"},
	}
	ts := Project(doc, "asn.edi")
	if len(ts.ASNHeaders) != 1 {
		t.Fatalf("expected 1 ASN header, got %d", len(ts.ASNHeaders))
	}
	if ts.ASNHeaders[0].TransactionID != "" {
		t.Errorf("expected no transaction reference, got %q", ts.ASNHeaders[0].TransactionID)
	}
	for _, f := range ts.ASNHeaders[0].Fields() {
		if f.Name == "transaction_id" && f.Value != nil {
			t.Errorf("expected NULL transaction_id field, got %v", f.Value)
		}
	}
}

func TestProject_LastTransactionOfTypeWins(t *testing.T) {
	doc := &document.Document{
		Transactions: []document.TransactionRef{
			{Type: "850", ControlNumber: "1"},
			{Type: "850", ControlNumber: "2"},
		},
		POHeader: &document.POHeader{PONumber: "P"},
	}
	ts := Project(doc, "f.edi")
	if len(ts.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(ts.Transactions))
	}
	if ts.POHeaders[0].TransactionID != ts.Transactions[1].TransactionID {
		t.Errorf("expected PO header to reference the last 850")
	}
}

func TestProject_ChargesShareIDPerCode(t *testing.T) {
	doc := &document.Document{
		InvoiceHeader: &document.InvoiceHeader{InvoiceNumber: "INV9"},
		InvoiceCharges: []*document.InvoiceCharge{
			{ChargeCode: "D240", Amount: 50},
			{ChargeCode: "D240", Amount: 10},
		},
	}
	ts := Project(doc, "inv.edi")
	if len(ts.InvoiceCharges) != 2 {
		t.Fatalf("expected both charges, got %d", len(ts.InvoiceCharges))
	}
	if ts.InvoiceCharges[0].ChargeID != "CHG-4781a973" || ts.InvoiceCharges[1].ChargeID != "CHG-4781a973" {
		t.Errorf("unexpected charge ids %q %q", ts.InvoiceCharges[0].ChargeID, ts.InvoiceCharges[1].ChargeID)
	}
}

func TestProject_EmptyDocument(t *testing.T) {
	if ts := Project(&document.Document{}, "empty.edi"); ts.Total() != 0 {
		t.Errorf("expected no rows, got %d", ts.Total())
	}
	if ts := Project(nil, "nil.edi"); ts.Total() != 0 {
		t.Errorf("expected no rows for nil document, got %d", ts.Total())
	}
	if ts := project("", "blank.edi"); ts.Total() != 0 {
		t.Errorf("expected no rows for blank input, got %d", ts.Total())
	}
}

func TestRecordsMatchTables(t *testing.T) {
	ts := project(samplePO, "test.edi")
	for _, table := range AllTables {
		for _, r := range ts.Rows(table) {
			if r.Table() != table {
				t.Errorf("row of %s reports table %s", table, r.Table())
			}
			if len(r.Fields()) == 0 {
				t.Errorf("row of %s has no fields", table)
			}
		}
	}
}

func TestTableValid(t *testing.T) {
	for _, table := range AllTables {
		if !table.Valid() {
			t.Errorf("%s should be valid", table)
		}
	}
	if Table("Customers").Valid() {
		t.Error("unexpected table accepted")
	}
	if ts := (&Tables{}); ts.Rows(Table("Customers")) != nil {
		t.Error("unknown table should have no rows")
	}
}
