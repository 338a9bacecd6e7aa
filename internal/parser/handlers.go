package parser

import (
	"fmt"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/document"
)

const defaultCurrency = "USD"

// handler applies one segment to the run state. A returned error discards
// the segment; handlers must not mutate state before they are sure to succeed.
type handler func(st *state, f fields) error

var handlers = map[string]handler{
	"ISA": (*state).interchange,
	"ST":  (*state).transaction,
	"BEG": (*state).poHeader,
	"PO1": (*state).poLine1,
	"PID": (*state).description,
	"CUR": (*state).currency,
	"BSN": (*state).asnHeader,
	"PRF": (*state).poReference,
	"TD5": (*state).carrier,
	"LIN": (*state).asnItem,
	"SN1": (*state).shippedQty,
	"BIG": (*state).invoiceHeader,
	"IT1": (*state).invoiceItem,
	"TDS": (*state).invoiceTotal,
	"SAC": (*state).charge,
}

func (st *state) interchange(f fields) error {
	if st.doc.Interchange != nil {
		st.report(KindHeaderReplaced, "second ISA envelope replaces the first")
	}
	st.doc.Interchange = &document.InterchangeInfo{
		SenderID:      f.get(6, ""),
		ReceiverID:    f.get(8, ""),
		Date:          formatISADate(f.get(9, "")),
		Time:          f.get(10, ""),
		ControlNumber: f.get(13, ""),
	}
	return nil
}

func (st *state) transaction(f fields) error {
	st.doc.Transactions = append(st.doc.Transactions, document.TransactionRef{
		Type:          f.get(1, ""),
		ControlNumber: f.get(2, ""),
	})
	return nil
}

func (st *state) poHeader(f fields) error {
	if st.doc.POHeader != nil {
		st.report(KindHeaderReplaced, fmt.Sprintf("PO header %q replaced", st.doc.POHeader.PONumber))
	}
	st.doc.POHeader = &document.POHeader{
		PONumber:     f.get(3, ""),
		PODate:       formatDate(f.get(5, "")),
		CurrencyCode: defaultCurrency,
	}
	st.poLine = nil
	st.lastHeader = loopPO
	return nil
}

func (st *state) poLine1(f fields) error {
	st.poLine = nil
	n, err := requiredInt("line number", f.get(1, ""))
	if err != nil {
		return err
	}
	if _, dup := st.seenPO[n]; dup {
		return nil
	}
	line := &document.POLine{
		LineNum:  n,
		Qty:      lenientFloat(f.get(2, "")),
		UOM:      f.get(3, ""),
		Price:    lenientFloat(f.get(4, "")),
		ItemCode: f.get(7, ""),
	}
	st.seenPO[n] = struct{}{}
	st.doc.POLines = append(st.doc.POLines, line)
	st.poLine = line
	return nil
}

// description handles PID. It only ever describes PO lines, even when an
// invoice loop has started since the last PO1.
func (st *state) description(f fields) error {
	if st.poLine != nil {
		st.poLine.Description = f.get(5, "")
	}
	return nil
}

func (st *state) currency(f fields) error {
	code := f.get(2, "")
	if code == "" {
		return nil
	}
	switch st.lastHeader {
	case loopPO:
		if st.doc.POHeader != nil {
			st.doc.POHeader.CurrencyCode = code
		}
	case loopInvoice:
		if st.doc.InvoiceHeader != nil {
			st.doc.InvoiceHeader.CurrencyCode = code
		}
	}
	return nil
}

func (st *state) asnHeader(f fields) error {
	if st.doc.ASNHeader != nil {
		st.report(KindHeaderReplaced, fmt.Sprintf("ASN header %q replaced", st.doc.ASNHeader.ShipmentID))
	}
	st.doc.ASNHeader = &document.ASNHeader{
		ShipmentID: f.get(2, ""),
		ASNDate:    formatDate(f.get(3, "")),
		ASNTime:    f.get(4, ""),
	}
	st.asnLine = nil
	return nil
}

func (st *state) poReference(f fields) error {
	if st.doc.ASNHeader != nil {
		st.doc.ASNHeader.PONumberRef = f.get(1, "")
	}
	return nil
}

func (st *state) carrier(f fields) error {
	if st.doc.ASNHeader != nil {
		st.doc.ASNHeader.CarrierCode = f.get(3, "")
	}
	return nil
}

func (st *state) asnItem(f fields) error {
	st.asnLine = nil
	n, err := requiredInt("line number", f.get(1, ""))
	if err != nil {
		return err
	}
	if _, dup := st.seenASN[n]; dup {
		return nil
	}
	line := &document.ASNLine{
		LineNum:  n,
		ItemCode: f.get(3, ""),
	}
	st.seenASN[n] = struct{}{}
	st.doc.ASNLines = append(st.doc.ASNLines, line)
	st.asnLine = line
	return nil
}

func (st *state) shippedQty(f fields) error {
	if st.asnLine == nil {
		return nil
	}
	st.asnLine.QtyShipped = lenientFloat(f.get(2, ""))
	st.asnLine.UOM = f.get(3, "")
	return nil
}

func (st *state) invoiceHeader(f fields) error {
	if st.doc.InvoiceHeader != nil {
		st.report(KindHeaderReplaced, fmt.Sprintf("invoice header %q replaced", st.doc.InvoiceHeader.InvoiceNumber))
	}
	st.doc.InvoiceHeader = &document.InvoiceHeader{
		InvoiceDate:   formatDate(f.get(1, "")),
		InvoiceNumber: f.get(2, ""),
		PONumber:      f.get(4, ""),
		CurrencyCode:  defaultCurrency,
	}
	st.invoiceLine = nil
	st.lastHeader = loopInvoice
	return nil
}

func (st *state) invoiceItem(f fields) error {
	st.invoiceLine = nil
	n, err := requiredInt("line number", f.get(1, ""))
	if err != nil {
		return err
	}
	if _, dup := st.seenInvoice[n]; dup {
		return nil
	}
	line := &document.InvoiceLine{
		LineNum:  n,
		Qty:      lenientFloat(f.get(2, "")),
		UOM:      f.get(3, ""),
		Price:    lenientFloat(f.get(4, "")),
		ItemCode: f.get(6, ""),
	}
	st.seenInvoice[n] = struct{}{}
	st.doc.InvoiceLines = append(st.doc.InvoiceLines, line)
	st.invoiceLine = line
	return nil
}

// invoiceTotal handles TDS. The amount is taken as written; X12 implied
// decimals are not applied.
func (st *state) invoiceTotal(f fields) error {
	if st.doc.InvoiceHeader != nil {
		st.doc.InvoiceHeader.TotalAmount = lenientFloat(f.get(1, ""))
	}
	return nil
}

func (st *state) charge(f fields) error {
	st.doc.InvoiceCharges = append(st.doc.InvoiceCharges, &document.InvoiceCharge{
		ChargeCode:  f.get(2, ""),
		Amount:      lenientFloat(f.get(5, "")),
		Description: f.get(15, ""),
	})
	return nil
}
