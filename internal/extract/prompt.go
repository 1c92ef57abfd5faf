package extract

import (
	"strings"
	"unicode"

	"github.com/prokura/procure-backend/constants"
)

// MaxDocumentWords bounds the offer text submitted to the engine. Documents
// are trimmed from the tail; this is a cost/latency bound, not a correctness
// guarantee, so callers log when it fires (a total-cost line at the end of a
// long document can be silently dropped).
const MaxDocumentWords = 3000

// BuildOfferSystemPrompt composes the extraction instruction set: the
// field-level disambiguation rules for German commercial documents. The
// prompt is data, not control flow; keep rules here and out of the
// orchestrator.
func BuildOfferSystemPrompt() string {
	parts := []string{
		"You are a procurement offer parser for commercial documents, mostly German. Return ONLY JSON that matches the provided JSON Schema.",

		// vendor vs. customer
		"vendor_name is the party ISSUING the document (letterhead, header, footer). " +
			"Never use the recipient: labels like 'Kunde', 'Kundennummer', 'Rechnungsadresse', 'Lieferadresse', 'Empfänger', 'customer', 'bill-to' or 'recipient' mark the party to EXCLUDE.",

		// VAT id
		"vendor_vat_id: take it from labels such as 'USt-IdNr.', 'USt-ID', 'Umsatzsteuer-Identifikationsnummer', 'Steuernummer', 'VAT ID' or 'VAT No'. " +
			"It usually looks like 'DE' followed by 9 digits. Use null if absent.",

		// net vs. gross
		"total_cost is the NET total before VAT, read verbatim from the document. " +
			"Use the figure under labels like 'Nettosumme', 'Netto', 'Summe netto', 'Gesamt netto' or 'Zwischensumme'. " +
			"NEVER use gross labels such as 'Gesamtsumme', 'Bruttosumme', 'Brutto', 'Gesamtbetrag inkl. MwSt.' or 'Endbetrag', even when they are more prominent. " +
			"When both appear, the net figure wins unconditionally. Do not compute the total yourself.",

		// shipping as line items
		"If the document lists delivery or freight charges ('Versandkosten', 'Versand', 'Fracht', 'Lieferkosten', 'shipping', 'freight') as a distinct position, " +
			"emit them as an ordinary order line whose product is the original charge label. Never fold them into the total silently and never drop them.",

		// product vs. description
		"For each order line, 'product' is the short heading of 3 to 10 words preceding the detailed specification; 'description' is the specification text that follows. " +
			"Do not repeat the description inside 'product'. If a line has no clear heading, use the first few words of the line text as 'product'. Never leave 'product' empty.",

		// line totals
		"total_price of a line is the line total as stated in the document. Offers may apply per-line discounts, so do not recompute it from unit price and amount.",

		// title
		"For 'title', generate a concise, descriptive procurement request title summarising the purpose of the offer " +
			"(e.g. 'Office Furniture Purchase' or 'Annual IT Support Contract'). If the text is too sparse, use a generic title rather than leaving it empty.",

		// hygiene
		"Return numbers as plain decimals without currency symbols.",
		"department is usually absent on vendor documents; use null unless it is explicitly stated.",
		"If an optional field is missing, use null. Never use an empty string to mean unknown.",
	}
	return strings.Join(parts, " ")
}

// BuildOfferUserPrompt wraps the (already truncated) document text.
func BuildOfferUserPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Offer document text:\n")
	b.WriteString(text)
	return b.String()
}

// BuildClassifierSystemPrompt is the instruction set for the closed-set
// commodity classification.
func BuildClassifierSystemPrompt() string {
	return "You are a procurement commodity classifier. " +
		"Pick exactly ONE commodity_group_id from the list provided by the user. " +
		"Return only JSON that matches the provided JSON Schema."
}

// BuildClassifierUserPrompt packages the request context plus the full
// enumerated group set.
func BuildClassifierUserPrompt(req ClassifyRequest) string {
	var b strings.Builder
	b.WriteString("Commodity groups (ID | Category | Name):\n")
	for _, g := range req.Groups {
		b.WriteString(g.ID)
		b.WriteString(" | ")
		b.WriteString(g.Category)
		b.WriteString(" | ")
		b.WriteString(g.Name)
		b.WriteString("\n")
	}
	b.WriteString("\nRequest title: ")
	b.WriteString(req.Title)
	b.WriteString("\nDepartment: ")
	b.WriteString(req.Department)
	b.WriteString("\nVendor: ")
	b.WriteString(req.VendorName)
	b.WriteString("\nOrder lines: ")
	b.WriteString(req.OrderLinesText)
	b.WriteString("\n")
	return b.String()
}

// TruncateWords cuts s after max words, preserving the original layout of the
// kept prefix. The second return reports whether anything was dropped.
func TruncateWords(s string, max int) (string, bool) {
	inWord := false
	count := 0
	for i, r := range s {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			inWord = true
			count++
			if count > max {
				return strings.TrimRightFunc(s[:i], unicode.IsSpace), true
			}
		}
	}
	return s, false
}

// ClassifyRequest is the classifier input: request context plus the closed
// group set the engine must choose from.
type ClassifyRequest struct {
	Title          string
	Department     string
	VendorName     string
	OrderLinesText string
	Groups         []constants.CommodityGroup
}
