package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/order-intake/internal/entity"
)

// ItemOrder controls how line items collected by the independent
// recognizers are ordered in the draft.
type ItemOrder int

const (
	// PatternOrder groups items by recognizer, in recognizer declaration
	// order. This matches the historical output shape and is the default.
	PatternOrder ItemOrder = iota
	// DocumentOrder sorts items by where they appear in the message text.
	DocumentOrder
)

// Config holds extraction options.
type Config struct {
	ItemOrder ItemOrder
}

// Extractor parses one message's raw text into a draft order using
// heuristic pattern matching. It has no knowledge of the catalog and
// never returns an error: fields that cannot be extracted degrade to the
// Unknown sentinel, unrecognized lines are simply not items.
type Extractor struct {
	cfg Config
}

func NewExtractor(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

var (
	// Closing salutation followed by a comma and a name on the same line.
	reCustomer = regexp.MustCompile(`(?i)(Thanks|Warm regards|Sincerely|Cheers)[^\n]*,\s*([^\n]+)`)

	// Address-introducing phrase plus the run of non-blank lines after it.
	reAddress = regexp.MustCompile(`(?i)(Send to|Ship to|Ship them to|Do deliver to|Delivery address)[:\-]?\s*((?:.+\n?)+)`)

	// Day-in-month plus year, e.g. "12, 2024" — signals the address block
	// has run into a date line.
	reDateFragment = regexp.MustCompile(`\b\d{1,2},\s+\d{4}\b`)

	// Deadline-introducing phrase plus a "<Month> <day>, <year>" date.
	reDeadline = regexp.MustCompile(`(?i)(Before|Deadline|Requested delivery date)[:\-]?\s*(\w+\s+\d{1,2},\s+\d{4})`)
)

// Sign-off and scheduling keywords that terminate an address block.
var addressStopWords = []string{
	"cheers", "thanks", "regards", "sincerely", "warm",
	"before", "deadline", "requested",
}

const (
	deliveryDateLayout = "January 2, 2006"
	maxAddressLines    = 3
)

// itemPattern is one line-item recognizer. qtyIdx and nameIdx are 1-based
// submatch indexes, since some grammars put the quantity first and others
// the name.
type itemPattern struct {
	re      *regexp.Regexp
	qtyIdx  int
	nameIdx int
}

// The five recognizers, applied independently and additively. Only the
// x/X separator is case-insensitive; the keyword grammars are not.
var itemPatterns = []itemPattern{
	{regexp.MustCompile(`(?m)^\s*[-*]?\s*(\d+)\s+pieces?:\s+(.+)`), 1, 2},
	{regexp.MustCompile(`(?m)^\s*[-*]?\s*(\d+)\s*[xX]\s+(.+)`), 1, 2},
	{regexp.MustCompile(`(?m)^\s*[-*]?\s*(.+?)\s*[-–]\s*need\s*(\d+)\s*pcs`), 2, 1},
	{regexp.MustCompile(`(?m)^\s*[-*]?\s*(.+?)\s*[-–]\s*Qty:\s*(\d+)`), 2, 1},
	{regexp.MustCompile(`(?m)^\s*(\d+)\s+units\s+of\s+(.+)`), 1, 2},
}

// Extract parses msg into a draft order.
func (e *Extractor) Extract(msg entity.RawMessage) entity.DraftOrder {
	draft := entity.DraftOrder{
		Customer:     entity.Unknown,
		DeliveryDate: entity.Unknown,
		Address:      entity.Unknown,
		Items:        e.items(msg.Text),
	}
	if customer, ok := customer(msg.Text); ok {
		draft.Customer = customer
	}
	if address, ok := address(msg.Text); ok {
		draft.Address = address
	}
	if date, ok := deliveryDate(msg.Text); ok {
		draft.DeliveryDate = date
	}
	return draft
}

// customer returns the name following the last closing salutation in the
// text. Closing signatures tend to appear nearest the true sender name, so
// the last occurrence wins.
func customer(text string) (string, bool) {
	matches := reCustomer.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", false
	}
	return strings.TrimSpace(matches[len(matches)-1][2]), true
}

// address collects lines after the first address-introducing phrase until a
// blank line, a sign-off/scheduling keyword, or a date fragment ends the
// block, then joins at most the first three surviving lines.
func address(text string) (string, bool) {
	m := reAddress.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	var cleaned []string
	for _, line := range strings.Split(strings.TrimSpace(m[2]), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		lower := strings.ToLower(line)
		if containsAny(lower, addressStopWords) {
			break
		}
		if reDateFragment.MatchString(lower) {
			break
		}
		cleaned = append(cleaned, line)
	}
	if len(cleaned) > maxAddressLines {
		cleaned = cleaned[:maxAddressLines]
	}
	return strings.Join(cleaned, ", "), true
}

// deliveryDate normalizes the first recognized deadline date to YYYY-MM-DD.
// Any other date format fails the parse and degrades to Unknown.
func deliveryDate(text string) (string, bool) {
	m := reDeadline.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	t, err := time.Parse(deliveryDateLayout, m[2])
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// scannedItem carries the match offset so items can optionally be reordered
// by document position.
type scannedItem struct {
	item entity.RequestedItem
	pos  int
}

// items applies every recognizer to the whole text. Matches with a
// non-numeric or non-positive quantity are dropped, as are empty names
// (after trimming whitespace and trailing periods). Duplicates are kept.
func (e *Extractor) items(text string) []entity.RequestedItem {
	var scanned []scannedItem
	for _, p := range itemPatterns {
		for _, idx := range p.re.FindAllStringSubmatchIndex(text, -1) {
			qty, err := strconv.Atoi(submatch(text, idx, p.qtyIdx))
			if err != nil || qty <= 0 {
				continue
			}
			name := strings.TrimRight(strings.TrimSpace(submatch(text, idx, p.nameIdx)), ".")
			if name == "" {
				continue
			}
			scanned = append(scanned, scannedItem{
				item: entity.RequestedItem{Name: name, Quantity: qty},
				pos:  idx[0],
			})
		}
	}
	if e.cfg.ItemOrder == DocumentOrder {
		sort.SliceStable(scanned, func(i, j int) bool {
			return scanned[i].pos < scanned[j].pos
		})
	}
	items := make([]entity.RequestedItem, 0, len(scanned))
	for _, s := range scanned {
		items = append(items, s.item)
	}
	return items
}

func submatch(text string, idx []int, group int) string {
	lo, hi := idx[2*group], idx[2*group+1]
	if lo < 0 {
		return ""
	}
	return text[lo:hi]
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
