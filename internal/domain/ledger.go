package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger line prefixes
const (
	BorrowPrefix = "BORROW:"
	ReturnPrefix = "RETURN:"
)

// localTimestamp is the zone-less ISO 8601 layout found in older ledgers
const localTimestamp = "2006-01-02T15:04:05"

// FormatTimestamp renders a ledger timestamp
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseTimestamp reads a ledger timestamp. Zone-less values are taken as
// local time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(localTimestamp, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// BorrowLedgerLines renders one BORROW line per book:
// BORROW:<name>,<bookname>,<borrowed>,<due>,<price>
func (n *Note) BorrowLedgerLines() []string {
	lines := make([]string, 0, len(n.Books))
	for i, b := range n.Books {
		lines = append(lines, BorrowPrefix+strings.Join([]string{
			n.Borrower,
			b.Name,
			FormatTimestamp(n.BorrowedDate),
			FormatTimestamp(n.DueDate),
			n.BookPrice(i).String(),
		}, ","))
	}
	return lines
}

// ReturnLedgerLine renders RETURN:<name>,<returned>,<lateDays>,<finalCost>.
// ok is false while the note is outstanding.
func (n *Note) ReturnLedgerLine() (line string, ok bool) {
	if !n.Returned {
		return "", false
	}
	return ReturnPrefix + strings.Join([]string{
		n.Borrower,
		FormatTimestamp(n.ReturnedDate),
		strconv.Itoa(n.LateDays),
		n.FinalCost.String(),
	}, ","), true
}

// IsClosed reports whether the last non-empty ledger line is a RETURN entry
func IsClosed(lines []string) bool {
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		return strings.HasPrefix(line, ReturnPrefix)
	}
	return false
}

// BookResolver maps a ledger book name back to a catalog entry, or nil
type BookResolver func(name string) *Book

// ParseLedger rebuilds a note from its ledger lines. Books the resolver
// cannot find are rebuilt as detached books carrying the ledger's name and
// price, so the cost snapshot survives catalog removals. Per-book prices
// always come from the ledger.
func ParseLedger(lines []string, terms Terms, resolve BookResolver) (*Note, error) {
	var (
		books    []*Book
		prices   []decimal.Decimal
		cost     = decimal.Zero
		borrower string
		borrowed time.Time
		due      time.Time
		ret      *returnEntry
	)

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, BorrowPrefix):
			fields := strings.Split(strings.TrimPrefix(line, BorrowPrefix), ",")
			if len(fields) != 5 {
				return nil, fmt.Errorf("line %d: BORROW entry needs 5 fields, got %d", i+1, len(fields))
			}
			b, err := ParseTimestamp(fields[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			d, err := ParseTimestamp(fields[3])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			price, err := decimal.NewFromString(strings.TrimSpace(fields[4]))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid price %q: %w", i+1, fields[4], err)
			}
			if len(books) == 0 {
				borrower, borrowed, due = fields[0], b, d
			}

			var book *Book
			if resolve != nil {
				book = resolve(fields[1])
			}
			if book == nil {
				book = &Book{Name: fields[1], Price: price}
			}
			books = append(books, book)
			prices = append(prices, price)
			cost = cost.Add(price)

		case strings.HasPrefix(line, ReturnPrefix):
			fields := strings.Split(strings.TrimPrefix(line, ReturnPrefix), ",")
			if len(fields) != 4 {
				return nil, fmt.Errorf("line %d: RETURN entry needs 4 fields, got %d", i+1, len(fields))
			}
			at, err := ParseTimestamp(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			lateDays, err := strconv.Atoi(strings.TrimSpace(fields[2]))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid late days %q: %w", i+1, fields[2], err)
			}
			finalCost, err := decimal.NewFromString(strings.TrimSpace(fields[3]))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid final cost %q: %w", i+1, fields[3], err)
			}
			ret = &returnEntry{at: at, lateDays: lateDays, finalCost: finalCost}

		default:
			return nil, fmt.Errorf("line %d: unknown ledger entry %q", i+1, line)
		}
	}

	if len(books) == 0 {
		return nil, fmt.Errorf("ledger has no BORROW entries")
	}

	note := NewNote(borrower, books, borrowed, terms)
	note.DueDate = due
	// The ledger prices are the snapshot, whatever the catalog says today.
	// Resolved books are only used for restocking.
	note.Prices = prices
	note.Cost = cost

	if ret != nil {
		note.Returned = true
		note.ReturnedDate = ret.at
		note.LateDays = ret.lateDays
		note.FinalCost = ret.finalCost
		note.Fine = ret.finalCost.Sub(note.Cost)
	}

	return note, nil
}

type returnEntry struct {
	at        time.Time
	lateDays  int
	finalCost decimal.Decimal
}
