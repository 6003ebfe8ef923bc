package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Slug turns a borrower name into the prefix of its note ids
// e.g., "Ada Lovelace" -> "ada-lovelace"
func Slug(borrower string) string {
	fields := strings.Fields(strings.ToLower(borrower))
	return strings.Join(fields, "-")
}

// NewNoteID builds "<slug>-<unix seconds>" for a note borrowed at the given
// time. When exists reports the id as taken, a ".<n>" suffix is added with
// the smallest free n starting at 2, so two notes created in the same second
// never share a ledger.
func NewNoteID(borrower string, at time.Time, exists func(string) bool) string {
	base := fmt.Sprintf("%s-%d", Slug(borrower), at.Unix())
	if exists == nil || !exists(base) {
		return base
	}
	for n := 2; ; n++ {
		id := fmt.Sprintf("%s.%d", base, n)
		if !exists(id) {
			return id
		}
	}
}

// ParseNoteID splits a note id into its borrower slug and borrow time
func ParseNoteID(id string) (slug string, at time.Time, err error) {
	idx := strings.LastIndex(id, "-")
	if idx <= 0 || idx == len(id)-1 {
		return "", time.Time{}, fmt.Errorf("invalid note ID: %s", id)
	}

	stamp := id[idx+1:]
	if dot := strings.IndexByte(stamp, '.'); dot >= 0 {
		if _, err := strconv.Atoi(stamp[dot+1:]); err != nil {
			return "", time.Time{}, fmt.Errorf("invalid note ID sequence: %s", id)
		}
		stamp = stamp[:dot]
	}

	secs, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid note ID timestamp: %s", id)
	}

	return id[:idx], time.Unix(secs, 0), nil
}

// DisplayName turns a slug back into a title-cased name
// e.g., "ada-lovelace" -> "Ada Lovelace"
func DisplayName(slug string) string {
	parts := strings.Split(slug, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
