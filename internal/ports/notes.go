package ports

// NoteStore keeps one append-only ledger per note id, alongside the latest
// rendered invoice for that note
type NoteStore interface {
	// Save creates or overwrites the record for id. Only used when a note is
	// first borrowed.
	Save(id, rendered string, lines []string) error

	// AppendReturn appends a RETURN line to an existing ledger and replaces
	// the rendered invoice
	AppendReturn(id, rendered, line string) error

	// Load returns the ledger lines for id in write order
	Load(id string) ([]string, error)

	// Search returns ids containing keyword, skipping closed notes when
	// excludeReturned is set
	Search(keyword string, excludeReturned bool) ([]string, error)

	// List returns every stored id
	List() ([]string, error)

	Exists(id string) bool

	// InvoicePath returns the path of the rendered invoice for id
	InvoicePath(id string) (string, error)
}
