package commands

import (
	"context"
	"testing"

	"prestito/internal/application"
)

func TestAddBookCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		bookNm  string
		pubDate string
		total   string
		price   string
		wantErr bool
		errMsg  string
	}{
		{name: "valid book", id: "B9", bookNm: "Beloved", pubDate: "1987", total: "3", price: "4.5"},
		{name: "empty ID", id: "", bookNm: "Beloved", pubDate: "1987", total: "3", price: "4", wantErr: true, errMsg: "book ID is required"},
		{name: "empty name", id: "B9", bookNm: " ", pubDate: "1987", total: "3", price: "4", wantErr: true, errMsg: "book name is required"},
		{name: "comma in name", id: "B9", bookNm: "Dune, Messiah", pubDate: "1969", total: "1", price: "4", wantErr: true, errMsg: "must not contain commas"},
		{name: "bad year", id: "B9", bookNm: "Beloved", pubDate: "87", total: "3", price: "4", wantErr: true, errMsg: "YYYY"},
		{name: "negative stock", id: "B9", bookNm: "Beloved", pubDate: "1987", total: "-1", price: "4", wantErr: true, errMsg: "at least 0"},
		{name: "bad price", id: "B9", bookNm: "Beloved", pubDate: "1987", total: "1", price: "free", wantErr: true, errMsg: "at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewAddBookCommand(nil, tt.id, tt.bookNm, "Toni Morrison", "Knopf", tt.pubDate, tt.total, tt.price)
			book, err := cmd.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if book.Remaining != book.Total {
				t.Errorf("new book should have its whole stock on the shelf, got %d/%d", book.Remaining, book.Total)
			}
		})
	}
}

func TestAddBookCommand_Execute(t *testing.T) {
	repo := &memRepo{books: sampleBooks()}
	catalog, err := application.LoadCatalog(repo)
	if err != nil {
		t.Fatal(err)
	}

	result, err := NewAddBookCommand(catalog, "B9", "Beloved", "Toni Morrison", "Knopf", "1987", "3", "4").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Message != "Added B9 Beloved" {
		t.Errorf("unexpected message: %q", result.Message)
	}
	if got, err := catalog.FindByID("B9"); err != nil || got != result.Book {
		t.Errorf("added book not found by ID: %v", err)
	}
	if repo.saves != 1 {
		t.Errorf("expected catalog to be saved once, got %d", repo.saves)
	}

	_, err = NewAddBookCommand(catalog, "b1", "Other", "", "", "2000", "1", "1").Execute(context.Background())
	if err == nil || !contains(err.Error(), "already has ID") {
		t.Errorf("expected duplicate ID error, got %v", err)
	}
	if catalog.Len() != 4 {
		t.Errorf("catalog should be unchanged after a duplicate, got %d books", catalog.Len())
	}
}

func TestRemoveBookCommand(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		accept  bool
		wantID  string
		wantErr string
	}{
		{name: "by id", query: "B1", wantID: "B1"},
		{name: "by name", query: "emma", wantID: "B2"},
		{name: "similar name accepted", query: "The Hobit", accept: true, wantID: "B3"},
		{name: "similar name not accepted", query: "The Hobit", wantErr: "did you mean"},
		{name: "unknown", query: "Neuromancer", wantErr: "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := application.NewCatalog(nil, application.WithBooks(sampleBooks()...))
			result, err := NewRemoveBookCommand(catalog, tt.query, tt.accept).Execute(context.Background())

			if tt.wantErr != "" {
				if err == nil || !contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
				}
				if catalog.Len() != 3 {
					t.Errorf("catalog should be unchanged, got %d books", catalog.Len())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Book.ID != tt.wantID {
				t.Errorf("removed %s, want %s", result.Book.ID, tt.wantID)
			}
			if catalog.Len() != 2 {
				t.Errorf("expected 2 books left, got %d", catalog.Len())
			}
		})
	}
}

func TestListBooksCommand(t *testing.T) {
	catalog := application.NewCatalog(nil, application.WithBooks(sampleBooks()...))

	all, _ := NewListBooksCommand(catalog, false).Execute(context.Background())
	if len(all) != 3 {
		t.Errorf("expected 3 books, got %d", len(all))
	}

	available, _ := NewListBooksCommand(catalog, true).Execute(context.Background())
	if len(available) != 2 {
		t.Errorf("expected 2 available books, got %d", len(available))
	}
}

func TestSaveCatalogCommand(t *testing.T) {
	repo := &memRepo{books: sampleBooks()}
	catalog, _ := application.LoadCatalog(repo)

	msg, err := NewSaveCatalogCommand(catalog).Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if msg != "Saved 3 books" || repo.saves != 1 {
		t.Errorf("unexpected result %q after %d saves", msg, repo.saves)
	}
}
