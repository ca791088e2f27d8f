package store

import (
	"sync"

	"github.com/samber/lo"
)

type Book struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	AuthorID int    `json:"authorId"`
}

type Author struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Store holds books and authors in insertion order. Records are only ever appended.
type Store struct {
	mu      sync.RWMutex
	books   []Book
	authors []Author
}

type Option func(*Store)

// WithoutSeed starts the store with empty collections.
func WithoutSeed() Option {
	return func(s *Store) {
		s.books = nil
		s.authors = nil
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		books:   seedBooks(),
		authors: seedAuthors(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) Books() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]Book, 0, len(s.books)), s.books...)
}

func (s *Store) Authors() []Author {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]Author, 0, len(s.authors)), s.authors...)
}

func (s *Store) Book(id int) (*Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := lo.Find(s.books, func(b Book) bool {
		return b.ID == id
	})

	if !ok {
		return nil, false
	}

	return &book, true
}

func (s *Store) Author(id int) (*Author, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	author, ok := lo.Find(s.authors, func(a Author) bool {
		return a.ID == id
	})

	if !ok {
		return nil, false
	}

	return &author, true
}

// AuthorOf returns the first author referenced by the book, dangling references yield false.
func (s *Store) AuthorOf(b Book) (*Author, bool) {
	return s.Author(b.AuthorID)
}

// BooksOf returns every book written by the author, never nil.
func (s *Store) BooksOf(a Author) []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Filter(s.books, func(b Book, _ int) bool {
		return b.AuthorID == a.ID
	})
}

// AddBook appends a book with id = current book count + 1.
func (s *Store) AddBook(name string, authorID int) Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	book := Book{
		ID:       len(s.books) + 1,
		Name:     name,
		AuthorID: authorID,
	}
	s.books = append(s.books, book)

	return book
}

// AddAuthor appends an author with id = current author count + 1.
func (s *Store) AddAuthor(name string) Author {
	s.mu.Lock()
	defer s.mu.Unlock()

	author := Author{
		ID:   len(s.authors) + 1,
		Name: name,
	}
	s.authors = append(s.authors, author)

	return author
}

func (s *Store) Len() (books, authors int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.books), len(s.authors)
}
