package store

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s := New()
	books, authors := s.Len()

	require.Equal(t, 10, books)
	require.Equal(t, 3, authors)

	s = New(WithoutSeed())
	books, authors = s.Len()

	require.Equal(t, 0, books)
	require.Equal(t, 0, authors)
	require.Empty(t, s.Books())
	require.Empty(t, s.Authors())
}

func TestStore_Book(t *testing.T) {
	testCases := map[string]struct {
		id       int
		expected *Book
	}{
		"first": {
			id:       1,
			expected: &Book{ID: 1, Name: "Harry Potter and the Sorcerer's Stone", AuthorID: 1},
		},
		"last": {
			id:       10,
			expected: &Book{ID: 10, Name: "The Tales of Beedle the Bard", AuthorID: 1},
		},
		"missing": {
			id: 999,
		},
		"zero": {
			id: 0,
		},
	}

	s := New()

	for name, testCase := range testCases {
		book, ok := s.Book(testCase.id)

		require.Equalf(t, testCase.expected != nil, ok, "case %s: unexpected found flag", name)
		require.Equalf(t, testCase.expected, book, "case %s: unexpected book", name)
	}
}

func TestStore_Author(t *testing.T) {
	s := New()
	author, ok := s.Author(2)

	require.True(t, ok)
	require.Equal(t, &Author{ID: 2, Name: "Bathilda Bagshot"}, author)

	author, ok = s.Author(4)

	require.False(t, ok)
	require.Nil(t, author)
}

func TestStore_Relations(t *testing.T) {
	s := New()

	for _, b := range s.Books() {
		author, ok := s.AuthorOf(b)

		require.Truef(t, ok, "book %d: author should exist", b.ID)
		require.Equal(t, b.AuthorID, author.ID)
	}

	for _, a := range s.Authors() {
		written := s.BooksOf(a)
		expected := make([]Book, 0)

		for _, b := range s.Books() {
			if b.AuthorID == a.ID {
				expected = append(expected, b)
			}
		}

		require.Equalf(t, expected, written, "author %d: unexpected books", a.ID)
	}

	require.NotNil(t, s.BooksOf(Author{ID: 42}))
	require.Empty(t, s.BooksOf(Author{ID: 42}))

	_, ok := s.AuthorOf(Book{ID: 11, AuthorID: 42})
	require.False(t, ok)
}

func TestStore_AddBook(t *testing.T) {
	s := New()
	book := s.AddBook("Test Book", 1)
	books, _ := s.Len()

	require.Equal(t, Book{ID: 11, Name: "Test Book", AuthorID: 1}, book)
	require.Equal(t, 11, books)
	require.Equal(t, book, s.Books()[10])
	require.Contains(t, s.BooksOf(Author{ID: 1}), book)
}

func TestStore_AddAuthor(t *testing.T) {
	s := New()
	author := s.AddAuthor("Test Author")

	require.Equal(t, Author{ID: 4, Name: "Test Author"}, author)

	found, ok := s.Author(4)

	require.True(t, ok)
	require.Equal(t, author, *found)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := New()
	books := s.Books()
	books[0].Name = "changed"

	book, _ := s.Book(1)
	book.Name = "changed"

	require.Equal(t, "Harry Potter and the Sorcerer's Stone", s.Books()[0].Name)
}

func TestStore_ConcurrentAdd(t *testing.T) {
	const workers = 50
	s := New(WithoutSeed())
	ids := make(chan int, workers)
	wg := sync.WaitGroup{}

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			ids <- s.AddBook("concurrent", 1).ID
		}()
	}

	wg.Wait()
	close(ids)

	assigned := make([]int, 0, workers)

	for id := range ids {
		assigned = append(assigned, id)
	}

	sort.Ints(assigned)

	for i, id := range assigned {
		require.Equal(t, i+1, id)
	}
}
