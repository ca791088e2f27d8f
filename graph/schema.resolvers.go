package graph

import (
	"fmt"

	"github.com/bookql/bookql/store"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

func (r *Resolver) Books(p graphql.ResolveParams) (interface{}, error) {
	return r.store.Books(), nil
}

func (r *Resolver) Authors(p graphql.ResolveParams) (interface{}, error) {
	return r.store.Authors(), nil
}

func (r *Resolver) Book(p graphql.ResolveParams) (interface{}, error) {
	id, ok := p.Args["id"].(int)

	if !ok {
		return nil, nil
	}

	if book, found := r.store.Book(id); found {
		return book, nil
	}

	return nil, nil
}

func (r *Resolver) Author(p graphql.ResolveParams) (interface{}, error) {
	id, ok := p.Args["id"].(int)

	if !ok {
		return nil, nil
	}

	if author, found := r.store.Author(id); found {
		return author, nil
	}

	return nil, nil
}

func (r *Resolver) AddBook(p graphql.ResolveParams) (interface{}, error) {
	name, ok := p.Args["name"].(string)

	if !ok {
		return nil, fmt.Errorf("unexpected book name argument type %T", p.Args["name"])
	}

	authorID, ok := p.Args["authorId"].(int)

	if !ok {
		return nil, fmt.Errorf("unexpected book authorId argument type %T", p.Args["authorId"])
	}

	book := r.store.AddBook(name, authorID)

	r.logger.Info("book added", zap.Int("id", book.ID), zap.String("name", book.Name), zap.Int("author_id", book.AuthorID))

	return &book, nil
}

func (r *Resolver) AddAuthor(p graphql.ResolveParams) (interface{}, error) {
	name, ok := p.Args["name"].(string)

	if !ok {
		return nil, fmt.Errorf("unexpected author name argument type %T", p.Args["name"])
	}

	author := r.store.AddAuthor(name)

	if requested, ok := p.Args["id"].(int); ok && requested != author.ID {
		r.logger.Debug("ignored requested author id", zap.Int("requested", requested), zap.Int("assigned", author.ID))
	}

	r.logger.Info("author added", zap.Int("id", author.ID), zap.String("name", author.Name))

	return &author, nil
}

// BookAuthor resolves Book.author, a dangling authorId resolves to null.
func (r *Resolver) BookAuthor(p graphql.ResolveParams) (interface{}, error) {
	book, err := sourceBook(p.Source)

	if err != nil {
		return nil, err
	}

	if author, found := r.store.AuthorOf(book); found {
		return author, nil
	}

	return nil, nil
}

func (r *Resolver) AuthorBooks(p graphql.ResolveParams) (interface{}, error) {
	author, err := sourceAuthor(p.Source)

	if err != nil {
		return nil, err
	}

	return r.store.BooksOf(author), nil
}

func sourceBook(source interface{}) (store.Book, error) {
	switch v := source.(type) {
	case store.Book:
		return v, nil
	case *store.Book:
		return *v, nil
	default:
		return store.Book{}, fmt.Errorf("unexpected book source type %T", v)
	}
}

func sourceAuthor(source interface{}) (store.Author, error) {
	switch v := source.(type) {
	case store.Author:
		return v, nil
	case *store.Author:
		return *v, nil
	default:
		return store.Author{}, fmt.Errorf("unexpected author source type %T", v)
	}
}
