package graph

import (
	"github.com/graphql-go/graphql"
)

// NewExecutableSchema builds the public schema. Book and Author reference each other,
// so both are declared with their scalar fields first and the relation fields are attached afterwards.
func NewExecutableSchema(r *Resolver) (graphql.Schema, error) {
	bookType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Book",
		Description: "This represents a book written by an author",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"authorId": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	authorType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Author",
		Description: "This represents the author of a book",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	bookType.AddFieldConfig("author", &graphql.Field{
		Type:    authorType,
		Resolve: r.BookAuthor,
	})

	authorType.AddFieldConfig("books", &graphql.Field{
		Type:    graphql.NewList(bookType),
		Resolve: r.AuthorBooks,
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Query",
		Description: "Root Query",
		Fields: graphql.Fields{
			"book": &graphql.Field{
				Type:        bookType,
				Description: "A single book",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.Book,
			},
			"books": &graphql.Field{
				Type:        graphql.NewList(bookType),
				Description: "A list of books",
				Resolve:     r.Books,
			},
			"authors": &graphql.Field{
				Type:        graphql.NewList(authorType),
				Description: "A list of authors",
				Resolve:     r.Authors,
			},
			"author": &graphql.Field{
				Type:        authorType,
				Description: "A single author",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.Author,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Mutation",
		Description: "Root Mutation",
		Fields: graphql.Fields{
			"addBook": &graphql.Field{
				Type:        bookType,
				Description: "Add a book",
				Args: graphql.FieldConfigArgument{
					"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"authorId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.AddBook,
			},
			"addAuthor": &graphql.Field{
				Type:        authorType,
				Description: "Add an author, the given id is ignored",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"id":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.AddAuthor,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
