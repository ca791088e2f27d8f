package admin

import (
	gographql "github.com/graphql-go/graphql"
)

func NewExecutableSchema(r *Resolver) (gographql.Schema, error) {
	nonNullString := gographql.NewNonNull(gographql.String)
	nonNullBoolean := gographql.NewNonNull(gographql.Boolean)

	return gographql.NewSchema(gographql.SchemaConfig{
		Query: gographql.NewObject(gographql.ObjectConfig{
			Name: "Query",
			Fields: gographql.Fields{
				"dummy": &gographql.Field{
					Type:    nonNullString,
					Resolve: r.Dummy,
				},
			},
		}),
		Mutation: gographql.NewObject(gographql.ObjectConfig{
			Name: "Mutation",
			Fields: gographql.Fields{
				"purgeAll": &gographql.Field{
					Type:        nonNullBoolean,
					Description: "Purge all query results cached for the current schema.",
					Resolve:     r.PurgeAll,
				},
				"purgeOperation": &gographql.Field{
					Type:        nonNullBoolean,
					Description: "Purge query results by operation name.",
					Args: gographql.FieldConfigArgument{
						"name": &gographql.ArgumentConfig{Type: nonNullString},
					},
					Resolve: r.PurgeOperation,
				},
				"purgeType": &gographql.Field{
					Type:        nonNullBoolean,
					Description: "Purge query results containing the given type.",
					Args: gographql.FieldConfigArgument{
						"type": &gographql.ArgumentConfig{Type: nonNullString},
					},
					Resolve: r.PurgeType,
				},
				"purgeTypeKey": &gographql.Field{
					Type:        nonNullBoolean,
					Description: "Purge query results containing the given type key, ex: Book id 1.",
					Args: gographql.FieldConfigArgument{
						"type":  &gographql.ArgumentConfig{Type: nonNullString},
						"field": &gographql.ArgumentConfig{Type: nonNullString},
						"key":   &gographql.ArgumentConfig{Type: gographql.NewNonNull(gographql.ID)},
					},
					Resolve: r.PurgeTypeKey,
				},
				"purgeQueryRootField": &gographql.Field{
					Type:        nonNullBoolean,
					Description: "Purge query results selecting the given query root field.",
					Args: gographql.FieldConfigArgument{
						"field": &gographql.ArgumentConfig{Type: nonNullString},
					},
					Resolve: r.PurgeQueryRootField,
				},
			},
		}),
	})
}
