package graph

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphql
var contractSDL string

// Contract loads the SDL the public schema is published with.
func Contract() (*ast.Schema, error) {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: contractSDL})

	if err != nil {
		return nil, err
	}

	return s, nil
}

// Verify reports every object type, field or argument of the contract the executable schema does not match.
func Verify(contract *ast.Schema, s graphql.Schema) error {
	var mismatches []string

	names := make([]string, 0, len(contract.Types))

	for name, def := range contract.Types {
		if def.BuiltIn || def.Kind != ast.Object {
			continue
		}

		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		mismatches = append(mismatches, verifyObject(contract.Types[name], s)...)
	}

	if len(mismatches) > 0 {
		return fmt.Errorf("schema does not match contract: %s", strings.Join(mismatches, "; "))
	}

	return nil
}

func verifyObject(def *ast.Definition, s graphql.Schema) (mismatches []string) {
	object, ok := s.Type(def.Name).(*graphql.Object)

	if !ok {
		return []string{fmt.Sprintf("object %s is missing", def.Name)}
	}

	fields := object.Fields()

	for _, field := range def.Fields {
		if strings.HasPrefix(field.Name, "__") {
			continue
		}

		actual, exists := fields[field.Name]

		if !exists {
			mismatches = append(mismatches, fmt.Sprintf("field %s.%s is missing", def.Name, field.Name))

			continue
		}

		if actual.Type.String() != field.Type.String() {
			mismatches = append(mismatches, fmt.Sprintf("field %s.%s has type %s, expected %s", def.Name, field.Name, actual.Type, field.Type))
		}

		args := make(map[string]graphql.Input, len(actual.Args))

		for _, arg := range actual.Args {
			args[arg.Name()] = arg.Type
		}

		for _, arg := range field.Arguments {
			argType, exists := args[arg.Name]

			if !exists {
				mismatches = append(mismatches, fmt.Sprintf("argument %s.%s(%s) is missing", def.Name, field.Name, arg.Name))

				continue
			}

			if argType.String() != arg.Type.String() {
				mismatches = append(mismatches, fmt.Sprintf("argument %s.%s(%s) has type %s, expected %s", def.Name, field.Name, arg.Name, argType, arg.Type))
			}

			delete(args, arg.Name)
		}

		for arg := range args {
			mismatches = append(mismatches, fmt.Sprintf("argument %s.%s(%s) is not declared", def.Name, field.Name, arg))
		}
	}

	for name := range fields {
		if !strings.HasPrefix(name, "__") && def.Fields.ForName(name) == nil {
			mismatches = append(mismatches, fmt.Sprintf("field %s.%s is not declared", def.Name, name))
		}
	}

	return mismatches
}
