package graph

import "github.com/saulfrancisco-ruizacevedo/gocypher"

// Ref identifies one node of a relationship by its label and a single
// matching property, typically the generated id.
type Ref struct {
	Label    string
	Property string
	Value    any
}

// RelateQuery builds the statement that creates a directed relationship
// between two existing nodes: both endpoints are matched by their Ref and a
// typed edge, optionally carrying properties, is created from one to the
// other. The statement is returned instead of executed so callers can run it
// either standalone or inside a write transaction.
func RelateQuery(from, to Ref, relType string, relProps map[string]any) (string, map[string]any, error) {
	qb := gocypher.NewQueryBuilder().
		Match(gocypher.N("a", from.Label).WithProperties(map[string]any{from.Property: from.Value})).
		Match(gocypher.N("b", to.Label).WithProperties(map[string]any{to.Property: to.Value})).
		Create(
			gocypher.N("a", ""), // Reference the 'a' alias without its label.
			gocypher.R("r", relType).To().WithProperties(relProps),
			gocypher.N("b", ""), // Reference the 'b' alias without its label.
		)

	return qb.Build()
}
