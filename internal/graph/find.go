package graph

import (
	"context"
	"fmt"
	"reflect"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

// FindNode retrieves a single node matched by one property and maps it into a
// new T. The node label is derived from T's struct name.
//
// Returns ErrNotFound when the query matches nothing. More than one match is
// reported as an error: every FindNode lookup in this system goes through a
// property that is either generated (id) or constrained unique (cpf).
func FindNode[T any](ctx context.Context, r Runner, property string, value any) (*T, error) {
	var zero T
	meta, err := parseTagsFromType(reflect.TypeOf(zero))
	if err != nil {
		return nil, err
	}

	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", meta.Label).WithProperties(map[string]any{property: value})).
		Return("n").
		Build()
	if err != nil {
		return nil, err
	}

	result, err := r.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	if len(result.Records) == 0 {
		return nil, ErrNotFound
	}
	if len(result.Records) > 1 {
		return nil, fmt.Errorf("expected 1 %s record but found %d", meta.Label, len(result.Records))
	}

	return nodeToEntity[T](result.Records[0])
}

// FindNodes executes a caller-supplied query whose first return value per
// record is a node, and maps every node into a new T. The query owns its own
// filtering and ordering; an empty result is returned as an empty slice, not
// an error.
func FindNodes[T any](ctx context.Context, r Runner, query string, params map[string]any) ([]*T, error) {
	result, err := r.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	entities := make([]*T, 0, len(result.Records))
	for _, record := range result.Records {
		entity, err := nodeToEntity[T](record)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// nodeToEntity takes the first value of a record, asserts it is a node and
// scans it into a new T.
func nodeToEntity[T any](record *neo4j.Record) (*T, error) {
	if len(record.Values) == 0 {
		return nil, fmt.Errorf("record has no return values")
	}
	node, ok := record.Values[0].(neo4j.Node)
	if !ok {
		return nil, fmt.Errorf("return value is not a node (got %T)", record.Values[0])
	}

	entity := new(T)
	if err := ScanNode(node, entity); err != nil {
		return nil, err
	}
	return entity, nil
}
