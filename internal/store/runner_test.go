package store

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/lfarias/neomercado/internal/graph"
	"github.com/lfarias/neomercado/internal/model"
)

// fakeRunner is a scripted graph.Runner. A single handler answers every
// statement, and each executed statement is captured so tests can assert on
// query shapes, parameters and transaction boundaries.
type fakeRunner struct {
	handler func(query string, params map[string]any) ([]*neo4j.Record, error)

	queries  []executedQuery
	txCount  int
	txFailed bool
}

type executedQuery struct {
	query  string
	params map[string]any
	inTx   bool
}

func (f *fakeRunner) Run(_ context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	f.queries = append(f.queries, executedQuery{query: query, params: params})
	records, err := f.handler(query, params)
	if err != nil {
		return nil, err
	}
	return &neo4j.EagerResult{Records: records}, nil
}

func (f *fakeRunner) WriteTx(_ context.Context, work func(tx graph.Tx) error) error {
	f.txCount++
	if err := work(fakeTx{f: f}); err != nil {
		f.txFailed = true // everything issued in this transaction is rolled back
		return err
	}
	return nil
}

type fakeTx struct {
	f *fakeRunner
}

func (t fakeTx) Run(_ context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	t.f.queries = append(t.f.queries, executedQuery{query: query, params: params, inTx: true})
	return t.f.handler(query, params)
}

// noRows answers every statement with an empty result.
func noRows(string, map[string]any) ([]*neo4j.Record, error) {
	return nil, nil
}

func row(values ...any) *neo4j.Record {
	return &neo4j.Record{Values: values}
}

func userNode(user model.User) neo4j.Node {
	props, _ := graph.Props(&user)
	return neo4j.Node{ElementId: user.ID, Labels: []string{"User"}, Props: props}
}

func productNode(product model.Product) neo4j.Node {
	props, _ := graph.Props(&product)
	// The driver hands integers back as int64.
	props["stock"] = int64(product.Stock)
	return neo4j.Node{ElementId: product.ID, Labels: []string{"Product"}, Props: props}
}

// hasParamValue reports whether any parameter carries the given value,
// regardless of the generated parameter name.
func hasParamValue(params map[string]any, value any) bool {
	for _, v := range params {
		if v == value {
			return true
		}
	}
	return false
}

// executedContaining returns the captured statements whose text contains the
// given fragment.
func (f *fakeRunner) executedContaining(fragment string) []executedQuery {
	var matched []executedQuery
	for _, q := range f.queries {
		if strings.Contains(q.query, fragment) {
			matched = append(matched, q)
		}
	}
	return matched
}
