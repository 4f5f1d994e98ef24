// Package graph wraps the official Neo4j Go driver behind the minimal
// query-execution interface consumed by every store manager.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Runner is the query-execution contract. It abstracts the execution of a
// parameterized Cypher statement, allowing managers to be tested against a
// scripted fake instead of a live database.
type Runner interface {
	// Run executes a single Cypher statement and returns a fully-buffered result.
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)

	// WriteTx runs the given function inside one explicit write transaction.
	// Every statement issued through the Tx either commits as a unit or, when
	// the function returns an error, leaves no trace in the store.
	WriteTx(ctx context.Context, work func(tx Tx) error) error
}

// Tx executes statements within a managed write transaction. Records are
// collected eagerly so callers never hold a live result cursor.
type Tx interface {
	Run(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error)
}

// Neo4jExecutor is the concrete Runner backed by the official driver. It
// holds the driver instance and the target database name, which is the only
// in-process shared state of the whole system.
type Neo4jExecutor struct {
	Driver neo4j.DriverWithContext
	DBName string
}

// NewNeo4jExecutor creates the driver for the given connection details. The
// driver is created eagerly but connectivity is only checked by Verify.
func NewNeo4jExecutor(uri, username, password, dbName string) (*Neo4jExecutor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create Neo4j driver: %w", err)
	}
	return &Neo4jExecutor{Driver: driver, DBName: dbName}, nil
}

// Verify checks connectivity against the configured Neo4j instance.
func (e *Neo4jExecutor) Verify(ctx context.Context) error {
	return e.Driver.VerifyConnectivity(ctx)
}

// Close releases the driver and every pooled connection.
func (e *Neo4jExecutor) Close(ctx context.Context) error {
	return e.Driver.Close(ctx)
}

// Run executes a Cypher statement using neo4j.ExecuteQuery, which handles
// session and transaction management automatically for a single statement.
func (e *Neo4jExecutor) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		e.Driver,
		query,
		params,
		neo4j.EagerResultTransformer, // Buffers all records in memory before returning.
		neo4j.ExecuteQueryWithDatabase(e.DBName),
	)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}
	return result, nil
}

// WriteTx opens a session, runs work inside one managed write transaction and
// commits it when work returns nil. Any error from work rolls the whole
// transaction back, so multi-statement operations cannot leave partial state.
func (e *Neo4jExecutor) WriteTx(ctx context.Context, work func(tx Tx) error) error {
	session := e.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: e.DBName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := work(managedTx{tx: tx}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// managedTx adapts a neo4j.ManagedTransaction to the Tx interface.
type managedTx struct {
	tx neo4j.ManagedTransaction
}

func (t managedTx) Run(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	result, err := t.tx.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query in transaction: %w", err)
	}
	return result.Collect(ctx)
}
