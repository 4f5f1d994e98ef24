package graph

import "context"

// schemaStatements are issued once at startup. The cpf constraint turns the
// business identifier into an enforced unique secondary key, so duplicate-cpf
// accounts are rejected by the store instead of silently breaking every
// cpf-keyed lookup.
var schemaStatements = []string{
	"CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
	"CREATE CONSTRAINT user_cpf_unique IF NOT EXISTS FOR (u:User) REQUIRE u.cpf IS UNIQUE",
	"CREATE CONSTRAINT product_id_unique IF NOT EXISTS FOR (p:Product) REQUIRE p.id IS UNIQUE",
	"CREATE CONSTRAINT order_id_unique IF NOT EXISTS FOR (o:Order) REQUIRE o.id IS UNIQUE",
}

// EnsureSchema creates the uniqueness constraints the store relies on. Every
// statement is idempotent, so calling this on every startup is safe.
func EnsureSchema(ctx context.Context, r Runner) error {
	for _, statement := range schemaStatements {
		if _, err := r.Run(ctx, statement, nil); err != nil {
			return err
		}
	}
	return nil
}
