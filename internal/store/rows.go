package store

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/lfarias/neomercado/internal/model"
)

// The driver hands back node and relationship properties as int64/float64.
// These coercions sit at the query boundary so every result row is decoded
// into a typed struct exactly once.

// decodeProductRows decodes the favorites-side product projection
// (id, name, description, brand, price, rating; no stock column).
func decodeProductRows(records []*neo4j.Record) []*model.Product {
	products := make([]*model.Product, 0, len(records))
	for _, record := range records {
		products = append(products, &model.Product{
			ID:          asString(record.Values[0]),
			Name:        asString(record.Values[1]),
			Description: asString(record.Values[2]),
			Brand:       asString(record.Values[3]),
			Price:       asFloat(record.Values[4]),
			Rating:      asFloat(record.Values[5]),
		})
	}
	return products
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
