package store

import (
	"context"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfarias/neomercado/internal/model"
)

// catalogWorld scripts a store with an optional seller account and accepts
// product creation and seller linking.
func catalogWorld(seller *model.User) func(query string, params map[string]any) ([]*neo4j.Record, error) {
	return func(query string, params map[string]any) ([]*neo4j.Record, error) {
		switch {
		case query == createProductQuery:
			props := params["props"].(map[string]any)
			return []*neo4j.Record{row(props["id"])}, nil
		case query == setProductSellerQuery:
			return nil, nil
		case strings.Contains(query, "SELLS"):
			return nil, nil
		case strings.Contains(query, ":User"):
			if seller != nil && hasParamValue(params, seller.CPF) {
				return []*neo4j.Record{row(userNode(*seller))}, nil
			}
			return nil, nil
		}
		return nil, nil
	}
}

func TestCreateProduct(t *testing.T) {
	valid := NewProduct{
		Name:        "Keyboard",
		Description: "Mechanical, tenkeyless",
		Brand:       "Logi",
		Price:       199.90,
		Stock:       10,
		Rating:      4.5,
	}

	t.Run("Success without seller", func(t *testing.T) {
		f := &fakeRunner{handler: catalogWorld(nil)}
		m := NewCatalogManager(f)
		m.ids = func() string { return "prod-1" }

		productID, err := m.CreateProduct(context.Background(), valid)

		require.NoError(t, err)
		assert.Equal(t, "prod-1", productID)

		created := f.executedContaining("CREATE (p:Product")
		require.Len(t, created, 1)
		props := created[0].params["props"].(map[string]any)
		assert.Equal(t, "Keyboard", props["name"])
		assert.Equal(t, 199.90, props["price"])
		assert.Equal(t, 10, props["stock"])
		assert.NotContains(t, props, "sellerId")
	})

	t.Run("Validation failures", func(t *testing.T) {
		f := &fakeRunner{handler: catalogWorld(nil)}
		m := NewCatalogManager(f)

		negativePrice := valid
		negativePrice.Price = -1
		_, err := m.CreateProduct(context.Background(), negativePrice)
		assert.ErrorIs(t, err, model.ErrNegativePrice)

		negativeStock := valid
		negativeStock.Stock = -1
		_, err = m.CreateProduct(context.Background(), negativeStock)
		assert.ErrorIs(t, err, model.ErrNegativeStock)

		badRating := valid
		badRating.Rating = 5.5
		_, err = m.CreateProduct(context.Background(), badRating)
		assert.ErrorIs(t, err, model.ErrRatingOutOfRange)

		assert.Empty(t, f.queries, "nothing should be written for invalid input")
	})

	t.Run("Known seller is linked", func(t *testing.T) {
		seller := model.User{ID: "user-9", Name: "Bia", CPF: "55566677788", IsSeller: true, CompanyName: "Souza LTDA", CNPJ: "12345678000199"}
		f := &fakeRunner{handler: catalogWorld(&seller)}
		m := NewCatalogManager(f)
		m.ids = func() string { return "prod-2" }

		withSeller := valid
		withSeller.SellerCPF = seller.CPF

		productID, err := m.CreateProduct(context.Background(), withSeller)

		require.NoError(t, err)
		assert.Equal(t, "prod-2", productID)

		set := f.executedContaining("SET p.sellerId")
		require.Len(t, set, 1)
		assert.Equal(t, "user-9", set[0].params["sellerId"])
		assert.Equal(t, "prod-2", set[0].params["productId"])

		assert.Len(t, f.executedContaining("SELLS"), 1)
	})

	t.Run("Unknown seller is a warning, not a failure", func(t *testing.T) {
		f := &fakeRunner{handler: catalogWorld(nil)}
		m := NewCatalogManager(f)
		m.ids = func() string { return "prod-3" }

		withSeller := valid
		withSeller.SellerCPF = "00000000000"

		productID, err := m.CreateProduct(context.Background(), withSeller)

		require.NoError(t, err)
		assert.Equal(t, "prod-3", productID)
		assert.Empty(t, f.executedContaining("SET p.sellerId"))
		assert.Empty(t, f.executedContaining("SELLS"))
	})
}

func productRows(products ...model.Product) []*neo4j.Record {
	records := make([]*neo4j.Record, 0, len(products))
	for _, p := range products {
		records = append(records, row(productNode(p)))
	}
	return records
}

func TestSearchByName(t *testing.T) {
	f := &fakeRunner{handler: func(query string, params map[string]any) ([]*neo4j.Record, error) {
		require.Equal(t, searchByNameQuery, query)
		assert.Equal(t, "key", params["name"])
		return productRows(
			model.Product{ID: "prod-1", Name: "Keyboard", Brand: "Logi", Price: 199.90, Stock: 10, Rating: 4.5},
			model.Product{ID: "prod-2", Name: "Keycaps", Brand: "Akko", Price: 59.90, Stock: 3, Rating: 4.8},
		), nil
	}}
	m := NewCatalogManager(f)

	products, err := m.SearchByName(context.Background(), "key")

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Keyboard", products[0].Name)
	assert.Equal(t, 10, products[0].Stock)
	assert.Equal(t, 4.8, products[1].Rating)
}

func TestSearchQueriesShape(t *testing.T) {
	// The matching and ordering live in the statements themselves; pin the
	// clauses the searches are specified by.
	assert.Contains(t, searchByNameQuery, "toLower(p.name) CONTAINS toLower($name)")
	assert.Contains(t, searchByNameQuery, "ORDER BY p.name")
	assert.Contains(t, searchByBrandQuery, "toLower(p.brand) CONTAINS toLower($brand)")
	assert.Contains(t, searchByBrandQuery, "ORDER BY p.name")
	assert.Contains(t, searchByPriceRangeQuery, "p.price >= $minPrice AND p.price <= $maxPrice")
	assert.Contains(t, searchByPriceRangeQuery, "ORDER BY p.price")
	assert.Contains(t, searchBySellerQuery, "[:SELLS]")
	assert.Contains(t, listAvailableQuery, "p.stock > 0")
}

func TestSearchNoMatches(t *testing.T) {
	f := &fakeRunner{handler: noRows}
	m := NewCatalogManager(f)

	for name, search := range map[string]func() ([]*model.Product, error){
		"name":   func() ([]*model.Product, error) { return m.SearchByName(context.Background(), "nope") },
		"brand":  func() ([]*model.Product, error) { return m.SearchByBrand(context.Background(), "nope") },
		"price":  func() ([]*model.Product, error) { return m.SearchByPriceRange(context.Background(), 1, 2) },
		"seller": func() ([]*model.Product, error) { return m.SearchBySellerCPF(context.Background(), "000") },
		"stock":  func() ([]*model.Product, error) { return m.ListAvailable(context.Background()) },
	} {
		products, err := search()
		require.NoError(t, err, name)
		assert.Empty(t, products, name)
		assert.NotNil(t, products, name)
	}
}
