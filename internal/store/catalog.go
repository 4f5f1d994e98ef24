package store

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/lfarias/neomercado/internal/graph"
	"github.com/lfarias/neomercado/internal/identity"
	"github.com/lfarias/neomercado/internal/model"
)

const createProductQuery = `
CREATE (p:Product $props)
RETURN p.id`

const setProductSellerQuery = `
MATCH (p:Product {id: $productId})
SET p.sellerId = $sellerId`

const searchByNameQuery = `
MATCH (p:Product)
WHERE toLower(p.name) CONTAINS toLower($name)
RETURN p
ORDER BY p.name`

const searchByBrandQuery = `
MATCH (p:Product)
WHERE toLower(p.brand) CONTAINS toLower($brand)
RETURN p
ORDER BY p.name`

const searchByPriceRangeQuery = `
MATCH (p:Product)
WHERE p.price >= $minPrice AND p.price <= $maxPrice
RETURN p
ORDER BY p.price`

const searchBySellerQuery = `
MATCH (u:User {id: $sellerId})-[:SELLS]->(p:Product)
RETURN p
ORDER BY p.name`

const searchBySellerCPFQuery = `
MATCH (u:User {cpf: $sellerCpf})-[:SELLS]->(p:Product)
RETURN p
ORDER BY p.name`

const listAvailableQuery = `
MATCH (p:Product)
WHERE p.stock > 0
RETURN p
ORDER BY p.name`

// NewProduct carries the fields of a product registration. SellerCPF is
// optional; when set, the product is linked to that seller after creation.
type NewProduct struct {
	Name        string
	Description string
	Brand       string
	Price       float64
	Stock       int
	Rating      float64
	SellerCPF   string
}

// CatalogManager creates products and answers catalog searches.
type CatalogManager struct {
	run graph.Runner
	ids func() string
}

func NewCatalogManager(run graph.Runner) *CatalogManager {
	return &CatalogManager{run: run, ids: identity.NewID}
}

// CreateProduct validates the numeric domain of the supplied fields, persists
// the Product node and, when a seller cpf is given, links the product to that
// seller. An unknown seller is a warning, not a failure: the product is still
// created, just left seller-less.
func (m *CatalogManager) CreateProduct(ctx context.Context, in NewProduct) (string, error) {
	switch {
	case in.Price < 0:
		return "", model.ErrNegativePrice
	case in.Stock < 0:
		return "", model.ErrNegativeStock
	case in.Rating < 0 || in.Rating > 5:
		return "", model.ErrRatingOutOfRange
	}

	product := model.Product{
		ID:          m.ids(),
		Name:        in.Name,
		Description: in.Description,
		Brand:       in.Brand,
		Price:       in.Price,
		Stock:       in.Stock,
		Rating:      in.Rating,
	}
	props, err := graph.Props(&product)
	if err != nil {
		return "", err
	}

	result, err := m.run.Run(ctx, createProductQuery, map[string]any{"props": props})
	if err != nil {
		return "", errors.Wrap(err, "create product")
	}
	if len(result.Records) == 0 {
		return "", errors.New("product create statement yielded no row")
	}

	if in.SellerCPF != "" {
		if err := m.linkSeller(ctx, product.ID, in.SellerCPF); err != nil {
			if !errors.Is(err, model.ErrUserNotFound) {
				return "", err
			}
			log.WithField("sellerCpf", in.SellerCPF).Warn("Seller not found, product created without seller")
		}
	}

	log.WithField("productId", product.ID).Info("Product created")
	return product.ID, nil
}

// linkSeller resolves the seller by cpf, denormalizes their id onto the
// product and creates the SELLS relationship.
func (m *CatalogManager) linkSeller(ctx context.Context, productID, sellerCPF string) error {
	seller, err := graph.FindNode[model.User](ctx, m.run, "cpf", sellerCPF)
	if err != nil {
		if errors.Is(err, graph.ErrNotFound) {
			return model.ErrUserNotFound
		}
		return errors.Wrap(err, "look up seller")
	}

	if _, err := m.run.Run(ctx, setProductSellerQuery, map[string]any{
		"productId": productID,
		"sellerId":  seller.ID,
	}); err != nil {
		return errors.Wrap(err, "set product seller")
	}

	query, params, err := graph.RelateQuery(
		graph.Ref{Label: "User", Property: "id", Value: seller.ID},
		graph.Ref{Label: "Product", Property: "id", Value: productID},
		"SELLS", nil,
	)
	if err != nil {
		return err
	}
	if _, err := m.run.Run(ctx, query, params); err != nil {
		return errors.Wrap(err, "create SELLS relationship")
	}
	return nil
}

// SearchByName matches products whose name contains the given text,
// case-insensitively, ordered by name.
func (m *CatalogManager) SearchByName(ctx context.Context, name string) ([]*model.Product, error) {
	return graph.FindNodes[model.Product](ctx, m.run, searchByNameQuery, map[string]any{"name": name})
}

// SearchByBrand matches products whose brand contains the given text,
// case-insensitively, ordered by name.
func (m *CatalogManager) SearchByBrand(ctx context.Context, brand string) ([]*model.Product, error) {
	return graph.FindNodes[model.Product](ctx, m.run, searchByBrandQuery, map[string]any{"brand": brand})
}

// SearchByPriceRange returns products priced within the inclusive bounds,
// ordered by price.
func (m *CatalogManager) SearchByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]*model.Product, error) {
	return graph.FindNodes[model.Product](ctx, m.run, searchByPriceRangeQuery, map[string]any{
		"minPrice": minPrice,
		"maxPrice": maxPrice,
	})
}

// SearchBySeller returns the products a seller lists, by the seller's id.
func (m *CatalogManager) SearchBySeller(ctx context.Context, sellerID string) ([]*model.Product, error) {
	return graph.FindNodes[model.Product](ctx, m.run, searchBySellerQuery, map[string]any{"sellerId": sellerID})
}

// SearchBySellerCPF returns the products a seller lists, by the seller's cpf.
func (m *CatalogManager) SearchBySellerCPF(ctx context.Context, sellerCPF string) ([]*model.Product, error) {
	return graph.FindNodes[model.Product](ctx, m.run, searchBySellerCPFQuery, map[string]any{"sellerCpf": sellerCPF})
}

// ListAvailable returns every product with stock remaining, ordered by name.
// The order workflow uses this to present purchasable inventory.
func (m *CatalogManager) ListAvailable(ctx context.Context) ([]*model.Product, error) {
	return graph.FindNodes[model.Product](ctx, m.run, listAvailableQuery, nil)
}
