package store

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/lfarias/neomercado/internal/graph"
	"github.com/lfarias/neomercado/internal/model"
)

// mergeFavoriteQuery uses MERGE so that re-favoriting the same product reuses
// the existing edge instead of duplicating it.
const mergeFavoriteQuery = `
MATCH (u:User {id: $userId}), (p:Product {id: $productId})
MERGE (u)-[:FAVORITE]->(p)
RETURN p.name`

const listFavoritesQuery = `
MATCH (u:User {cpf: $cpf})-[:FAVORITE]->(p:Product)
RETURN p.id, p.name, p.description, p.brand, p.price, p.rating
ORDER BY p.name`

const removeFavoriteQuery = `
MATCH (u:User {cpf: $cpf})-[r:FAVORITE]->(p:Product {id: $productId})
DELETE r
RETURN p.name`

const listAllProductsQuery = `
MATCH (p:Product)
RETURN p.id, p.name, p.description, p.brand, p.price, p.rating
ORDER BY p.name`

// FavoriteManager maintains the FAVORITE relationships between users and
// products.
type FavoriteManager struct {
	run graph.Runner
}

func NewFavoriteManager(run graph.Runner) *FavoriteManager {
	return &FavoriteManager{run: run}
}

// AddFavorite marks a product as a favorite of the user with the given cpf.
// The operation is idempotent: favoriting an already-favorite product keeps a
// single FAVORITE edge. Returns model.ErrUserNotFound for an unknown cpf and
// model.ErrProductNotFound when the merge matches no product.
func (m *FavoriteManager) AddFavorite(ctx context.Context, cpf, productID string) error {
	user, err := graph.FindNode[model.User](ctx, m.run, "cpf", cpf)
	if err != nil {
		if errors.Is(err, graph.ErrNotFound) {
			return model.ErrUserNotFound
		}
		return errors.Wrap(err, "look up user")
	}

	result, err := m.run.Run(ctx, mergeFavoriteQuery, map[string]any{
		"userId":    user.ID,
		"productId": productID,
	})
	if err != nil {
		return errors.Wrap(err, "add favorite")
	}
	if len(result.Records) == 0 {
		return model.ErrProductNotFound
	}

	log.WithFields(log.Fields{"userId": user.ID, "productId": productID}).Info("Favorite added")
	return nil
}

// ListFavorites returns the favorite products of the user with the given cpf,
// ordered by name. An unknown cpf yields an empty slice. The favorites
// projection does not include stock, so Stock is zero-valued on the returned
// products.
func (m *FavoriteManager) ListFavorites(ctx context.Context, cpf string) ([]*model.Product, error) {
	result, err := m.run.Run(ctx, listFavoritesQuery, map[string]any{"cpf": cpf})
	if err != nil {
		return nil, errors.Wrap(err, "list favorites")
	}
	return decodeProductRows(result.Records), nil
}

// RemoveFavorite deletes the FAVORITE edge between the user and the product.
// Returns model.ErrFavoriteNotFound when no such edge exists.
func (m *FavoriteManager) RemoveFavorite(ctx context.Context, cpf, productID string) error {
	result, err := m.run.Run(ctx, removeFavoriteQuery, map[string]any{
		"cpf":       cpf,
		"productId": productID,
	})
	if err != nil {
		return errors.Wrap(err, "remove favorite")
	}
	if len(result.Records) == 0 {
		return model.ErrFavoriteNotFound
	}

	log.WithFields(log.Fields{"cpf": cpf, "productId": productID}).Info("Favorite removed")
	return nil
}

// ListAllProducts returns the whole catalog, out-of-stock items included,
// ordered by name. Used to let a caller browse before favoriting.
func (m *FavoriteManager) ListAllProducts(ctx context.Context) ([]*model.Product, error) {
	result, err := m.run.Run(ctx, listAllProductsQuery, nil)
	if err != nil {
		return nil, errors.Wrap(err, "list all products")
	}
	return decodeProductRows(result.Records), nil
}
