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

// favoriteWorld scripts a store with one user and a set of products; the
// FAVORITE edge set is kept in memory so merge idempotence and removal can be
// observed.
type favoriteWorld struct {
	user      model.User
	products  map[string]string // id -> name
	favorites map[string]bool   // product ids favorited by the user
	merges    int
}

func (w *favoriteWorld) handle(query string, params map[string]any) ([]*neo4j.Record, error) {
	switch {
	case query == mergeFavoriteQuery:
		w.merges++
		id, _ := params["productId"].(string)
		name, ok := w.products[id]
		if !ok {
			return nil, nil
		}
		w.favorites[id] = true // MERGE: create-if-absent, reuse-if-present
		return []*neo4j.Record{row(name)}, nil
	case query == removeFavoriteQuery:
		id, _ := params["productId"].(string)
		if !w.favorites[id] || !hasParamValue(params, w.user.CPF) {
			return nil, nil
		}
		delete(w.favorites, id)
		return []*neo4j.Record{row(w.products[id])}, nil
	case query == listFavoritesQuery:
		if !hasParamValue(params, w.user.CPF) {
			return nil, nil
		}
		var records []*neo4j.Record
		for id := range w.favorites {
			records = append(records, row(id, w.products[id], "desc", "brand", 10.00, 4.5))
		}
		return records, nil
	case strings.Contains(query, ":User"):
		if hasParamValue(params, w.user.CPF) {
			return []*neo4j.Record{row(userNode(w.user))}, nil
		}
		return nil, nil
	}
	return nil, nil
}

func favoriteSetup() (*FavoriteManager, *fakeRunner, *favoriteWorld) {
	world := &favoriteWorld{
		user:      model.User{ID: "user-1", Name: "Ana", CPF: "11122233344"},
		products:  map[string]string{"prod-1": "Keyboard", "prod-2": "Mouse"},
		favorites: map[string]bool{},
	}
	f := &fakeRunner{handler: world.handle}
	return NewFavoriteManager(f), f, world
}

func TestAddFavorite(t *testing.T) {
	t.Run("Success and idempotent on repeat", func(t *testing.T) {
		m, _, world := favoriteSetup()

		require.NoError(t, m.AddFavorite(context.Background(), world.user.CPF, "prod-1"))
		require.NoError(t, m.AddFavorite(context.Background(), world.user.CPF, "prod-1"))

		assert.Equal(t, 2, world.merges)
		assert.Len(t, world.favorites, 1, "second add must reuse the edge")
	})

	t.Run("Fail on unknown user", func(t *testing.T) {
		m, _, _ := favoriteSetup()
		err := m.AddFavorite(context.Background(), "00000000000", "prod-1")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("Fail on unknown product", func(t *testing.T) {
		m, _, world := favoriteSetup()
		err := m.AddFavorite(context.Background(), world.user.CPF, "prod-bogus")
		assert.ErrorIs(t, err, model.ErrProductNotFound)
		assert.Empty(t, world.favorites)
	})
}

func TestListFavorites(t *testing.T) {
	m, _, world := favoriteSetup()
	require.NoError(t, m.AddFavorite(context.Background(), world.user.CPF, "prod-1"))

	favorites, err := m.ListFavorites(context.Background(), world.user.CPF)

	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "prod-1", favorites[0].ID)
	assert.Equal(t, "Keyboard", favorites[0].Name)
	assert.Equal(t, 10.00, favorites[0].Price)
	// stock is not part of the favorites projection
	assert.Zero(t, favorites[0].Stock)
}

func TestListFavoritesEmpty(t *testing.T) {
	m, _, _ := favoriteSetup()

	favorites, err := m.ListFavorites(context.Background(), "00000000000")

	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestRemoveFavorite(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		m, _, world := favoriteSetup()
		require.NoError(t, m.AddFavorite(context.Background(), world.user.CPF, "prod-1"))

		require.NoError(t, m.RemoveFavorite(context.Background(), world.user.CPF, "prod-1"))
		assert.Empty(t, world.favorites)
	})

	t.Run("Fail on missing edge, favorites unchanged", func(t *testing.T) {
		m, _, world := favoriteSetup()
		require.NoError(t, m.AddFavorite(context.Background(), world.user.CPF, "prod-1"))

		err := m.RemoveFavorite(context.Background(), world.user.CPF, "prod-2")

		assert.ErrorIs(t, err, model.ErrFavoriteNotFound)
		assert.True(t, world.favorites["prod-1"])
	})
}

func TestListAllProducts(t *testing.T) {
	f := &fakeRunner{handler: func(query string, params map[string]any) ([]*neo4j.Record, error) {
		require.Equal(t, listAllProductsQuery, query)
		return []*neo4j.Record{
			row("prod-1", "Keyboard", "Mechanical", "Logi", 199.90, 4.5),
			row("prod-3", "Webcam", "1080p", "Logi", 89.90, 3.9),
		}, nil
	}}
	m := NewFavoriteManager(f)

	products, err := m.ListAllProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Webcam", products[1].Name)
	assert.Equal(t, 89.90, products[1].Price)
}
