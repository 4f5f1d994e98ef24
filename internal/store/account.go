// Package store implements the entity managers: accounts, catalog, orders and
// favorites. Every manager talks to Neo4j exclusively through graph.Runner
// and signals ordinary "not found" conditions with sentinel errors from
// internal/model, so composed workflows can apply their own policy.
package store

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/lfarias/neomercado/internal/graph"
	"github.com/lfarias/neomercado/internal/identity"
	"github.com/lfarias/neomercado/internal/model"
)

const createUserQuery = `
CREATE (u:User $props)
RETURN u.id`

const addAddressQuery = `
MATCH (u:User {id: $userId})
CREATE (a:Address $addressProps)
CREATE (u)-[:HAS_ADDRESS]->(a)
RETURN a`

// NewUser carries the fields of a user registration. Seller is optional; when
// both company name and cnpj are supplied the account is stored as a seller.
type NewUser struct {
	Name      string
	LastName  string
	Email     string
	CPF       string
	Password  string
	Addresses []model.Address
	Seller    *model.SellerInfo
}

// AccountManager creates users and attaches postal addresses.
type AccountManager struct {
	run graph.Runner
	ids func() string
}

func NewAccountManager(run graph.Runner) *AccountManager {
	return &AccountManager{run: run, ids: identity.NewID}
}

// CreateUser persists the User node and every supplied Address inside one
// write transaction, so a registration either fully applies or leaves no
// trace. Duplicate CPFs are rejected with model.ErrCPFTaken before anything
// is written; the cpf uniqueness constraint backs this up at the store level.
func (m *AccountManager) CreateUser(ctx context.Context, in NewUser) (string, error) {
	if _, err := graph.FindNode[model.User](ctx, m.run, "cpf", in.CPF); err == nil {
		return "", model.ErrCPFTaken
	} else if !errors.Is(err, graph.ErrNotFound) {
		return "", errors.Wrap(err, "look up cpf")
	}

	user := model.User{
		ID:       m.ids(),
		Name:     in.Name,
		LastName: in.LastName,
		Email:    in.Email,
		CPF:      in.CPF,
		Password: in.Password,
	}
	if in.Seller != nil && in.Seller.CompanyName != "" && in.Seller.CNPJ != "" {
		user.IsSeller = true
		user.CompanyName = in.Seller.CompanyName
		user.CNPJ = in.Seller.CNPJ
	}

	props, err := graph.Props(&user)
	if err != nil {
		return "", err
	}

	err = m.run.WriteTx(ctx, func(tx graph.Tx) error {
		records, err := tx.Run(ctx, createUserQuery, map[string]any{"props": props})
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return errors.New("user create statement yielded no row")
		}

		for _, address := range in.Addresses {
			if err := createAddress(ctx, tx, user.ID, address); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "create user")
	}

	log.WithFields(log.Fields{"userId": user.ID, "seller": user.IsSeller}).Info("User created")
	return user.ID, nil
}

// GetUserByCPF resolves a user by the cpf business key. Returns
// model.ErrUserNotFound when no user has that cpf.
func (m *AccountManager) GetUserByCPF(ctx context.Context, cpf string) (*model.User, error) {
	user, err := graph.FindNode[model.User](ctx, m.run, "cpf", cpf)
	if err != nil {
		if errors.Is(err, graph.ErrNotFound) {
			return nil, model.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "look up user")
	}
	return user, nil
}

// AddAddress attaches one more address to an existing user. Returns
// model.ErrUserNotFound when no user has the given id.
func (m *AccountManager) AddAddress(ctx context.Context, userID string, address model.Address) error {
	props, err := graph.Props(&address)
	if err != nil {
		return err
	}

	result, err := m.run.Run(ctx, addAddressQuery, map[string]any{
		"userId":       userID,
		"addressProps": props,
	})
	if err != nil {
		return errors.Wrap(err, "add address")
	}
	if len(result.Records) == 0 {
		return model.ErrUserNotFound
	}

	log.WithField("userId", userID).Info("Address added")
	return nil
}

// createAddress issues the address statement through an open transaction.
func createAddress(ctx context.Context, tx graph.Tx, userID string, address model.Address) error {
	props, err := graph.Props(&address)
	if err != nil {
		return err
	}

	records, err := tx.Run(ctx, addAddressQuery, map[string]any{
		"userId":       userID,
		"addressProps": props,
	})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
