// Package model contains the domain entities for the store.
// The `crud` struct tags define the mapping between struct fields and
// Neo4j node properties, consumed by the internal/graph mapping layer.
package model

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrCPFTaken         = errors.New("cpf is already taken")

	ErrNoValidProducts   = errors.New("no valid products for the order")
	ErrInsufficientStock = errors.New("insufficient stock for requested quantity")

	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrNegativeStock    = errors.New("stock cannot be negative")
	ErrRatingOutOfRange = errors.New("rating must be between 0 and 5")
)

// StatusPending is the initial status of every order. No status lifecycle is
// implemented; orders stay in this state.
const StatusPending = "Pending"

// User represents a registered account, optionally a seller.
// The cpf is a business identifier used as the lookup key in every
// cross-entity operation; it is enforced unique by a schema constraint.
type User struct {
	ID          string `crud:"pk,property:id"`
	Name        string `crud:"property:name"`
	LastName    string `crud:"property:lastName"`
	Email       string `crud:"property:email"`
	CPF         string `crud:"property:cpf"`
	Password    string `crud:"property:password"` // stored in clear text, as the source system does
	IsSeller    bool   `crud:"property:isSeller"`
	CompanyName string `crud:"property:companyName,omitempty"`
	CNPJ        string `crud:"property:cnpj,omitempty"`
}

// Address is owned by exactly one User through a HAS_ADDRESS relationship.
// Address nodes carry no generated identifier of their own.
type Address struct {
	Street       string `crud:"property:street"`
	Number       string `crud:"property:number"`
	Neighborhood string `crud:"property:neighborhood"`
	State        string `crud:"property:state"`
	ZipCode      string `crud:"property:zipCode"`
}

// SellerInfo holds the extra fields stored on seller accounts.
type SellerInfo struct {
	CompanyName string
	CNPJ        string
}

// Product is a catalog entry. Stock is decremented by the order workflow;
// every other field is immutable after creation, except SellerID which is set
// when the product is linked to a seller.
type Product struct {
	ID          string  `crud:"pk,property:id"`
	Name        string  `crud:"property:name"`
	Description string  `crud:"property:description"`
	Brand       string  `crud:"property:brand"`
	Price       float64 `crud:"property:price"`
	Stock       int     `crud:"property:stock"`
	Rating      float64 `crud:"property:rating"`
	SellerID    string  `crud:"property:sellerId,omitempty"`
}

// Order is immutable once created. Value equals the sum of line totals at
// creation time; Date is an RFC 3339 timestamp, so lexical ordering matches
// chronological ordering.
type Order struct {
	ID      string  `crud:"pk,property:id"`
	Value   float64 `crud:"property:value"`
	Status  string  `crud:"property:status"`
	Date    string  `crud:"property:date"`
	BuyerID string  `crud:"property:buyerId"`
}

// OrderItem is a requested (product, quantity) pair when placing an order.
type OrderItem struct {
	ProductID string
	Quantity  int
}

// OrderSummary is the shape returned by order-history queries.
type OrderSummary struct {
	ID     string
	Value  float64
	Status string
	Date   string
}

// OrderLine is one CONTAINS relationship of an order, expanded with the
// product data captured on the edge traversal.
type OrderLine struct {
	ID       string
	Name     string
	Price    float64
	Quantity int
	Total    float64
}
