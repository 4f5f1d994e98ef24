package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/lfarias/neomercado/internal/graph"
	"github.com/lfarias/neomercado/internal/identity"
	"github.com/lfarias/neomercado/internal/model"
)

const createOrderQuery = `
CREATE (o:Order $props)
RETURN o.id`

// decrementStockQuery only matches while enough stock remains, so a
// concurrent order that depleted the product in the meantime yields no row
// and aborts the surrounding transaction instead of driving stock negative.
const decrementStockQuery = `
MATCH (p:Product {id: $productId})
WHERE p.stock >= $quantity
SET p.stock = p.stock - $quantity
RETURN p.id`

const userOrdersQuery = `
MATCH (u:User {cpf: $cpf})-[:ORDERED]->(o:Order)
RETURN o.id, o.value, o.status, o.date
ORDER BY o.date DESC`

const orderProductsQuery = `
MATCH (o:Order {id: $orderId})-[r:CONTAINS]->(p:Product)
RETURN p.id, p.name, p.price, r.quantity`

// OrderManager implements the order workflow: pricing and validating the
// requested lines, persisting the order with its relationships and
// decrementing stock, plus the order-history reads.
type OrderManager struct {
	run graph.Runner
	ids func() string
	now func() time.Time
}

func NewOrderManager(run graph.Runner) *OrderManager {
	return &OrderManager{run: run, ids: identity.NewID, now: time.Now}
}

// pricedLine is one requested line after its product resolved.
type pricedLine struct {
	product  *model.Product
	quantity int
}

// CreateOrder places an order for the buyer identified by cpf.
//
// Lines whose product id does not resolve are dropped with a warning and the
// order proceeds with the remaining ones; when no valid line is left, nothing
// is persisted and model.ErrNoValidProducts is returned. The order node, the
// ORDERED edge, every CONTAINS edge and every stock decrement are issued
// inside a single write transaction: a failure anywhere, including a product
// with less stock than requested, rolls the whole order back.
func (m *OrderManager) CreateOrder(ctx context.Context, buyerCPF string, items []model.OrderItem) (string, error) {
	buyer, err := graph.FindNode[model.User](ctx, m.run, "cpf", buyerCPF)
	if err != nil {
		if errors.Is(err, graph.ErrNotFound) {
			return "", model.ErrUserNotFound
		}
		return "", errors.Wrap(err, "look up buyer")
	}

	var total float64
	lines := make([]pricedLine, 0, len(items))
	for _, item := range items {
		product, err := graph.FindNode[model.Product](ctx, m.run, "id", item.ProductID)
		if err != nil {
			if errors.Is(err, graph.ErrNotFound) {
				log.WithField("productId", item.ProductID).Warn("Product not found, dropping order line")
				continue
			}
			return "", errors.Wrap(err, "look up product")
		}
		total += product.Price * float64(item.Quantity)
		lines = append(lines, pricedLine{product: product, quantity: item.Quantity})
	}
	if len(lines) == 0 {
		return "", model.ErrNoValidProducts
	}

	order := model.Order{
		ID:      m.ids(),
		Value:   total,
		Status:  model.StatusPending,
		Date:    m.now().UTC().Format(time.RFC3339),
		BuyerID: buyer.ID,
	}
	props, err := graph.Props(&order)
	if err != nil {
		return "", err
	}

	err = m.run.WriteTx(ctx, func(tx graph.Tx) error {
		records, err := tx.Run(ctx, createOrderQuery, map[string]any{"props": props})
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return errors.New("order create statement yielded no row")
		}

		if err := relate(ctx, tx,
			graph.Ref{Label: "User", Property: "id", Value: buyer.ID},
			graph.Ref{Label: "Order", Property: "id", Value: order.ID},
			"ORDERED", nil,
		); err != nil {
			return err
		}

		for _, line := range lines {
			if err := relate(ctx, tx,
				graph.Ref{Label: "Order", Property: "id", Value: order.ID},
				graph.Ref{Label: "Product", Property: "id", Value: line.product.ID},
				"CONTAINS", map[string]any{"quantity": line.quantity},
			); err != nil {
				return err
			}

			decremented, err := tx.Run(ctx, decrementStockQuery, map[string]any{
				"productId": line.product.ID,
				"quantity":  line.quantity,
			})
			if err != nil {
				return err
			}
			if len(decremented) == 0 {
				return errors.Wrapf(model.ErrInsufficientStock, "product %s", line.product.ID)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"orderId": order.ID,
		"buyerId": buyer.ID,
		"lines":   len(lines),
		"value":   total,
	}).Info("Order created")
	return order.ID, nil
}

// GetUserOrders returns the order history of the user with the given cpf,
// most recent first. Unknown cpf yields an empty slice, not an error.
func (m *OrderManager) GetUserOrders(ctx context.Context, cpf string) ([]model.OrderSummary, error) {
	result, err := m.run.Run(ctx, userOrdersQuery, map[string]any{"cpf": cpf})
	if err != nil {
		return nil, errors.Wrap(err, "get user orders")
	}

	orders := make([]model.OrderSummary, 0, len(result.Records))
	for _, record := range result.Records {
		orders = append(orders, model.OrderSummary{
			ID:     asString(record.Values[0]),
			Value:  asFloat(record.Values[1]),
			Status: asString(record.Values[2]),
			Date:   asString(record.Values[3]),
		})
	}
	return orders, nil
}

// GetOrderProducts expands the CONTAINS relationships of an order into typed
// lines with the per-line total.
func (m *OrderManager) GetOrderProducts(ctx context.Context, orderID string) ([]model.OrderLine, error) {
	result, err := m.run.Run(ctx, orderProductsQuery, map[string]any{"orderId": orderID})
	if err != nil {
		return nil, errors.Wrap(err, "get order products")
	}

	lines := make([]model.OrderLine, 0, len(result.Records))
	for _, record := range result.Records {
		line := model.OrderLine{
			ID:       asString(record.Values[0]),
			Name:     asString(record.Values[1]),
			Price:    asFloat(record.Values[2]),
			Quantity: asInt(record.Values[3]),
		}
		line.Total = line.Price * float64(line.Quantity)
		lines = append(lines, line)
	}
	return lines, nil
}

// relate creates one relationship between existing nodes through an open
// transaction.
func relate(ctx context.Context, tx graph.Tx, from, to graph.Ref, relType string, relProps map[string]any) error {
	query, params, err := graph.RelateQuery(from, to, relType, relProps)
	if err != nil {
		return err
	}
	if _, err := tx.Run(ctx, query, params); err != nil {
		return errors.Wrapf(err, "create %s relationship", relType)
	}
	return nil
}
