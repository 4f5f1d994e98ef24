// Package menu drives the interactive console session. It owns all input
// parsing and console formatting; every data operation goes through the store
// managers.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lfarias/neomercado/internal/model"
	"github.com/lfarias/neomercado/internal/store"
)

// Menu holds the console session state: one reader, one writer and the four
// entity managers.
type Menu struct {
	in        *bufio.Scanner
	out       io.Writer
	accounts  *store.AccountManager
	catalog   *store.CatalogManager
	orders    *store.OrderManager
	favorites *store.FavoriteManager
}

// New builds a menu reading from stdin and writing to stdout.
func New(accounts *store.AccountManager, catalog *store.CatalogManager, orders *store.OrderManager, favorites *store.FavoriteManager) *Menu {
	return &Menu{
		in:        bufio.NewScanner(os.Stdin),
		out:       os.Stdout,
		accounts:  accounts,
		catalog:   catalog,
		orders:    orders,
		favorites: favorites,
	}
}

// Run loops on the main menu until the user quits.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(m.out, `
		##### Main Menu #####
			1- Users
			2- Orders
			3- Products
			4- Favorites`)

		switch option := m.prompt("Choose an option (Q to quit): "); strings.ToUpper(option) {
		case "1":
			m.userMenu(ctx)
		case "2":
			m.orderMenu(ctx)
		case "3":
			m.productMenu(ctx)
		case "4":
			m.favoriteMenu(ctx)
		case "Q":
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option!")
		}
	}
}

func (m *Menu) userMenu(ctx context.Context) {
	for {
		fmt.Fprintln(m.out, `
		##### USER MENU #####
			1- Create User
			2- Add Address`)

		switch option := m.prompt("Choose an option (B to go back): "); strings.ToUpper(option) {
		case "1":
			m.createUser(ctx)
		case "2":
			m.addAddress(ctx)
		case "B":
			return
		default:
			fmt.Fprintln(m.out, "Invalid option!")
		}
	}
}

func (m *Menu) createUser(ctx context.Context) {
	in := store.NewUser{
		Name:     m.prompt("First name: "),
		LastName: m.prompt("Last name: "),
		Email:    m.prompt("Email: "),
		CPF:      m.prompt("CPF: "),
		Password: m.prompt("Password: "),
	}

	if m.confirm("Add an address?") {
		for {
			in.Addresses = append(in.Addresses, m.readAddress())
			if !m.confirm("Add another address?") {
				break
			}
		}
	}

	if m.confirm("Is this user a seller?") {
		in.Seller = &model.SellerInfo{
			CompanyName: m.prompt("Company name: "),
			CNPJ:        m.prompt("CNPJ: "),
		}
	}

	userID, err := m.accounts.CreateUser(ctx, in)
	if err != nil {
		fmt.Fprintf(m.out, "Failed to create user: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "User %s created successfully! ID: %s\n", in.Name, userID)
}

func (m *Menu) addAddress(ctx context.Context) {
	userID := m.prompt("User ID: ")
	if err := m.accounts.AddAddress(ctx, userID, m.readAddress()); err != nil {
		fmt.Fprintf(m.out, "Failed to add address: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "Address added successfully!")
}

func (m *Menu) readAddress() model.Address {
	return model.Address{
		Street:       m.prompt("Street: "),
		Number:       m.prompt("Number: "),
		Neighborhood: m.prompt("Neighborhood: "),
		State:        m.prompt("State: "),
		ZipCode:      m.prompt("Zip code: "),
	}
}

func (m *Menu) productMenu(ctx context.Context) {
	for {
		fmt.Fprintln(m.out, `
		##### PRODUCT MENU #####
			1- Create Product
			2- Search by Name
			3- Search by Brand
			4- Search by Price Range
			5- Search by Seller`)

		switch option := m.prompt("Choose an option (B to go back): "); strings.ToUpper(option) {
		case "1":
			m.createProduct(ctx)
		case "2":
			products, err := m.catalog.SearchByName(ctx, m.prompt("Product name (or part of it): "))
			m.displayCatalog(products, err)
		case "3":
			products, err := m.catalog.SearchByBrand(ctx, m.prompt("Brand (or part of it): "))
			m.displayCatalog(products, err)
		case "4":
			minPrice, ok := m.promptFloat("Minimum price: ")
			if !ok {
				continue
			}
			maxPrice, ok := m.promptFloat("Maximum price: ")
			if !ok {
				continue
			}
			products, err := m.catalog.SearchByPriceRange(ctx, minPrice, maxPrice)
			m.displayCatalog(products, err)
		case "5":
			m.searchBySeller(ctx)
		case "B":
			return
		default:
			fmt.Fprintln(m.out, "Invalid option!")
		}
	}
}

func (m *Menu) createProduct(ctx context.Context) {
	in := store.NewProduct{
		Name:        m.prompt("Name: "),
		Description: m.prompt("Description: "),
		Brand:       m.prompt("Brand: "),
	}

	price, ok := m.promptFloat("Price: ")
	if !ok {
		return
	}
	stock, ok := m.promptInt("Stock: ")
	if !ok {
		return
	}
	rating, ok := m.promptFloat("Rating (0-5): ")
	if !ok {
		return
	}
	in.Price, in.Stock, in.Rating = price, stock, rating
	in.SellerCPF = m.prompt("Seller CPF (leave blank to skip): ")

	productID, err := m.catalog.CreateProduct(ctx, in)
	if err != nil {
		fmt.Fprintf(m.out, "Failed to create product: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Product created successfully! ID: %s\n", productID)
}

func (m *Menu) searchBySeller(ctx context.Context) {
	fmt.Fprintln(m.out, "Search by:")
	fmt.Fprintln(m.out, "1. Seller ID")
	fmt.Fprintln(m.out, "2. Seller CPF")

	switch m.prompt("Option: ") {
	case "1":
		products, err := m.catalog.SearchBySeller(ctx, m.prompt("Seller ID: "))
		m.displayCatalog(products, err)
	case "2":
		products, err := m.catalog.SearchBySellerCPF(ctx, m.prompt("Seller CPF: "))
		m.displayCatalog(products, err)
	default:
		fmt.Fprintln(m.out, "Invalid option!")
	}
}

func (m *Menu) orderMenu(ctx context.Context) {
	for {
		fmt.Fprintln(m.out, `
		##### ORDER MENU #####
			1- Place New Order
			2- View Customer Orders
			3- View Order Details`)

		switch option := m.prompt("Choose an option (B to go back): "); strings.ToUpper(option) {
		case "1":
			m.placeOrder(ctx)
		case "2":
			m.viewOrders(ctx)
		case "3":
			m.viewOrderDetails(ctx)
		case "B":
			return
		default:
			fmt.Fprintln(m.out, "Invalid option!")
		}
	}
}

// placeOrder assembles the requested lines interactively, capping each
// quantity at the stock shown, and submits them in a single CreateOrder call.
func (m *Menu) placeOrder(ctx context.Context) {
	buyerCPF := m.prompt("Buyer CPF: ")

	buyer, err := m.accounts.GetUserByCPF(ctx, buyerCPF)
	if err != nil {
		fmt.Fprintf(m.out, "Buyer with CPF %s not found!\n", buyerCPF)
		return
	}
	fmt.Fprintf(m.out, "Buyer: %s %s\n", buyer.Name, buyer.LastName)

	products, err := m.catalog.ListAvailable(ctx)
	if err != nil {
		fmt.Fprintf(m.out, "Failed to list products: %v\n", err)
		return
	}
	if len(products) == 0 {
		fmt.Fprintln(m.out, "No products available!")
		return
	}

	var items []model.OrderItem
	for {
		m.displayInventory(products)

		index, ok := m.promptInt("\nSelect a product number (0 to finish): ")
		if !ok {
			continue
		}
		if index == 0 {
			break
		}
		if index < 1 || index > len(products) {
			fmt.Fprintln(m.out, "Invalid product number!")
			continue
		}

		selected := products[index-1]
		quantity, ok := m.promptInt(fmt.Sprintf("Quantity (max %d): ", selected.Stock))
		if !ok {
			continue
		}
		if quantity < 1 {
			fmt.Fprintln(m.out, "Quantity must be at least 1")
			continue
		}
		if quantity > selected.Stock {
			fmt.Fprintf(m.out, "Maximum available quantity: %d\n", selected.Stock)
			continue
		}

		items = append(items, model.OrderItem{ProductID: selected.ID, Quantity: quantity})
		fmt.Fprintf(m.out, "%dx %s added to the order\n", quantity, selected.Name)

		// Keep the on-screen inventory consistent with what was picked.
		if quantity == selected.Stock {
			products = append(products[:index-1], products[index:]...)
			if len(products) == 0 {
				break
			}
		} else {
			selected.Stock -= quantity
		}
	}

	if len(items) == 0 {
		fmt.Fprintln(m.out, "No products selected. Order cancelled.")
		return
	}

	orderID, err := m.orders.CreateOrder(ctx, buyerCPF, items)
	if err != nil {
		fmt.Fprintf(m.out, "Failed to place order: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Order placed successfully! ID: %s\n", orderID)
}

func (m *Menu) viewOrders(ctx context.Context) {
	cpf := m.prompt("Customer CPF: ")

	orders, err := m.orders.GetUserOrders(ctx, cpf)
	if err != nil {
		fmt.Fprintf(m.out, "Failed to list orders: %v\n", err)
		return
	}
	if len(orders) == 0 {
		fmt.Fprintf(m.out, "No orders found for customer with CPF %s\n", cpf)
		return
	}

	fmt.Fprintln(m.out, "\nCustomer orders:")
	fmt.Fprintln(m.out, strings.Repeat("-", 80))
	fmt.Fprintf(m.out, "%-3s %-36s %-12s %-15s %-20s\n", "#", "ID", "Value", "Status", "Date")
	fmt.Fprintln(m.out, strings.Repeat("-", 80))
	for i, order := range orders {
		fmt.Fprintf(m.out, "%-3d %-36s $ %-9.2f %-15s %-20s\n", i+1, order.ID, order.Value, order.Status, clip(order.Date, 19))
	}
	fmt.Fprintln(m.out, strings.Repeat("-", 80))
}

func (m *Menu) viewOrderDetails(ctx context.Context) {
	orderID := m.prompt("Order ID: ")

	lines, err := m.orders.GetOrderProducts(ctx, orderID)
	if err != nil {
		fmt.Fprintf(m.out, "Failed to load order: %v\n", err)
		return
	}
	if len(lines) == 0 {
		fmt.Fprintf(m.out, "No products found for order with ID %s\n", orderID)
		return
	}

	var total float64
	fmt.Fprintf(m.out, "\nOrder details (ID: %s):\n", orderID)
	fmt.Fprintln(m.out, strings.Repeat("-", 80))
	fmt.Fprintf(m.out, "%-3s %-30s %-12s %-6s %-12s\n", "#", "Product", "Price", "Qty", "Total")
	fmt.Fprintln(m.out, strings.Repeat("-", 80))
	for i, line := range lines {
		total += line.Total
		fmt.Fprintf(m.out, "%-3d %-30s $ %-9.2f %-6d $ %-9.2f\n", i+1, clip(line.Name, 30), line.Price, line.Quantity, line.Total)
	}
	fmt.Fprintln(m.out, strings.Repeat("-", 80))
	fmt.Fprintf(m.out, "%-50s $ %-9.2f\n", "Order total:", total)
	fmt.Fprintln(m.out, strings.Repeat("-", 80))
}

func (m *Menu) favoriteMenu(ctx context.Context) {
	for {
		fmt.Fprintln(m.out, `
		##### FAVORITES MENU #####
			1- Add to Favorites
			2- View My Favorites
			3- Remove from Favorites`)

		switch option := m.prompt("Choose an option (B to go back): "); strings.ToUpper(option) {
		case "1":
			m.addFavorite(ctx)
		case "2":
			m.viewFavorites(ctx)
		case "3":
			m.removeFavorite(ctx)
		case "B":
			return
		default:
			fmt.Fprintln(m.out, "Invalid option!")
		}
	}
}

func (m *Menu) addFavorite(ctx context.Context) {
	products, err := m.favorites.ListAllProducts(ctx)
	if err != nil {
		fmt.Fprintf(m.out, "Failed to list products: %v\n", err)
		return
	}
	if len(products) == 0 {
		fmt.Fprintln(m.out, "No products available")
		return
	}

	m.displayRated(products)

	index, ok := m.promptInt("\nSelect a product number: ")
	if !ok || index < 1 || index > len(products) {
		fmt.Fprintln(m.out, "Invalid product number!")
		return
	}
	selected := products[index-1]

	cpf := m.prompt("Enter the user CPF: ")
	if err := m.favorites.AddFavorite(ctx, cpf, selected.ID); err != nil {
		fmt.Fprintf(m.out, "Failed to add favorite: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Product '%s' added to favorites\n", selected.Name)
}

func (m *Menu) viewFavorites(ctx context.Context) {
	cpf := m.prompt("Enter your CPF: ")

	favorites, err := m.favorites.ListFavorites(ctx, cpf)
	if err != nil {
		fmt.Fprintf(m.out, "Failed to list favorites: %v\n", err)
		return
	}
	if len(favorites) == 0 {
		fmt.Fprintf(m.out, "No favorite products found for CPF %s\n", cpf)
		return
	}

	fmt.Fprintf(m.out, "\nYour favorite products (%d):\n", len(favorites))
	m.displayRated(favorites)
}

func (m *Menu) removeFavorite(ctx context.Context) {
	cpf := m.prompt("Enter your CPF: ")

	favorites, err := m.favorites.ListFavorites(ctx, cpf)
	if err != nil {
		fmt.Fprintf(m.out, "Failed to list favorites: %v\n", err)
		return
	}
	if len(favorites) == 0 {
		fmt.Fprintf(m.out, "No favorite products found for CPF %s\n", cpf)
		return
	}

	m.displayRated(favorites)

	index, ok := m.promptInt("\nSelect the product number to remove: ")
	if !ok || index < 1 || index > len(favorites) {
		fmt.Fprintln(m.out, "Invalid product number!")
		return
	}

	if err := m.favorites.RemoveFavorite(ctx, cpf, favorites[index-1].ID); err != nil {
		fmt.Fprintf(m.out, "Failed to remove favorite: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "Product removed from favorites")
}

// displayCatalog prints full product records, one block per product.
func (m *Menu) displayCatalog(products []*model.Product, err error) {
	if err != nil {
		fmt.Fprintf(m.out, "Search failed: %v\n", err)
		return
	}
	if len(products) == 0 {
		fmt.Fprintln(m.out, "No products found")
		return
	}

	fmt.Fprintf(m.out, "\nProducts found (%d):\n", len(products))
	fmt.Fprintln(m.out, strings.Repeat("-", 80))
	for _, p := range products {
		fmt.Fprintf(m.out, "ID: %s\n", p.ID)
		fmt.Fprintf(m.out, "Name: %s\n", p.Name)
		fmt.Fprintf(m.out, "Description: %s\n", p.Description)
		fmt.Fprintf(m.out, "Brand: %s\n", p.Brand)
		fmt.Fprintf(m.out, "Price: $ %.2f\n", p.Price)
		fmt.Fprintf(m.out, "Stock: %d\n", p.Stock)
		fmt.Fprintf(m.out, "Rating: %.1f\n", p.Rating)
		fmt.Fprintln(m.out, strings.Repeat("-", 30))
	}
}

// displayInventory prints a numbered table with stock, used while assembling
// an order.
func (m *Menu) displayInventory(products []*model.Product) {
	fmt.Fprintln(m.out, "\nAvailable products:")
	fmt.Fprintln(m.out, strings.Repeat("-", 80))
	fmt.Fprintf(m.out, "%-3s %-30s %-15s %-10s %-8s\n", "#", "Name", "Brand", "Price", "Stock")
	fmt.Fprintln(m.out, strings.Repeat("-", 80))
	for i, p := range products {
		fmt.Fprintf(m.out, "%-3d %-30s %-15s $ %-7.2f %-8d\n", i+1, clip(p.Name, 30), clip(p.Brand, 15), p.Price, p.Stock)
	}
	fmt.Fprintln(m.out, strings.Repeat("-", 80))
}

// displayRated prints a numbered table with rating instead of stock, used by
// the favorites flows.
func (m *Menu) displayRated(products []*model.Product) {
	fmt.Fprintln(m.out, strings.Repeat("-", 80))
	fmt.Fprintf(m.out, "%-3s %-30s %-15s %-10s %-10s\n", "#", "Name", "Brand", "Price", "Rating")
	fmt.Fprintln(m.out, strings.Repeat("-", 80))
	for i, p := range products {
		fmt.Fprintf(m.out, "%-3d %-30s %-15s $ %-7.2f %-10.1f\n", i+1, clip(p.Name, 30), clip(p.Brand, 15), p.Price, p.Rating)
	}
	fmt.Fprintln(m.out, strings.Repeat("-", 80))
}

func (m *Menu) prompt(label string) string {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return ""
	}
	return strings.TrimSpace(m.in.Text())
}

func (m *Menu) promptFloat(label string) (float64, bool) {
	value, err := strconv.ParseFloat(m.prompt(label), 64)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid value! Please enter a number.")
		return 0, false
	}
	return value, true
}

func (m *Menu) promptInt(label string) (int, bool) {
	value, err := strconv.Atoi(m.prompt(label))
	if err != nil {
		fmt.Fprintln(m.out, "Invalid value! Please enter a whole number.")
		return 0, false
	}
	return value, true
}

func (m *Menu) confirm(label string) bool {
	answer := m.prompt(label + " (y/n): ")
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-2] + ".."
}
