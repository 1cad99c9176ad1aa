// Package storetest runs an in-memory stand-in for the music-store REST
// backend, for tests that need the storefront to talk to a real HTTP peer.
package storetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry known to the fake store
type Product struct {
	ID    int64
	Name  string
	Price string
	Stock int
	Image string
	Cost  string
}

// Recorded is one request the fake store received
type Recorded struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]interface{}
}

type failure struct {
	status int
	body   string
}

type item struct {
	ID        int64
	ProductID int64
	Quantity  int
}

type orderItem struct {
	ID                 int64  `json:"id"`
	Product            int64  `json:"product"`
	ProductName        string `json:"product_name"`
	ProductImage       string `json:"product_image"`
	Quantity           int    `json:"quantity"`
	Price              string `json:"price"`
	RefundableQuantity int    `json:"refundable_quantity"`
}

type delivery struct {
	ID              int64  `json:"id"`
	CustomerID      int64  `json:"customer_id"`
	DeliveryAddress string `json:"delivery_address"`
	Status          string `json:"status"`
	TotalPrice      string `json:"total_price"`
}

type order struct {
	ID         int64       `json:"id"`
	Status     string      `json:"status"`
	TotalPrice string      `json:"total_price"`
	CreatedAt  time.Time   `json:"created_at"`
	Items      []orderItem `json:"items"`
	owner      string
}

// Server is the fake store
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	products   map[int64]Product
	passwords  map[string]string
	roles      map[string]string
	carts      map[string][]item
	wishlists  map[string][]int64
	orders     []*order
	deliveries []*delivery
	listed     []delivery
	lagging    bool
	failures   map[string]failure
	requests   []Recorded
	nextID     int64
}

// NewServer starts a fake store; callers Close it
func NewServer() *Server {
	s := &Server{
		products:  map[int64]Product{},
		passwords: map[string]string{},
		roles:     map[string]string{},
		carts:     map[string][]item{},
		wishlists: map[string][]int64{},
		failures:  map[string]failure{},
		nextID:    100,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// AddProduct registers a product
func (s *Server) AddProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// AddUser registers login credentials. The access token issued is "token-<username>".
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passwords[username] = password
}

// SetRole changes the role login reports for username; the default is CUSTOMER
func (s *Server) SetRole(username, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[username] = role
}

// SetCost sets the unit cost the revenue analysis uses for a product
func (s *Server) SetCost(productID int64, cost string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.products[productID]
	p.Cost = cost
	s.products[productID] = p
}

// SeedWishlist puts products on a user's wishlist before any request
func (s *Server) SeedWishlist(username string, productIDs ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlists["user:"+username] = append(s.wishlists["user:"+username], productIDs...)
}

// Wishlist returns the product ids on a user's wishlist
func (s *Server) Wishlist(username string) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64{}, s.wishlists["user:"+username]...)
}

// SeedUserCart puts a line into a user's cart before any request
func (s *Server) SeedUserCart(username string, productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addToCart("user:"+username, productID, quantity)
}

// SeedOrder places an order for username directly and returns the order id and
// the id of its single line
func (s *Server) SeedOrder(username string, productID int64, quantity int) (orderID, itemID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.products[productID]
	price := decimal.RequireFromString(p.Price)
	s.nextID += 2
	o := &order{
		ID:         s.nextID - 1,
		Status:     "PROCESSING",
		TotalPrice: price.Mul(decimal.NewFromInt(int64(quantity))).StringFixed(2),
		CreatedAt:  time.Now().UTC(),
		owner:      "user:" + username,
		Items: []orderItem{{
			ID:                 s.nextID,
			Product:            p.ID,
			ProductName:        p.Name,
			ProductImage:       p.Image,
			Quantity:           quantity,
			Price:              price.StringFixed(2),
			RefundableQuantity: quantity,
		}},
	}
	s.orders = append(s.orders, o)
	return o.ID, s.nextID
}

// SeedDelivery adds a delivery to the delivery manager's list
func (s *Server) SeedDelivery(id int64, address, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = append(s.deliveries, &delivery{ID: id, CustomerID: 1, DeliveryAddress: address, Status: status, TotalPrice: "10.00"})
}

// LagDeliveryList makes the delivery list keep answering with what it held
// at the time of the call, as a read replica behind the primary would
func (s *Server) LagDeliveryList() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lagging = true
	s.listed = make([]delivery, 0, len(s.deliveries))
	for _, d := range s.deliveries {
		s.listed = append(s.listed, *d)
	}
}

// Fail makes every request to "METHOD /path/" answer status with body
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Recover removes a failure installed with Fail
func (s *Server) Recover(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+path)
}

// Requests returns the requests received so far whose path has the given prefix
func (s *Server) Requests(pathPrefix string) []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Recorded
	for _, r := range s.requests {
		if strings.HasPrefix(r.Path, pathPrefix) {
			out = append(out, r)
		}
	}
	return out
}

// CartQuantity returns the quantity of productID in the cart of owner
// ("user:<name>" or "guest:<token>")
func (s *Server) CartQuantity(owner string, productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.carts[owner] {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

var (
	cartItemPath     = regexp.MustCompile(`^/cart/(\d+)/(update_item|remove_item)/$`)
	requestRefundURL = regexp.MustCompile(`^/api/cart/request-refund/(\d+)/$`)
	cancelOrderURL   = regexp.MustCompile(`^/api/cart/cancel-order/(\d+)/$`)
	productURL       = regexp.MustCompile(`^/api/products/(\d+)/$`)
	deliveryURL      = regexp.MustCompile(`^/api/deliveries/(\d+)/$`)
)

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body map[string]interface{}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	s.requests = append(s.requests, Recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})

	if f, ok := s.failures[r.Method+" "+r.URL.Path]; ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		fmt.Fprint(w, f.body)
		return
	}

	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && path == "/login/":
		s.login(w, body)
	case r.Method == http.MethodGet && path == "/api/products/":
		s.listProducts(w)
	case r.Method == http.MethodGet && productURL.MatchString(path):
		productID, _ := strconv.ParseInt(productURL.FindStringSubmatch(path)[1], 10, 64)
		s.getProduct(w, productID)
	case r.Method == http.MethodGet && path == "/cart/":
		s.withOwner(w, r, s.listCart)
	case r.Method == http.MethodPost && path == "/cart/add_item/":
		s.withOwner(w, r, func(w http.ResponseWriter, owner string) { s.addItem(w, owner, body) })
	case r.Method == http.MethodPost && path == "/cart/merge_cart/":
		s.mergeCart(w, r)
	case r.Method == http.MethodPost && cartItemPath.MatchString(path):
		m := cartItemPath.FindStringSubmatch(path)
		lineID, _ := strconv.ParseInt(m[1], 10, 64)
		s.withOwner(w, r, func(w http.ResponseWriter, owner string) {
			if m[2] == "update_item" {
				s.updateItem(w, owner, lineID, body)
				return
			}
			s.removeItem(w, owner, lineID)
		})
	case r.Method == http.MethodPost && path == "/checkout/":
		s.withUser(w, r, func(w http.ResponseWriter, owner string) { s.checkout(w, owner, body) })
	case r.Method == http.MethodGet && path == "/orders/":
		s.withUser(w, r, s.listOrders)
	case r.Method == http.MethodGet && path == "/orders/latest/":
		s.withUser(w, r, s.latestOrder)
	case r.Method == http.MethodPost && cancelOrderURL.MatchString(path):
		orderID, _ := strconv.ParseInt(cancelOrderURL.FindStringSubmatch(path)[1], 10, 64)
		s.withUser(w, r, func(w http.ResponseWriter, owner string) { s.cancelOrder(w, owner, orderID) })
	case r.Method == http.MethodPost && requestRefundURL.MatchString(path):
		itemID, _ := strconv.ParseInt(requestRefundURL.FindStringSubmatch(path)[1], 10, 64)
		s.withUser(w, r, func(w http.ResponseWriter, owner string) { s.requestRefund(w, owner, itemID, body) })
	case r.Method == http.MethodGet && path == "/api/deliveries/":
		s.withUser(w, r, func(w http.ResponseWriter, owner string) { s.listDeliveries(w) })
	case r.Method == http.MethodPut && deliveryURL.MatchString(path):
		deliveryID, _ := strconv.ParseInt(deliveryURL.FindStringSubmatch(path)[1], 10, 64)
		s.withUser(w, r, func(w http.ResponseWriter, owner string) { s.updateDelivery(w, deliveryID, body) })
	case r.Method == http.MethodGet && path == "/api/wishlist/":
		s.withUser(w, r, s.listWishlist)
	case r.Method == http.MethodPost && path == "/api/wishlist/":
		s.withUser(w, r, func(w http.ResponseWriter, owner string) { s.addToWishlist(w, owner, body) })
	case r.Method == http.MethodDelete && path == "/api/wishlist/":
		s.withUser(w, r, func(w http.ResponseWriter, owner string) { s.removeFromWishlist(w, owner, body) })
	case r.Method == http.MethodPost && path == "/add-to-cart-from-wishlist/":
		s.withUser(w, r, func(w http.ResponseWriter, owner string) { s.addToCartFromWishlist(w, owner, body) })
	case r.Method == http.MethodGet && path == "/api/revenue-profit-analysis/":
		s.withUser(w, r, func(w http.ResponseWriter, owner string) { s.revenueProfit(w, r) })
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}
}

func (s *Server) withOwner(w http.ResponseWriter, r *http.Request, next func(http.ResponseWriter, string)) {
	if owner, ok := s.userOf(r); ok {
		next(w, owner)
		return
	}
	if guest := r.Header.Get("Guest-Token"); guest != "" {
		next(w, "guest:"+guest)
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Guest token or authentication required"})
}

func (s *Server) withUser(w http.ResponseWriter, r *http.Request, next func(http.ResponseWriter, string)) {
	owner, ok := s.userOf(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
		return
	}
	next(w, owner)
}

func (s *Server) userOf(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer token-") {
		return "", false
	}
	return "user:" + strings.TrimPrefix(header, "Bearer token-"), true
}

func (s *Server) login(w http.ResponseWriter, body map[string]interface{}) {
	username, _ := body["username"].(string)
	password, _ := body["password"].(string)
	if expected, ok := s.passwords[username]; !ok || expected != password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}
	role := s.roles[username]
	if role == "" {
		role = "CUSTOMER"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access":   "token-" + username,
		"refresh":  "refresh-" + username,
		"username": username,
		"role":     role,
	})
}

func (s *Server) productJSON(p Product) map[string]interface{} {
	return map[string]interface{}{
		"id":                p.ID,
		"name":              p.Name,
		"price":             decimal.RequireFromString(p.Price).StringFixed(2),
		"quantity_in_stock": p.Stock,
		"image":             p.Image,
	}
}

func (s *Server) listProducts(w http.ResponseWriter) {
	ids := make([]int64, 0, len(s.products))
	for id := range s.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.productJSON(s.products[id]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, productID int64) {
	p, ok := s.products[productID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, s.productJSON(p))
}

func (s *Server) listCart(w http.ResponseWriter, owner string) {
	items := make([]map[string]interface{}, 0, len(s.carts[owner]))
	for _, it := range s.carts[owner] {
		p := s.products[it.ProductID]
		price := decimal.RequireFromString(p.Price)
		items = append(items, map[string]interface{}{
			"id":            it.ID,
			"product":       p.Name,
			"product_id":    p.ID,
			"product_image": p.Image,
			"quantity":      it.Quantity,
			"price":         price.StringFixed(2),
			"total_price":   price.Mul(decimal.NewFromInt(int64(it.Quantity))).StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) addItem(w http.ResponseWriter, owner string, body map[string]interface{}) {
	productID := int64(number(body["product_id"]))
	quantity := int(number(body["quantity"]))
	p, ok := s.products[productID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	if p.Stock < quantity {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Not enough stock available"})
		return
	}
	s.addToCart(owner, productID, quantity)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item added to cart successfully"})
}

func (s *Server) addToCart(owner string, productID int64, quantity int) {
	stock := s.products[productID].Stock
	for i, it := range s.carts[owner] {
		if it.ProductID == productID {
			s.carts[owner][i].Quantity = min(it.Quantity+quantity, stock)
			return
		}
	}
	s.nextID++
	s.carts[owner] = append(s.carts[owner], item{ID: s.nextID, ProductID: productID, Quantity: min(quantity, stock)})
}

func (s *Server) updateItem(w http.ResponseWriter, owner string, lineID int64, body map[string]interface{}) {
	quantity := int(number(body["quantity"]))
	if quantity == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Quantity is required"})
		return
	}
	for i, it := range s.carts[owner] {
		if it.ID == lineID {
			s.carts[owner][i].Quantity = min(quantity, s.products[it.ProductID].Stock)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Item updated successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (s *Server) removeItem(w http.ResponseWriter, owner string, lineID int64) {
	for i, it := range s.carts[owner] {
		if it.ID == lineID {
			s.carts[owner] = append(s.carts[owner][:i], s.carts[owner][i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Item removed successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (s *Server) mergeCart(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.userOf(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "User must be logged in to merge carts"})
		return
	}
	guest := r.Header.Get("Guest-Token")
	if guest == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Guest token is required for cart merging"})
		return
	}
	guestItems, ok := s.carts["guest:"+guest]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Guest cart not found"})
		return
	}
	for _, it := range guestItems {
		s.addToCart(owner, it.ProductID, it.Quantity)
	}
	delete(s.carts, "guest:"+guest)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cart merged successfully"})
}

func (s *Server) checkout(w http.ResponseWriter, owner string, body map[string]interface{}) {
	if _, ok := body["credit_card"].(map[string]interface{}); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Card details are incomplete"})
		return
	}
	items := s.carts[owner]
	if len(items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Cart is empty"})
		return
	}

	s.nextID++
	o := &order{ID: s.nextID, Status: "PROCESSING", CreatedAt: time.Now().UTC(), owner: owner}
	total := decimal.Zero
	for _, it := range items {
		p := s.products[it.ProductID]
		price := decimal.RequireFromString(p.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		s.nextID++
		o.Items = append(o.Items, orderItem{
			ID:                 s.nextID,
			Product:            p.ID,
			ProductName:        p.Name,
			ProductImage:       p.Image,
			Quantity:           it.Quantity,
			Price:              price.StringFixed(2),
			RefundableQuantity: it.Quantity,
		})
	}
	o.TotalPrice = total.StringFixed(2)
	s.orders = append(s.orders, o)
	delete(s.carts, owner)
	writeJSON(w, http.StatusCreated, o)
}

func (s *Server) listOrders(w http.ResponseWriter, owner string) {
	out := []*order{}
	for _, o := range s.orders {
		if o.owner == owner {
			out = append(out, o)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) latestOrder(w http.ResponseWriter, owner string) {
	for i := len(s.orders) - 1; i >= 0; i-- {
		if s.orders[i].owner == owner {
			writeJSON(w, http.StatusOK, s.orders[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No orders found."})
}

func (s *Server) cancelOrder(w http.ResponseWriter, owner string, orderID int64) {
	for _, o := range s.orders {
		if o.ID == orderID && o.owner == owner {
			if o.Status != "PROCESSING" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Order cannot be canceled as it is not in the PROCESSING state."})
				return
			}
			o.Status = "CANCELED"
			writeJSON(w, http.StatusOK, map[string]string{"success": fmt.Sprintf("Order %d canceled successfully.", orderID)})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Order not found."})
}

func (s *Server) requestRefund(w http.ResponseWriter, owner string, itemID int64, body map[string]interface{}) {
	quantity := int(number(body["quantity"]))
	for _, o := range s.orders {
		if o.owner != owner {
			continue
		}
		for i := range o.Items {
			it := &o.Items[i]
			if it.ID != itemID {
				continue
			}
			if quantity <= 0 || quantity > it.RefundableQuantity {
				writeJSON(w, http.StatusBadRequest, map[string]string{
					"error": fmt.Sprintf("Invalid return quantity. You can only refund up to %d item(s).", it.RefundableQuantity),
				})
				return
			}
			it.RefundableQuantity -= quantity
			s.nextID++
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success":   fmt.Sprintf("Refund request for %d item(s) submitted.", quantity),
				"refund_id": s.nextID,
			})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Order item not found."})
}

func (s *Server) listDeliveries(w http.ResponseWriter) {
	if s.lagging {
		writeJSON(w, http.StatusOK, s.listed)
		return
	}
	out := make([]delivery, 0, len(s.deliveries))
	for _, d := range s.deliveries {
		out = append(out, *d)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) updateDelivery(w http.ResponseWriter, deliveryID int64, body map[string]interface{}) {
	for _, d := range s.deliveries {
		if d.ID == deliveryID {
			if status, ok := body["status"].(string); ok {
				d.Status = status
			}
			writeJSON(w, http.StatusOK, d)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Delivery not found"})
}

func (s *Server) listWishlist(w http.ResponseWriter, owner string) {
	products := make([]map[string]interface{}, 0, len(s.wishlists[owner]))
	for _, id := range s.wishlists[owner] {
		if p, ok := s.products[id]; ok {
			products = append(products, s.productJSON(p))
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": 1, "products": products})
}

// wishlistProduct resolves the product_id of a wishlist request, answering
// the error itself when it cannot
func (s *Server) wishlistProduct(w http.ResponseWriter, body map[string]interface{}) (Product, bool) {
	productID := int64(number(body["product_id"]))
	if productID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Product ID is required."})
		return Product{}, false
	}
	p, ok := s.products[productID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found."})
		return Product{}, false
	}
	return p, true
}

func (s *Server) addToWishlist(w http.ResponseWriter, owner string, body map[string]interface{}) {
	p, ok := s.wishlistProduct(w, body)
	if !ok {
		return
	}
	for _, id := range s.wishlists[owner] {
		if id == p.ID {
			writeJSON(w, http.StatusOK, map[string]string{"message": "Product is already in the wishlist."})
			return
		}
	}
	s.wishlists[owner] = append(s.wishlists[owner], p.ID)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Product added to wishlist."})
}

func (s *Server) removeFromWishlist(w http.ResponseWriter, owner string, body map[string]interface{}) {
	p, ok := s.wishlistProduct(w, body)
	if !ok {
		return
	}
	for i, id := range s.wishlists[owner] {
		if id == p.ID {
			s.wishlists[owner] = append(s.wishlists[owner][:i], s.wishlists[owner][i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Product removed from wishlist."})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not in wishlist."})
}

func (s *Server) addToCartFromWishlist(w http.ResponseWriter, owner string, body map[string]interface{}) {
	p, ok := s.wishlistProduct(w, body)
	if !ok {
		return
	}
	if p.Stock <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Product is out of stock."})
		return
	}
	s.addToCart(owner, p.ID, 1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product added to cart."})
}

func (s *Server) revenueProfit(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")

	type day struct{ revenue, cost, refunds decimal.Decimal }
	days := map[string]*day{}
	revenue, cost := decimal.Zero, decimal.Zero
	for _, o := range s.orders {
		date := o.CreatedAt.UTC().Format("2006-01-02")
		if o.Status == "CANCELED" || date < start || date > end {
			continue
		}
		d, ok := days[date]
		if !ok {
			d = &day{}
			days[date] = d
		}
		for _, it := range o.Items {
			price := decimal.RequireFromString(it.Price)
			unitCost := decimal.Zero
			if c := s.products[it.Product].Cost; c != "" {
				unitCost = decimal.RequireFromString(c)
			}
			// Units with a refund request count as refunded
			kept := decimal.NewFromInt(int64(it.RefundableQuantity))
			refunded := decimal.NewFromInt(int64(it.Quantity - it.RefundableQuantity))
			d.revenue = d.revenue.Add(price.Mul(kept))
			d.cost = d.cost.Add(unitCost.Mul(kept))
			d.refunds = d.refunds.Add(price.Mul(refunded))
			revenue = revenue.Add(price.Mul(kept))
			cost = cost.Add(unitCost.Mul(kept))
		}
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	byDate := make([]map[string]string, 0, len(dates))
	for _, date := range dates {
		d := days[date]
		byDate = append(byDate, map[string]string{
			"date":    date + "T00:00:00Z",
			"revenue": d.revenue.StringFixed(2),
			"cost":    d.cost.StringFixed(2),
			"refunds": d.refunds.StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_revenue":   revenue.StringFixed(2),
		"total_profit":    revenue.Sub(cost).StringFixed(2),
		"revenue_by_date": byDate,
	})
}

func number(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	}
	return 0
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
