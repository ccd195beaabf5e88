package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	app "github.com/patitas/storefront/internal/app"
	"github.com/patitas/storefront/internal/app/domain/catalog"
	"github.com/patitas/storefront/internal/app/domain/customer"
	"github.com/patitas/storefront/internal/app/domain/order"
	"github.com/patitas/storefront/internal/app/domain/param"
	"github.com/patitas/storefront/internal/app/metrics"
	accountssvc "github.com/patitas/storefront/internal/app/services/accounts"
	orderssvc "github.com/patitas/storefront/internal/app/services/orders"
	"github.com/patitas/storefront/internal/app/storage"
	"github.com/patitas/storefront/internal/middleware"
)

// PublicRoute reports whether a request may be served without a bearer
// token: health, metrics, the auth endpoints, and catalog reads including
// product detail and per-category listing.
func PublicRoute(r *http.Request) bool {
	switch r.URL.Path {
	case "/health", "/metrics", "/auth/register", "/auth/login", "/auth/recover":
		return true
	}
	if r.Method != http.MethodGet {
		return false
	}
	for _, prefix := range []string{"/products", "/categories"} {
		if r.URL.Path == prefix || strings.HasPrefix(r.URL.Path, prefix+"/") {
			return true
		}
	}
	return false
}

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
}

// NewHandler returns a mux exposing the storefront REST API.
func NewHandler(application *app.Application) http.Handler {
	h := &handler{app: application}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.health)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/auth/register", h.register)
	mux.HandleFunc("/auth/login", h.login)
	mux.HandleFunc("/auth/recover", h.recover)
	mux.HandleFunc("/me", h.me)
	mux.HandleFunc("/products", h.products)
	mux.HandleFunc("/products/", h.productResources)
	mux.HandleFunc("/categories", h.categories)
	mux.HandleFunc("/categories/", h.categoryResources)
	mux.HandleFunc("/cart", h.cart)
	mux.HandleFunc("/cart/", h.cartResources)
	mux.HandleFunc("/orders", h.orders)
	mux.HandleFunc("/orders/", h.orderResources)
	mux.HandleFunc("/params", h.params)
	mux.HandleFunc("/params/", h.paramResources)
	mux.HandleFunc("/users/", h.userResources)
	mux.HandleFunc("/reports/sales", h.salesReport)
	return mux
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	u, err := h.app.Accounts.Register(r.Context(), accountssvc.RegisterInput{
		Email:    payload.Email,
		Password: payload.Password,
		Name:     payload.Name,
		Phone:    payload.Phone,
		Address:  payload.Address,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
	})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	token, u, err := h.app.Accounts.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, accountssvc.ErrAccountLocked) {
			status = http.StatusForbidden
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"id":    u.ID,
		"email": u.Email,
		"role":  string(u.Role),
	})
}

func (h *handler) recover(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.app.Accounts.RecoverPassword(r.Context(), payload.Email); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	c, ok := h.requireCustomer(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, c)
	case http.MethodPut:
		var payload struct {
			Name    string `json:"name"`
			Phone   string `json:"phone"`
			Address string `json:"address"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		c.Name = payload.Name
		c.Phone = payload.Phone
		c.Address = payload.Address
		updated, err := h.app.Accounts.UpdateCustomer(r.Context(), c)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) products(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var (
			list []catalog.Product
			err  error
		)
		if r.URL.Query().Get("all") == "true" && middleware.GetUserRole(r.Context()) == "admin" {
			list, err = h.app.Catalog.ListProducts(r.Context())
		} else {
			list, err = h.app.Catalog.ListAvailable(r.Context())
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		if !h.requireAdmin(w, r) {
			return
		}
		var payload productPayload
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		created, err := h.app.Catalog.CreateProduct(r.Context(), payload.toProduct(""))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type productPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   int64  `json:"unit_price"`
	Stock       int    `json:"stock"`
	Taxable     bool   `json:"taxable"`
	CategoryID  string `json:"category_id"`
}

func (p productPayload) toProduct(id string) catalog.Product {
	return catalog.Product{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		Stock:       p.Stock,
		Taxable:     p.Taxable,
		CategoryID:  p.CategoryID,
	}
}

func (h *handler) productResources(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/products"), "/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := h.app.Catalog.GetProduct(r.Context(), id)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	case http.MethodPut:
		if !h.requireAdmin(w, r) {
			return
		}
		var payload productPayload
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		existing, err := h.app.Catalog.GetProduct(r.Context(), id)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		updated := payload.toProduct(id)
		updated.Active = existing.Active
		p, err := h.app.Catalog.UpdateProduct(r.Context(), updated)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	case http.MethodDelete:
		if !h.requireAdmin(w, r) {
			return
		}
		if err := h.app.Catalog.DeleteProduct(r.Context(), id); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) categories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.app.Catalog.ListCategories(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		if !h.requireAdmin(w, r) {
			return
		}
		var payload struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		created, err := h.app.Catalog.CreateCategory(r.Context(), catalog.Category{
			Name:        payload.Name,
			Description: payload.Description,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) categoryResources(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/categories"), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) == 0 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	categoryID := parts[0]

	if len(parts) == 2 && parts[1] == "products" {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		list, err := h.app.Catalog.ListByCategory(r.Context(), categoryID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}
	if len(parts) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := h.app.Catalog.GetCategory(r.Context(), categoryID)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, c)

	case http.MethodDelete:
		if !h.requireAdmin(w, r) {
			return
		}
		if err := h.app.Catalog.DeleteCategory(r.Context(), categoryID); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// cartView is the cart as the storefront renders it: the lines plus the
// computed totals and the remaining daily allowance.
type cartView struct {
	Items          interface{} `json:"items"`
	Subtotal       int64       `json:"subtotal"`
	Tax            int64       `json:"tax"`
	Total          int64       `json:"total"`
	TodayItems     int         `json:"today_items"`
	RemainingToday int         `json:"remaining_today"`
}

func (h *handler) cartViewFor(r *http.Request, owner string) cartView {
	ctx := r.Context()
	totals := h.app.Cart.Totals(ctx, owner)
	remaining := h.app.Cart.RemainingToday(ctx, owner)
	if remaining < 0 {
		remaining = 0
	}
	return cartView{
		Items:          h.app.Cart.Items(ctx, owner),
		Subtotal:       totals.Subtotal,
		Tax:            totals.Tax,
		Total:          totals.Total,
		TodayItems:     h.app.Cart.TodayItemCount(ctx, owner),
		RemainingToday: remaining,
	}
}

func (h *handler) cart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.requireCustomer(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.cartViewFor(r, c.ID))
	case http.MethodDelete:
		h.app.Cart.RemoveAll(r.Context(), c.ID)
		metrics.RecordCartOperation("remove_all", true)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) cartResources(w http.ResponseWriter, r *http.Request) {
	c, ok := h.requireCustomer(w, r)
	if !ok {
		return
	}

	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/cart"), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) == 0 || parts[0] != "items" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var payload struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		p, err := h.app.Catalog.GetProduct(r.Context(), payload.ProductID)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		if !p.Active {
			writeError(w, http.StatusConflict, fmt.Errorf("product %s is no longer available", p.Name))
			return
		}
		added := h.app.Cart.AddItem(r.Context(), c.ID, p, payload.Quantity)
		metrics.RecordCartOperation("add", added)
		if !added {
			writeJSON(w, http.StatusConflict, h.cartViewFor(r, c.ID))
			return
		}
		writeJSON(w, http.StatusCreated, h.cartViewFor(r, c.ID))
		return
	}

	if len(parts) != 2 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	lineID := parts[1]

	switch r.Method {
	case http.MethodPatch:
		var payload struct {
			Quantity int `json:"quantity"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		updated := h.app.Cart.UpdateQuantity(r.Context(), c.ID, lineID, payload.Quantity)
		metrics.RecordCartOperation("update_quantity", updated)
		if !updated && payload.Quantity > 0 {
			writeJSON(w, http.StatusConflict, h.cartViewFor(r, c.ID))
			return
		}
		writeJSON(w, http.StatusOK, h.cartViewFor(r, c.ID))

	case http.MethodDelete:
		removed := h.app.Cart.RemoveItem(r.Context(), c.ID, lineID)
		metrics.RecordCartOperation("remove", removed)
		writeJSON(w, http.StatusOK, h.cartViewFor(r, c.ID))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) orders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c, ok := h.requireCustomer(w, r)
		if !ok {
			return
		}
		o, err := h.app.Orders.Checkout(r.Context(), c.ID)
		if err != nil {
			metrics.RecordCheckout(0, false)
			status := http.StatusConflict
			if errors.Is(err, orderssvc.ErrEmptyCart) {
				status = http.StatusBadRequest
			}
			writeError(w, status, err)
			return
		}
		// The engine stays checkout-agnostic; emptying the cart after a
		// placed order is this surface's job.
		h.app.Cart.RemoveAll(r.Context(), c.ID)
		metrics.RecordCheckout(o.Total, true)
		writeJSON(w, http.StatusCreated, o)

	case http.MethodGet:
		if middleware.GetUserRole(r.Context()) == "admin" {
			list, err := h.app.Orders.List(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, list)
			return
		}
		c, ok := h.requireCustomer(w, r)
		if !ok {
			return
		}
		list, err := h.app.Orders.History(r.Context(), c.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) orderResources(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/orders"), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) == 0 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	orderID := parts[0]

	o, err := h.app.Orders.Get(r.Context(), orderID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	isAdmin := middleware.GetUserRole(r.Context()) == "admin"
	if !isAdmin {
		c, ok := h.requireCustomer(w, r)
		if !ok {
			return
		}
		if o.CustomerID != c.ID {
			w.WriteHeader(http.StatusForbidden)
			return
		}
	}

	if len(parts) == 2 && parts[1] == "status" {
		if !isAdmin {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.Method != http.MethodPatch {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var payload struct {
			Status string `json:"status"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		updated, err := h.app.Orders.UpdateStatus(r.Context(), orderID, order.Status(payload.Status))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
		return
	}
	if len(parts) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type paramPayload struct {
	Description  string  `json:"description"`
	NumericValue float64 `json:"numeric_value"`
	TextValue    string  `json:"text_value"`
}

func (h *handler) params(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		list, err := h.app.Params.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var payload paramPayload
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		created, err := h.app.Params.Create(r.Context(), param.Parameter{
			Description:  payload.Description,
			NumericValue: payload.NumericValue,
			TextValue:    payload.TextValue,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) paramResources(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/params"), "/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := h.app.Params.Get(r.Context(), id)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	case http.MethodPut:
		var payload paramPayload
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		updated, err := h.app.Params.Update(r.Context(), param.Parameter{
			ID:           id,
			Description:  payload.Description,
			NumericValue: payload.NumericValue,
			TextValue:    payload.TextValue,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := h.app.Params.Delete(r.Context(), id); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) userResources(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/users"), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[1] != "unlock" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := h.app.Accounts.Unlock(r.Context(), parts[0]); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) salesReport(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("from: %w", err))
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("to: %w", err))
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}

	sum, err := h.app.Reports.SalesSummary(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// requireCustomer resolves the authenticated user's customer profile, writing
// the error response itself when the request cannot proceed.
func (h *handler) requireCustomer(w http.ResponseWriter, r *http.Request) (customer.Customer, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return customer.Customer{}, false
	}
	c, err := h.app.Accounts.CustomerForUser(r.Context(), userID)
	if err != nil {
		writeError(w, statusFor(err), fmt.Errorf("customer profile: %w", err))
		return customer.Customer{}, false
	}
	return c, true
}

func (h *handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if middleware.GetUserRole(r.Context()) != "admin" {
		w.WriteHeader(http.StatusForbidden)
		return false
	}
	return true
}

func statusFor(err error) int {
	if errors.Is(err, storage.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
