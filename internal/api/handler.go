package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"evwcloud/m/domain"
	"evwcloud/m/internal/config"
	"evwcloud/m/internal/insights"
	"evwcloud/m/internal/pos"
	"evwcloud/m/internal/seed"
	"evwcloud/m/internal/store"
	"evwcloud/m/internal/whatsapp"
)

type ctxKey string

const (
	ctxUserName ctxKey = "userName"
	ctxRole     ctxKey = "role"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	engine   *pos.Engine
	insights insights.Generator
	cfg      config.Config
	validate *validator.Validate
}

// New constructs a Handler.
func New(st *store.Store, engine *pos.Engine, gen insights.Generator, cfg config.Config) *Handler {
	return &Handler{
		store:    st,
		engine:   engine,
		insights: gen,
		cfg:      cfg,
		validate: validator.New(),
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Post("/auth/login", h.login)

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.upsertProduct)
			r.Get("/meta", h.productMeta)
			r.Get("/low-stock", h.lowStock)
			r.Post("/{id}/stock", h.adjustStock)
			r.With(aiLimit()).Post("/{id}/description", h.productDescription)
		})

		pr.Route("/customers", func(r chi.Router) {
			r.Get("/", h.listCustomers)
			r.Post("/", h.upsertCustomer)
			r.Post("/{id}/balance", h.adjustBalance)
		})

		pr.Post("/checkout", h.checkout)

		pr.Route("/invoices", func(r chi.Router) {
			r.Get("/", h.listInvoices)
			r.Get("/{id}", h.getInvoice)
			r.Get("/{id}/share", h.shareInvoice)
		})

		pr.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.listExpenses)
			r.Post("/", h.addExpense)
		})

		pr.Get("/stock-logs", h.listStockLogs)

		pr.Route("/dashboard", func(r chi.Router) {
			r.Get("/", h.dashboard)
			r.With(aiLimit()).Get("/insights", h.businessInsights)
		})

		pr.Route("/team", func(r chi.Router) {
			r.Get("/", h.listTeam)
			r.Post("/", h.inviteMember)
		})

		pr.Route("/settings", func(r chi.Router) {
			r.Get("/", h.getSettings)
			r.Put("/", h.saveSettings)
		})

		pr.Route("/profile", func(r chi.Router) {
			r.Get("/", h.getProfile)
			r.Put("/", h.saveProfile)
			r.Delete("/", h.logout)
		})
	})

	return r
}

// aiLimit keeps the text-generation endpoints from being hammered; the
// upstream service is slow and metered.
func aiLimit() func(http.Handler) http.Handler {
	return httprate.LimitByIP(10, time.Minute)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication

type authClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type loginRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
	Passcode string `json:"passcode"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "name, email and role are required")
		return
	}

	// An admin passcode is optional; when configured every login must
	// present it.
	if h.cfg.AdminPassHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPassHash), []byte(req.Passcode)) != nil {
			respondError(w, http.StatusUnauthorized, "invalid passcode")
			return
		}
	}

	profile := &domain.UserProfile{Name: req.Name, Email: strings.ToLower(req.Email), Role: req.Role}
	if err := h.store.SaveUserProfile(profile); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to save profile")
		return
	}

	token, err := h.generateToken(profile)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"token": token, "user": profile})
}

func (h *Handler) generateToken(profile *domain.UserProfile) (string, error) {
	claims := authClaims{
		Name:  profile.Name,
		Email: profile.Email,
		Role:  profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.Secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.cfg.Secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserName, claims.Name)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Product handlers

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products := h.store.Products()
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	if query == "" {
		respondJSON(w, http.StatusOK, products)
		return
	}
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) || strings.Contains(strings.ToLower(p.SKU), query) {
			filtered = append(filtered, p)
		}
	}
	respondJSON(w, http.StatusOK, filtered)
}

type productRequest struct {
	ID                string  `json:"id"`
	Name              string  `json:"name" validate:"required"`
	SKU               string  `json:"sku" validate:"required"`
	Brand             string  `json:"brand"`
	Category          string  `json:"category"`
	Flavor            string  `json:"flavor"`
	Strength          string  `json:"strength"`
	CostPrice         float64 `json:"costPrice" validate:"gte=0"`
	WholesalePrice    float64 `json:"wholesalePrice" validate:"gte=0"`
	RetailPrice       float64 `json:"retailPrice" validate:"gte=0"`
	Stock             int64   `json:"stock"`
	LowStockThreshold int64   `json:"lowStockThreshold" validate:"gte=0"`
	Description       string  `json:"description"`
}

func (h *Handler) upsertProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "name and sku are required, prices must be non-negative")
		return
	}
	product, err := h.engine.UpsertProduct(domain.Product{
		ID:                req.ID,
		Name:              req.Name,
		SKU:               req.SKU,
		Brand:             req.Brand,
		Category:          req.Category,
		Flavor:            req.Flavor,
		Strength:          req.Strength,
		CostPrice:         req.CostPrice,
		WholesalePrice:    req.WholesalePrice,
		RetailPrice:       req.RetailPrice,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		Description:       req.Description,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to save product")
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	low := []domain.Product{}
	for _, p := range h.store.Products() {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	respondJSON(w, http.StatusOK, low)
}

// productMeta serves the category and brand lists used to populate the
// product form dropdowns.
func (h *Handler) productMeta(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{
		"categories": seed.Categories(),
		"brands":     seed.Brands(),
	})
}

type adjustStockRequest struct {
	NewStock int64              `json:"newStock"`
	Reason   domain.StockReason `json:"reason" validate:"required,oneof=RESTOCK SALE DAMAGE THEFT CORRECTION RETURN"`
	Notes    string             `json:"notes"`
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req adjustStockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "reason must be a valid stock change code")
		return
	}
	entry, err := h.engine.AdjustStock(id, req.NewStock, req.Reason, req.Notes)
	if err != nil {
		if errors.Is(err, pos.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to adjust stock")
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (h *Handler) productDescription(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, p := range h.store.Products() {
		if p.ID == id {
			text := h.insights.ProductDescription(r.Context(), p)
			respondJSON(w, http.StatusOK, map[string]string{"description": text})
			return
		}
	}
	respondError(w, http.StatusNotFound, "product not found")
}

// Customer handlers

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Customers())
}

type customerRequest struct {
	ID          string              `json:"id"`
	Name        string              `json:"name" validate:"required"`
	Phone       string              `json:"phone"`
	Type        domain.CustomerType `json:"type" validate:"required,oneof=RETAIL WHOLESALE DISTRIBUTOR"`
	Balance     float64             `json:"balance"`
	CreditLimit float64             `json:"creditLimit" validate:"gte=0"`
	Tags        []string            `json:"tags"`
	Notes       string              `json:"notes"`
}

func (h *Handler) upsertCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "name and a valid customer type are required")
		return
	}
	customer, err := h.engine.UpsertCustomer(domain.Customer{
		ID:          req.ID,
		Name:        req.Name,
		Phone:       req.Phone,
		Type:        req.Type,
		Balance:     req.Balance,
		CreditLimit: req.CreditLimit,
		Tags:        req.Tags,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to save customer")
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

func (h *Handler) adjustBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload struct {
		Delta float64 `json:"delta"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	customer, err := h.engine.AdjustBalance(id, payload.Delta)
	if err != nil {
		if errors.Is(err, pos.ErrCustomerNotFound) {
			respondError(w, http.StatusNotFound, "customer not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to adjust balance")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// Checkout

type checkoutItem struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int64            `json:"quantity" validate:"required,gt=0"`
	PriceType domain.PriceType `json:"price_type" validate:"omitempty,oneof=RETAIL WHOLESALE"`
}

type checkoutRequest struct {
	CustomerID    string               `json:"customer_id" validate:"required"`
	PaymentMethod domain.PaymentMethod `json:"payment_method" validate:"required,oneof=CASH BANK_TRANSFER JAZZCASH EASYPAISA"`
	Status        domain.InvoiceStatus `json:"status" validate:"omitempty,oneof=PAID PARTIAL UNPAID"`
	Items         []checkoutItem       `json:"items" validate:"required,min=1,dive"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "customer, payment method and at least one item are required")
		return
	}

	var customer domain.Customer
	found := false
	for _, c := range h.store.Customers() {
		if c.ID == req.CustomerID {
			customer = c
			found = true
			break
		}
	}
	if !found {
		respondError(w, http.StatusBadRequest, "customer not found")
		return
	}

	catalog := make(map[string]domain.Product)
	for _, p := range h.store.Products() {
		catalog[p.ID] = p
	}

	cart := make([]domain.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		product, ok := catalog[item.ProductID]
		if !ok {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("product %s not found", item.ProductID))
			return
		}
		priceType := item.PriceType
		if priceType == "" {
			priceType = domain.PriceRetail
		}
		applied := product.RetailPrice
		if priceType == domain.PriceWholesale {
			applied = product.WholesalePrice
		}
		cart = append(cart, domain.CartItem{
			Product:      product,
			Quantity:     item.Quantity,
			PriceType:    priceType,
			AppliedPrice: applied,
		})
	}

	invoice, err := h.engine.Checkout(cart, customer, req.PaymentMethod, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, pos.ErrEmptyCart), errors.Is(err, pos.ErrNoCustomer):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "unable to complete sale")
		}
		return
	}
	respondJSON(w, http.StatusCreated, invoice)
}

// Invoice handlers

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Invoices())
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, inv := range h.store.Invoices() {
		if inv.ID == id {
			respondJSON(w, http.StatusOK, inv)
			return
		}
	}
	respondError(w, http.StatusNotFound, "invoice not found")
}

func (h *Handler) shareInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, inv := range h.store.Invoices() {
		if inv.ID == id {
			text := whatsapp.InvoiceMessage(inv, h.store.Settings())

			phone := ""
			for _, c := range h.store.Customers() {
				if c.ID == inv.CustomerID {
					phone = c.Phone
					break
				}
			}
			respondJSON(w, http.StatusOK, map[string]string{
				"text": text,
				"link": whatsapp.Link(phone, text),
			})
			return
		}
	}
	respondError(w, http.StatusNotFound, "invoice not found")
}

// Expense handlers

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Expenses())
}

type expenseRequest struct {
	Category      domain.ExpenseCategory `json:"category" validate:"required,oneof=Rent Utilities Salary Restocking Maintenance Marketing Other"`
	Amount        float64                `json:"amount" validate:"required,gt=0"`
	Description   string                 `json:"description" validate:"required"`
	PaymentMethod domain.ExpensePayment  `json:"paymentMethod" validate:"required,oneof=CASH BANK OTHER"`
	Date          string                 `json:"date"`
}

func (h *Handler) addExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "category, amount, description and payment method are required")
		return
	}
	expense, err := h.engine.AddExpense(domain.Expense{
		Date:          req.Date,
		Category:      req.Category,
		Amount:        req.Amount,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to save expense")
		return
	}
	respondJSON(w, http.StatusCreated, expense)
}

// Audit log

func (h *Handler) listStockLogs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.StockLogs())
}

// Dashboard

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Stats())
}

func (h *Handler) businessInsights(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.Stats()
	top := h.engine.TopProducts(3)
	text := h.insights.BusinessInsights(r.Context(), stats, top)
	respondJSON(w, http.StatusOK, map[string]any{"stats": stats, "insight": text})
}

// Team handlers

func (h *Handler) listTeam(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.TeamMembers())
}

type teamMemberRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	Role         string `json:"role" validate:"required"`
	Location     string `json:"location"`
	AuthProvider string `json:"authProvider" validate:"required"`
}

func (h *Handler) inviteMember(w http.ResponseWriter, r *http.Request) {
	var req teamMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "name, email, role and auth provider are required")
		return
	}

	member := domain.TeamMember{
		ID:           fmt.Sprintf("u-%d", time.Now().UnixMilli()),
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		Phone:        req.Phone,
		Role:         req.Role,
		Location:     req.Location,
		Status:       domain.MemberInvited,
		AuthProvider: req.AuthProvider,
		LastLogin:    time.Now().UTC().Format(time.RFC3339),
	}

	err := h.store.Transact(func(tx *store.Tx) error {
		return tx.SaveTeamMembers(append(tx.TeamMembers(), member))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to save team member")
		return
	}

	settings := h.store.Settings()
	invite := whatsapp.InviteMessage(member, settings.Brand.CompanyName)
	respondJSON(w, http.StatusCreated, map[string]any{
		"member":      member,
		"invite_text": invite,
		"invite_link": whatsapp.Link(member.Phone, invite),
	})
}

// Settings and profile

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Settings())
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.AdminSettings
	if err := decodeJSON(r, &settings); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.SaveSettings(settings); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to save settings")
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile := h.store.UserProfile()
	if profile == nil {
		respondError(w, http.StatusNotFound, "no profile saved")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

type profileRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

func (h *Handler) saveProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "name, email and role are required")
		return
	}

	profile := &domain.UserProfile{Name: req.Name, Email: strings.ToLower(req.Email), Role: req.Role}
	if err := h.store.SaveUserProfile(profile); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to save profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SaveUserProfile(nil); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to clear profile")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
