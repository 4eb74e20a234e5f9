// Package testutil provides in-memory repositories that mirror the constraints of the
// relational schema: unique columns, restricted foreign keys and transactional writes.
package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"skate_marketplace/internal/apperr"
	"skate_marketplace/internal/domain"
	"skate_marketplace/internal/dto"

	"github.com/samber/lo"
)

// ErrInjected is returned by writes that were told to fail
var ErrInjected = errors.New("injected failure")

// Memory is a process-local database shared by the repository views
type Memory struct {
	mu         sync.Mutex
	clock      time.Time
	users      map[string]domain.User
	addresses  map[string]domain.Address
	prefs      map[string]domain.UserPreferences // Keyed by user id
	categories map[string]domain.Category
	products   map[string]domain.Product
	orders     map[string]domain.Order // Without items
	items      map[string]domain.OrderItem

	// FailItemWrites makes the next order item insert fail after the other rows of the
	// same transaction were prepared
	FailItemWrites bool
}

// NewMemory creates an empty database
func NewMemory() *Memory {
	return &Memory{
		clock:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		users:      map[string]domain.User{},
		addresses:  map[string]domain.Address{},
		prefs:      map[string]domain.UserPreferences{},
		categories: map[string]domain.Category{},
		products:   map[string]domain.Product{},
		orders:     map[string]domain.Order{},
		items:      map[string]domain.OrderItem{},
	}
}

// now returns a strictly increasing timestamp so creation order is observable
func (m *Memory) now() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func notFound(entity string) error {
	return apperr.NotFound("%s not found", entity)
}

func paginate[T any](rows []T, p dto.Pagination) []T {
	start := min(p.Offset(), len(rows))
	end := len(rows)
	if p.Limit > 0 {
		end = min(start+p.Limit, len(rows))
	}
	return rows[start:end]
}

// Users returns the account repository
func (m *Memory) Users() *Users { return &Users{m} }

// Addresses returns the address repository
func (m *Memory) Addresses() *Addresses { return &Addresses{m} }

// Preferences returns the preferences repository
func (m *Memory) Preferences() *Preferences { return &Preferences{m} }

// Categories returns the category repository
func (m *Memory) Categories() *Categories { return &Categories{m} }

// Products returns the product repository
func (m *Memory) Products() *Products { return &Products{m} }

// Orders returns the order repository
func (m *Memory) Orders() *Orders { return &Orders{m} }

// Counts reports the number of stored orders and order items
func (m *Memory) Counts() (orders, items int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders), len(m.items)
}

// Users is the in-memory account repository
type Users struct{ m *Memory }

func (r *Users) emailTaken(email, exceptID string) bool {
	return lo.SomeBy(lo.Values(r.m.users), func(u domain.User) bool {
		return u.Email == email && u.ID != exceptID
	})
}

// Create stores a new account
func (r *Users) Create(ctx context.Context, user *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_ = user.BeforeCreate(nil)
	if r.emailTaken(user.Email, "") {
		user.ID = ""
		return apperr.Conflict("user already exists")
	}
	user.CreatedAt = r.m.now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	stored.Addresses, stored.Preferences = nil, nil
	r.m.users[user.ID] = stored
	return nil
}

// FindByID loads an account
func (r *Users) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return nil, notFound("user")
	}
	return &user, nil
}

// FindByEmail loads an account by email
func (r *Users) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	email = domain.NormalizeEmail(email)
	user, ok := lo.Find(lo.Values(r.m.users), func(u domain.User) bool { return u.Email == email })
	if !ok {
		return nil, notFound("user")
	}
	return &user, nil
}

// FindProfile loads an account with addresses and preferences
func (r *Users) FindProfile(ctx context.Context, id string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return nil, notFound("user")
	}
	user.Addresses = r.m.addressesOf(id)
	if prefs, ok := r.m.prefs[id]; ok {
		user.Preferences = &prefs
	}
	return &user, nil
}

// List returns a page of accounts, newest first
func (r *Users) List(ctx context.Context, p dto.Pagination) ([]domain.User, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	users := lo.Values(r.m.users)
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return paginate(users, p), int64(len(users)), nil
}

// Update stores every field of the account
func (r *Users) Update(ctx context.Context, user *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[user.ID]; !ok {
		return notFound("user")
	}
	user.Email = domain.NormalizeEmail(user.Email)
	if r.emailTaken(user.Email, user.ID) {
		return apperr.Conflict("user already exists")
	}
	user.UpdatedAt = r.m.now()
	stored := *user
	stored.Addresses, stored.Preferences = nil, nil
	r.m.users[user.ID] = stored
	return nil
}

// Delete removes an account that owns no orders
func (r *Users) Delete(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[id]; !ok {
		return notFound("user")
	}
	if owned := lo.CountBy(lo.Values(r.m.orders), func(o domain.Order) bool { return o.UserID == id }); owned > 0 {
		return apperr.Conflict("user has %d order(s) and cannot be deleted", owned)
	}
	for addrID, a := range r.m.addresses {
		if a.UserID == id {
			delete(r.m.addresses, addrID)
		}
	}
	delete(r.m.prefs, id)
	delete(r.m.users, id)
	return nil
}

// Addresses is the in-memory address repository
type Addresses struct{ m *Memory }

// addressesOf returns the user's addresses, default first then newest; callers hold the lock
func (m *Memory) addressesOf(userID string) []domain.Address {
	list := lo.Filter(lo.Values(m.addresses), func(a domain.Address, _ int) bool { return a.UserID == userID })
	sort.Slice(list, func(i, j int) bool {
		if list[i].IsDefault != list[j].IsDefault {
			return list[i].IsDefault
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// ListByUser returns the user's addresses
func (r *Addresses) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.m.addressesOf(userID), nil
}

// FindForUser loads one address owned by userID
func (r *Addresses) FindForUser(ctx context.Context, userID, id string) (*domain.Address, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.addresses[id]
	if !ok || a.UserID != userID {
		return nil, notFound("address")
	}
	return &a, nil
}

// Save creates or updates an address, clearing other defaults of the same (user, type)
func (r *Addresses) Save(ctx context.Context, address *domain.Address) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[address.UserID]; !ok {
		return notFound("user")
	}
	if address.IsDefault {
		for id, other := range r.m.addresses {
			if id != address.ID && other.UserID == address.UserID && other.Type == address.Type && other.IsDefault {
				other.IsDefault = false
				r.m.addresses[id] = other
			}
		}
	}
	if address.ID == "" {
		_ = address.BeforeCreate(nil)
		address.CreatedAt = r.m.now()
	}
	address.UpdatedAt = r.m.now()
	r.m.addresses[address.ID] = *address
	return nil
}

// Delete removes an address owned by userID
func (r *Addresses) Delete(ctx context.Context, userID, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.addresses[id]
	if !ok || a.UserID != userID {
		return notFound("address")
	}
	delete(r.m.addresses, id)
	return nil
}

// Preferences is the in-memory preferences repository
type Preferences struct{ m *Memory }

// FindByUser loads the user's settings
func (r *Preferences) FindByUser(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	prefs, ok := r.m.prefs[userID]
	if !ok {
		return nil, notFound("preferences")
	}
	return &prefs, nil
}

// Upsert stores the settings of a user
func (r *Preferences) Upsert(ctx context.Context, prefs *domain.UserPreferences) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[prefs.UserID]; !ok {
		return apperr.Conflict("preferences is referenced by other records")
	}
	if current, ok := r.m.prefs[prefs.UserID]; ok {
		prefs.ID, prefs.CreatedAt = current.ID, current.CreatedAt
	} else {
		prefs.ID = ""
		_ = prefs.BeforeCreate(nil)
		prefs.CreatedAt = r.m.now()
	}
	prefs.UpdatedAt = r.m.now()
	r.m.prefs[prefs.UserID] = *prefs
	return nil
}

// Categories is the in-memory category repository
type Categories struct{ m *Memory }

func (r *Categories) nameTaken(name, exceptID string) bool {
	return lo.SomeBy(lo.Values(r.m.categories), func(c domain.Category) bool {
		return c.Name == name && c.ID != exceptID
	})
}

// Create stores a category with a unique name
func (r *Categories) Create(ctx context.Context, category *domain.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.nameTaken(category.Name, "") {
		return apperr.Conflict("category already exists")
	}
	_ = category.BeforeCreate(nil)
	category.CreatedAt = r.m.now()
	category.UpdatedAt = category.CreatedAt
	r.m.categories[category.ID] = *category
	return nil
}

// FindByID loads a category
func (r *Categories) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.categories[id]
	if !ok {
		return nil, notFound("category")
	}
	return &c, nil
}

// List returns every category ordered by name
func (r *Categories) List(ctx context.Context) ([]domain.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	list := lo.Values(r.m.categories)
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// Update stores the category
func (r *Categories) Update(ctx context.Context, category *domain.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.categories[category.ID]; !ok {
		return notFound("category")
	}
	if r.nameTaken(category.Name, category.ID) {
		return apperr.Conflict("category already exists")
	}
	category.UpdatedAt = r.m.now()
	r.m.categories[category.ID] = *category
	return nil
}

// Delete removes a category no product references
func (r *Categories) Delete(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.categories[id]; !ok {
		return notFound("category")
	}
	if used := lo.CountBy(lo.Values(r.m.products), func(p domain.Product) bool { return p.CategoryID == id }); used > 0 {
		return apperr.Conflict("category is used by %d product(s)", used)
	}
	delete(r.m.categories, id)
	return nil
}

// Products is the in-memory product repository
type Products struct{ m *Memory }

// withCategory attaches the product's category; callers hold the lock
func (m *Memory) withCategory(p domain.Product) domain.Product {
	if c, ok := m.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return p
}

func (r *Products) check(p *domain.Product) error {
	if _, ok := r.m.categories[p.CategoryID]; !ok {
		return apperr.Conflict("product is referenced by other records")
	}
	if p.SKU != nil && lo.SomeBy(lo.Values(r.m.products), func(o domain.Product) bool {
		return o.SKU != nil && *o.SKU == *p.SKU && o.ID != p.ID
	}) {
		return apperr.Conflict("product already exists")
	}
	return nil
}

// Create stores a product
func (r *Products) Create(ctx context.Context, product *domain.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.check(product); err != nil {
		return err
	}
	_ = product.BeforeCreate(nil)
	product.CreatedAt = r.m.now()
	product.UpdatedAt = product.CreatedAt
	stored := *product
	stored.Category = nil
	r.m.products[product.ID] = stored
	*product = r.m.withCategory(stored)
	return nil
}

// FindByID loads a product with its category
func (r *Products) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok {
		return nil, notFound("product")
	}
	p = r.m.withCategory(p)
	return &p, nil
}

// FindByIDs loads the listed products that exist
func (r *Products) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var found []domain.Product
	for _, id := range lo.Uniq(ids) {
		if p, ok := r.m.products[id]; ok {
			found = append(found, p)
		}
	}
	return found, nil
}

// List applies the listing filters
func (r *Products) List(ctx context.Context, f dto.ProductFilter) ([]domain.Product, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	matches := lo.Filter(lo.Values(r.m.products), func(p domain.Product, _ int) bool {
		switch {
		case f.CategoryID != "" && p.CategoryID != f.CategoryID:
			return false
		case f.MinPrice != nil && p.Price.LessThan(*f.MinPrice):
			return false
		case f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice):
			return false
		case f.ActiveOnly && !p.IsActive:
			return false
		}
		if search == "" {
			return true
		}
		fields := []string{p.Title, lo.FromPtr(p.Description), lo.FromPtr(p.Brand)}
		return lo.SomeBy(fields, func(s string) bool { return strings.Contains(strings.ToLower(s), search) })
	})
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	page := lo.Map(paginate(matches, f.Pagination), func(p domain.Product, _ int) domain.Product { return r.m.withCategory(p) })
	return page, int64(len(matches)), nil
}

// Update stores every field of the product
func (r *Products) Update(ctx context.Context, product *domain.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.products[product.ID]; !ok {
		return notFound("product")
	}
	if err := r.check(product); err != nil {
		return err
	}
	product.UpdatedAt = r.m.now()
	stored := *product
	stored.Category = nil
	r.m.products[product.ID] = stored
	*product = r.m.withCategory(stored)
	return nil
}

// UpdateStock sets the absolute stock quantity
func (r *Products) UpdateStock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok {
		return nil, notFound("product")
	}
	p.StockQuantity = quantity
	p.UpdatedAt = r.m.now()
	r.m.products[id] = p
	p = r.m.withCategory(p)
	return &p, nil
}

// LowStock returns active products at or below threshold, lowest first
func (r *Products) LowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	low := lo.Filter(lo.Values(r.m.products), func(p domain.Product, _ int) bool {
		return p.IsActive && p.StockQuantity <= threshold
	})
	sort.SliceStable(low, func(i, j int) bool { return low[i].StockQuantity < low[j].StockQuantity })
	return lo.Map(low, func(p domain.Product, _ int) domain.Product { return r.m.withCategory(p) }), nil
}

// Delete removes a product no order line references
func (r *Products) Delete(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.products[id]; !ok {
		return notFound("product")
	}
	if lines := lo.CountBy(lo.Values(r.m.items), func(i domain.OrderItem) bool { return i.ProductID == id }); lines > 0 {
		return apperr.Conflict("product is referenced by %d order line(s)", lines)
	}
	delete(r.m.products, id)
	return nil
}

// Orders is the in-memory order repository
type Orders struct{ m *Memory }

// load attaches items, their products and the owner; callers hold the lock
func (m *Memory) load(o domain.Order) domain.Order {
	items := lo.Filter(lo.Values(m.items), func(i domain.OrderItem, _ int) bool { return i.OrderID == o.ID })
	sort.Slice(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].ID < items[j].ID
	})
	for i := range items {
		if p, ok := m.products[items[i].ProductID]; ok {
			items[i].Product = &p
		}
	}
	o.Items = items
	if u, ok := m.users[o.UserID]; ok {
		o.User = &u
	}
	return o
}

// insertItems validates and stores the items of order; callers hold the lock
func (m *Memory) insertItems(order *domain.Order) error {
	for _, item := range order.Items {
		if _, ok := m.products[item.ProductID]; !ok {
			return apperr.Conflict("order item is referenced by other records")
		}
	}
	// one batch insert stamps every row with the same time
	at := m.now()
	for i := range order.Items {
		item := &order.Items[i]
		_ = item.BeforeCreate(nil)
		item.OrderID = order.ID
		item.CreatedAt = at
		stored := *item
		stored.Product = nil
		m.items[item.ID] = stored
	}
	return nil
}

// Create stores the order and its items atomically
func (r *Orders) Create(ctx context.Context, order *domain.Order) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[order.UserID]; !ok {
		return apperr.Conflict("order is referenced by other records")
	}
	if lo.SomeBy(lo.Values(r.m.orders), func(o domain.Order) bool { return o.OrderNumber == order.OrderNumber }) {
		return apperr.Conflict("order already exists")
	}
	if r.m.FailItemWrites {
		r.m.FailItemWrites = false
		return apperr.Internal(ErrInjected) // Rolled back: nothing was stored
	}
	_ = order.BeforeCreate(nil)
	order.CreatedAt = r.m.now()
	order.UpdatedAt = order.CreatedAt
	if err := r.m.insertItems(order); err != nil {
		return err
	}
	stored := *order
	stored.Items, stored.User = nil, nil
	r.m.orders[order.ID] = stored
	return nil
}

// FindByID loads an order with items and owner
func (r *Orders) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orders[id]
	if !ok {
		return nil, notFound("order")
	}
	o = r.m.load(o)
	return &o, nil
}

// List returns a page of orders, newest first; an empty userID lists all
func (r *Orders) List(ctx context.Context, userID string, p dto.Pagination) ([]domain.Order, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	list := lo.Filter(lo.Values(r.m.orders), func(o domain.Order, _ int) bool {
		return userID == "" || o.UserID == userID
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	page := lo.Map(paginate(list, p), func(o domain.Order, _ int) domain.Order { return r.m.load(o) })
	return page, int64(len(list)), nil
}

// ReplaceItems swaps the items and totals of an order atomically
func (r *Orders) ReplaceItems(ctx context.Context, order *domain.Order) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	current, ok := r.m.orders[order.ID]
	if !ok {
		return notFound("order")
	}
	if current.Status.Terminal() {
		return apperr.Conflict("items of a %s order cannot be changed", current.Status)
	}
	if r.m.FailItemWrites {
		r.m.FailItemWrites = false
		return apperr.Internal(ErrInjected) // Rolled back: previous items remain
	}
	previous := lo.PickBy(r.m.items, func(_ string, i domain.OrderItem) bool { return i.OrderID == order.ID })
	for id := range previous {
		delete(r.m.items, id)
	}
	for i := range order.Items {
		order.Items[i].ID = ""
	}
	if err := r.m.insertItems(order); err != nil {
		for id, item := range previous {
			r.m.items[id] = item
		}
		return err
	}
	current.Subtotal = order.Subtotal
	current.TotalAmount = order.TotalAmount
	current.UpdatedAt = r.m.now()
	r.m.orders[order.ID] = current
	return nil
}

// UpdateStatus moves an order from one status to another
func (r *Orders) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orders[id]
	if !ok || o.Status != from {
		return apperr.Conflict("order status changed concurrently, retry")
	}
	o.Status = to
	o.UpdatedAt = r.m.now()
	r.m.orders[id] = o
	return nil
}
