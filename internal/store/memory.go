package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-invoicer/models"
)

// MemoryStore keeps every collection in process memory behind a single
// RWMutex. It implements all repository interfaces and is used for tests,
// demos and the "memory" storage driver.
type MemoryStore struct {
	mu sync.RWMutex

	users        map[int64]models.User
	usersByEmail map[string]int64
	sessions     map[string]models.Session
	clients      map[int64]models.Client
	products     map[int64]models.Product
	invoices     map[int64]models.Invoice
	auditLogs    []models.AuditLog

	lastUserID     int64
	lastClientID   int64
	lastProductID  int64
	lastInvoiceID  int64
	lastItemID     int64
	lastAuditLogID int64
	lastInvoiceSeq int64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[int64]models.User),
		usersByEmail: make(map[string]int64),
		sessions:     make(map[string]models.Session),
		clients:      make(map[int64]models.Client),
		products:     make(map[int64]models.Product),
		invoices:     make(map[int64]models.Invoice),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	if _, taken := s.usersByEmail[user.Email]; taken {
		return models.User{}, ErrEmailAlreadyExists
	}

	s.lastUserID++
	user.ID = s.lastUserID
	s.users[user.ID] = user
	s.usersByEmail[user.Email] = user.ID

	return user, nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[strings.ToLower(email)]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return s.users[id], nil
}

func (s *MemoryStore) FindUserByID(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) UpdatePassword(_ context.Context, id int64, passwordHash string, updatedAt time.Time) error {
	return s.updateUser(id, func(u *models.User) {
		u.PasswordHash = passwordHash
		u.UpdatedAt = updatedAt
	})
}

func (s *MemoryStore) SetActive(_ context.Context, id int64, active bool, updatedAt time.Time) error {
	return s.updateUser(id, func(u *models.User) {
		u.IsActive = active
		u.UpdatedAt = updatedAt
	})
}

func (s *MemoryStore) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	return s.updateUser(id, func(u *models.User) {
		u.LastLoginAt = &at
	})
}

func (s *MemoryStore) updateUser(id int64, fn func(u *models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	fn(&user)
	s.users[id] = user

	return nil
}

func (s *MemoryStore) CreateSession(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[session.UserID]; !ok {
		return ErrOwnerNotFound
	}
	s.sessions[session.TokenHash] = session

	return nil
}

func (s *MemoryStore) FindSession(_ context.Context, tokenHash string) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[tokenHash]
	if !ok {
		return models.Session{}, ErrNotFound
	}
	return session, nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, tokenHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[tokenHash]; !ok {
		return false, nil
	}
	delete(s.sessions, tokenHash)

	return true, nil
}

func (s *MemoryStore) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for hash, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, hash)
			removed++
		}
	}

	return removed, nil
}

func (s *MemoryStore) CreateClient(_ context.Context, client models.Client) (models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[client.UserID]; !ok {
		return models.Client{}, ErrOwnerNotFound
	}

	s.lastClientID++
	client.ID = s.lastClientID
	s.clients[client.ID] = client

	return client, nil
}

func (s *MemoryStore) GetClient(_ context.Context, id int64) (models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[id]
	if !ok {
		return models.Client{}, ErrNotFound
	}
	return client, nil
}

func (s *MemoryStore) ListClients(_ context.Context, userID int64) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := make([]models.Client, 0)
	for _, client := range s.clients {
		if client.UserID == userID {
			clients = append(clients, client)
		}
	}
	slices.SortFunc(clients, func(a, b models.Client) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})

	return clients, nil
}

func (s *MemoryStore) UpdateClient(_ context.Context, client models.Client) (models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.clients[client.ID]
	if !ok {
		return models.Client{}, ErrNotFound
	}
	client.UserID = stored.UserID
	client.CreatedAt = stored.CreatedAt
	s.clients[client.ID] = client

	return client, nil
}

// DeleteClient removes the client and detaches it from invoices, which keep
// their client snapshot.
func (s *MemoryStore) DeleteClient(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[id]; !ok {
		return ErrNotFound
	}
	delete(s.clients, id)

	for invID, inv := range s.invoices {
		if inv.ClientID == id {
			inv.ClientID = 0
			s.invoices[invID] = inv
		}
	}

	return nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, product models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[product.UserID]; !ok {
		return models.Product{}, ErrOwnerNotFound
	}

	s.lastProductID++
	product.ID = s.lastProductID
	s.products[product.ID] = product

	return product, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id int64) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return product, nil
}

func (s *MemoryStore) ListProducts(_ context.Context, userID int64) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0)
	for _, product := range s.products {
		if product.UserID == userID {
			products = append(products, product)
		}
	}
	slices.SortFunc(products, func(a, b models.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})

	return products, nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, product models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.products[product.ID]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	product.UserID = stored.UserID
	product.CreatedAt = stored.CreatedAt
	s.products[product.ID] = product

	return product, nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)

	return nil
}

func (s *MemoryStore) CreateInvoice(_ context.Context, invoice models.Invoice) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertInvoice(invoice)
}

// SpawnInvoice stores child and moves the parent's next recurring date from
// from to next under one lock.
func (s *MemoryStore) SpawnInvoice(_ context.Context, child models.Invoice, parentID int64, from *models.Date, next models.Date) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.invoices[parentID]
	if !ok {
		return models.Invoice{}, ErrNotFound
	}
	if !sameDate(parent.NextRecurringDate, from) {
		return models.Invoice{}, ErrConflict
	}

	spawned, err := s.insertInvoice(child)
	if err != nil {
		return models.Invoice{}, err
	}

	parent.NextRecurringDate = &next
	parent.UpdatedAt = child.UpdatedAt
	s.invoices[parentID] = parent

	return spawned, nil
}

// insertInvoice must be called with s.mu held for writing.
func (s *MemoryStore) insertInvoice(invoice models.Invoice) (models.Invoice, error) {
	if _, ok := s.users[invoice.UserID]; !ok {
		return models.Invoice{}, ErrOwnerNotFound
	}
	if invoice.ClientID != 0 {
		if _, ok := s.clients[invoice.ClientID]; !ok {
			return models.Invoice{}, ErrReferenceNotFound
		}
	}

	s.lastInvoiceSeq++
	s.lastInvoiceID++
	invoice.ID = s.lastInvoiceID
	invoice.InvoiceNumber = models.FormatInvoiceNumber(s.lastInvoiceSeq)
	invoice.Items = s.assignItemIDs(invoice.Items)

	s.invoices[invoice.ID] = invoice

	return cloneInvoice(invoice), nil
}

func sameDate(a, b *models.Date) bool {
	aSet := a != nil && !a.IsZero()
	bSet := b != nil && !b.IsZero()
	if aSet != bSet {
		return false
	}
	return !aSet || a.Equal(b.Time)
}

func (s *MemoryStore) GetInvoice(_ context.Context, id int64) (models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	invoice, ok := s.invoices[id]
	if !ok {
		return models.Invoice{}, ErrNotFound
	}
	return cloneInvoice(invoice), nil
}

func (s *MemoryStore) ListInvoices(_ context.Context, userID int64) ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	invoices := make([]models.Invoice, 0)
	for _, invoice := range s.invoices {
		if invoice.UserID == userID {
			invoices = append(invoices, cloneInvoice(invoice))
		}
	}
	slices.SortFunc(invoices, func(a, b models.Invoice) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})

	return invoices, nil
}

func (s *MemoryStore) UpdateInvoice(_ context.Context, invoice models.Invoice) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.invoices[invoice.ID]
	if !ok {
		return models.Invoice{}, ErrNotFound
	}
	if invoice.ClientID != 0 {
		if _, ok := s.clients[invoice.ClientID]; !ok {
			return models.Invoice{}, ErrReferenceNotFound
		}
	}

	invoice.UserID = stored.UserID
	invoice.InvoiceNumber = stored.InvoiceNumber
	invoice.CreatedAt = stored.CreatedAt
	invoice.Items = s.assignItemIDs(invoice.Items)
	s.invoices[invoice.ID] = invoice

	return cloneInvoice(invoice), nil
}

func (s *MemoryStore) DeleteInvoice(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoices[id]; !ok {
		return ErrNotFound
	}
	delete(s.invoices, id)

	return nil
}

func (s *MemoryStore) CreateAuditLog(_ context.Context, entry models.AuditLog) (models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAuditLogID++
	entry.ID = s.lastAuditLogID
	s.auditLogs = append(s.auditLogs, entry)

	return entry, nil
}

func (s *MemoryStore) ListAuditLogs(_ context.Context, userID int64, limit int) ([]models.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.AuditLog, 0)
	for i := len(s.auditLogs) - 1; i >= 0; i-- {
		if limit > 0 && len(entries) == limit {
			break
		}
		if s.auditLogs[i].UserID == userID {
			entries = append(entries, s.auditLogs[i])
		}
	}

	return entries, nil
}

// assignItemIDs copies items and gives every item a fresh id. Must be called
// with the write lock held.
func (s *MemoryStore) assignItemIDs(items []models.InvoiceItem) []models.InvoiceItem {
	out := make([]models.InvoiceItem, len(items))
	for i, item := range items {
		s.lastItemID++
		item.ID = s.lastItemID
		out[i] = item
	}
	return out
}

// cloneInvoice detaches the returned invoice from the stored one so callers
// cannot mutate shared state through slices or pointers.
func cloneInvoice(inv models.Invoice) models.Invoice {
	inv.Items = append(make([]models.InvoiceItem, 0, len(inv.Items)), inv.Items...)
	inv.NextRecurringDate = clonePtr(inv.NextRecurringDate)
	inv.ParentInvoiceID = clonePtr(inv.ParentInvoiceID)
	inv.SentAt = clonePtr(inv.SentAt)
	inv.PaidAt = clonePtr(inv.PaidAt)
	inv.CancelledAt = clonePtr(inv.CancelledAt)
	return inv
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
