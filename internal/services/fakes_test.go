package services_test

import (
	"sync"
	"time"

	"melodia/internal/models"
	"melodia/internal/repositories"

	"github.com/google/uuid"
)

// In-memory collaborators shared by the service tests in this package.

type fakeCustomerRepo struct {
	mu   sync.Mutex
	byID map[string]models.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{byID: make(map[string]models.Customer)}
}

func (r *fakeCustomerRepo) Create(customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	customer.CreatedAt = time.Now()
	r.byID[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(id string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrCustomerNotFound
	}
	return &customer, nil
}

func (r *fakeCustomerRepo) GetByEmail(email string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, customer := range r.byID {
		if customer.Email == email {
			c := customer
			return &c, nil
		}
	}
	return nil, repositories.ErrCustomerNotFound
}

func (r *fakeCustomerRepo) Update(customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[customer.ID]; !ok {
		return repositories.ErrCustomerNotFound
	}
	r.byID[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) DeleteUnverifiedBefore(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	for id, customer := range r.byID {
		if !customer.Verified && customer.CreatedAt.Before(cutoff) {
			delete(r.byID, id)
			purged++
		}
	}
	return purged, nil
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []models.ActivityLog
}

func (r *fakeActivityRepo) Create(entry *models.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeActivityRepo) ListRecent(limit int) ([]models.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ActivityLog, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *recordingMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type stubCaptcha struct {
	err error
}

func (s *stubCaptcha) Verify(token, remoteIP string) error {
	return s.err
}

type publishedEvent struct {
	Type          string
	OrderID       string
	UserID        string
	TransactionID string
	Total         float64
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishOrderCreated(orderID, userID string, total float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: "order.created", OrderID: orderID, UserID: userID, Total: total})
	return nil
}

func (p *recordingPublisher) PublishOrderPaid(orderID, transactionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: "order.paid", OrderID: orderID, TransactionID: transactionID})
	return nil
}

func (p *recordingPublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, ev := range p.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string]models.Cart // keyed by customer id
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]models.Cart)}
}

func copyCart(cart models.Cart) *models.Cart {
	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)
	cart.Items = items
	return &cart
}

func (r *fakeCartRepo) GetByCustomer(customerID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[customerID]
	if !ok {
		return nil, repositories.ErrCartNotFound
	}
	return copyCart(cart), nil
}

func (r *fakeCartRepo) Create(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	for i := range cart.Items {
		cart.Items[i].CartID = cart.ID
	}
	r.carts[cart.CustomerID] = *copyCart(*cart)
	return nil
}

func (r *fakeCartRepo) AddItem(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for customerID, cart := range r.carts {
		if cart.ID == item.CartID {
			cart.Items = append(cart.Items, *item)
			r.carts[customerID] = cart
			return nil
		}
	}
	return repositories.ErrCartNotFound
}

func (r *fakeCartRepo) UpdateItemQuantity(cartID, itemID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for customerID, cart := range r.carts {
		if cart.ID != cartID {
			continue
		}
		for i := range cart.Items {
			if cart.Items[i].ItemID == itemID {
				cart.Items[i].Quantity = quantity
				r.carts[customerID] = cart
				return nil
			}
		}
		return repositories.ErrCartItemNotFound
	}
	return repositories.ErrCartNotFound
}

func (r *fakeCartRepo) RemoveItem(cartID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for customerID, cart := range r.carts {
		if cart.ID != cartID {
			continue
		}
		kept := cart.Items[:0:0]
		for _, line := range cart.Items {
			if line.ItemID != itemID {
				kept = append(kept, line)
			}
		}
		cart.Items = kept
		r.carts[customerID] = cart
		return nil
	}
	return repositories.ErrCartNotFound
}

func (r *fakeCartRepo) DeleteByCustomer(customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[customerID]; !ok {
		return repositories.ErrCartNotFound
	}
	delete(r.carts, customerID)
	return nil
}
