// Package store holds all shopper state in memory: customizer
// sessions, carts, checkout data and the mock order history. Nothing
// survives a restart; the storefront is a single-session experience.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"arteideas-backend/internal/customizer"
	"arteideas-backend/internal/models"
)

var ErrNotFound = errors.New("not found")

type Options struct {
	// Customizer sessions idle longer than this are purged. Zero
	// disables purging.
	SessionTTL time.Duration
}

type shopper struct {
	cart         []models.CartItem
	checkout     *models.CheckoutData
	orders       []models.Order
	lastActivity time.Time
}

type Store struct {
	mu         sync.Mutex
	shoppers   map[uuid.UUID]*shopper
	sessions   map[uuid.UUID]*customizer.Session
	sessionTTL time.Duration
}

func New(opts Options) *Store {
	return &Store{
		shoppers:   make(map[uuid.UUID]*shopper),
		sessions:   make(map[uuid.UUID]*customizer.Session),
		sessionTTL: opts.SessionTTL,
	}
}

func (s *Store) getOrCreateLocked(userID uuid.UUID) *shopper {
	sh, ok := s.shoppers[userID]
	if !ok {
		sh = &shopper{}
		s.shoppers[userID] = sh
	}
	sh.lastActivity = time.Now()
	return sh
}

// --- customizer sessions ---

func (s *Store) PutSession(sess *customizer.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *Store) GetSession(sessionID, userID uuid.UUID) (*customizer.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.UserID != userID {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return sess, nil
}

func (s *Store) DeleteSession(sessionID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.UserID != userID {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	delete(s.sessions, sessionID)
	return nil
}

// PurgeIdleSessions drops customizer sessions that have been idle
// longer than the configured TTL and reports how many were removed.
func (s *Store) PurgeIdleSessions() int {
	if s.sessionTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.sessionTTL)
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastActivity().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// --- cart ---

func (s *Store) AddCartItem(userID uuid.UUID, item models.CartItem) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.getOrCreateLocked(userID)
	sh.cart = append(sh.cart, item)
	return cloneItems(sh.cart)
}

func (s *Store) ListCartItems(userID uuid.UUID) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.getOrCreateLocked(userID).cart)
}

// UpdateCartItemQuantity applies a quantity delta; quantity never
// drops below 1.
func (s *Store) UpdateCartItemQuantity(userID, itemID uuid.UUID, delta int) (models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.getOrCreateLocked(userID)
	for i := range sh.cart {
		if sh.cart[i].ID == itemID {
			qty := sh.cart[i].Quantity + delta
			if qty < 1 {
				qty = 1
			}
			sh.cart[i].Quantity = qty
			return sh.cart[i], nil
		}
	}
	return models.CartItem{}, fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
}

func (s *Store) RemoveCartItem(userID, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.getOrCreateLocked(userID)
	for i := range sh.cart {
		if sh.cart[i].ID == itemID {
			sh.cart = append(sh.cart[:i], sh.cart[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
}

func (s *Store) ClearCart(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.getOrCreateLocked(userID)
	sh.cart = nil
}

// --- checkout ---

func (s *Store) SetCheckout(userID uuid.UUID, data models.CheckoutData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.getOrCreateLocked(userID)
	sh.checkout = &data
}

func (s *Store) Checkout(userID uuid.UUID) (models.CheckoutData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.getOrCreateLocked(userID)
	if sh.checkout == nil {
		return models.CheckoutData{}, false
	}
	return *sh.checkout, true
}

func (s *Store) ClearCheckout(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.getOrCreateLocked(userID)
	sh.checkout = nil
}

// --- orders ---

// CreateOrder prepends the order so listings come back newest first.
func (s *Store) CreateOrder(userID uuid.UUID, order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.getOrCreateLocked(userID)
	sh.orders = append([]models.Order{order}, sh.orders...)
}

func (s *Store) ListOrders(userID uuid.UUID) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.getOrCreateLocked(userID)
	out := make([]models.Order, len(sh.orders))
	copy(out, sh.orders)
	return out
}

func (s *Store) GetOrder(userID uuid.UUID, orderID string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.getOrCreateLocked(userID)
	for _, o := range sh.orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return models.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
}

func cloneItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}
