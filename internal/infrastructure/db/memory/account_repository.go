// Package memory holds an in-process credential store for development and
// tests. Data is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saam/backend/internal/core/domain"
)

// AccountRepository keeps accounts in maps guarded by a single mutex, which
// makes the email uniqueness check and the insert atomic.
type AccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Account
	byEmail map[string]string
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[string]*domain.Account),
		byEmail: make(map[string]string),
	}
}

func (r *AccountRepository) Save(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := *account
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	if ownerID, taken := r.byEmail[doc.Email]; taken && ownerID != doc.ID {
		return nil, domain.Errorf(domain.ErrAccountAlreadyExists, "email %s is already registered", doc.Email)
	}
	if prev, ok := r.byID[doc.ID]; ok && prev.Email != doc.Email {
		delete(r.byEmail, prev.Email)
	}

	r.byID[doc.ID] = &doc
	r.byEmail[doc.Email] = doc.ID

	out := doc
	return &out, nil
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	out := *r.byID[id]
	return &out, nil
}

func (r *AccountRepository) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.Username == username {
			out := *a
			return &out, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// Len returns the number of stored accounts.
func (r *AccountRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
