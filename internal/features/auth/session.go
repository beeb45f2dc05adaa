package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-chms/internal/common/models"
	"go-chms/internal/storage"
)

var (
	ErrNoSession      = errors.New("auth: no session")
	ErrCorruptSession = errors.New("auth: corrupt session")
)

type Session struct {
	Token string
	User  *models.User
}

// SessionStore persists the session record under the authToken and userData keys.
type SessionStore struct {
	store storage.Store
}

func NewSessionStore(store storage.Store) *SessionStore {
	return &SessionStore{store: store}
}

func (s *SessionStore) Save(ctx context.Context, token string, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyUserData, raw); err != nil {
		return err
	}
	return s.store.Set(ctx, storage.KeyAuthToken, []byte(token))
}

// Load returns ErrNoSession unless both entries exist, and ErrCorruptSession
// when the stored user does not decode.
func (s *SessionStore) Load(ctx context.Context) (*Session, error) {
	token, err := s.store.Get(ctx, storage.KeyAuthToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	if len(token) == 0 {
		return nil, ErrNoSession
	}

	raw, err := s.store.Get(ctx, storage.KeyUserData)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var user *models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: empty user record", ErrCorruptSession)
	}

	return &Session{Token: string(token), User: user}, nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, storage.KeyAuthToken, storage.KeyUserData)
}
