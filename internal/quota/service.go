package quota

import "context"

// Service orchestrates per-user NLU call accounting.
type Service struct {
	store *Store
}

// NewService creates a Service backed by the given Store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Consume deducts one NLU call from the user's monthly allowance.
// If the user row does not exist yet it is initialised and the call is
// immediately consumed. Returns ErrExhausted when the allowance for the
// current month is used up.
func (s *Service) Consume(ctx context.Context, userID string) error {
	err := s.store.Consume(ctx, userID)
	if err != ErrExhausted {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureUser(ctx, userID); initErr != nil {
		return initErr
	}
	return s.store.Consume(ctx, userID)
}
