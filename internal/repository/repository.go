package repository

// Repository provides the in-memory ledger stores.
// It does no locking of its own: the service serializes every call.
type Repository struct {
	Users      *UserStore
	Cards      *CardStore
	Operations *OperationLog
}

// NewRepository initializes empty stores
func NewRepository() *Repository {
	return &Repository{
		Users:      NewUserStore(),
		Cards:      NewCardStore(),
		Operations: NewOperationLog(),
	}
}
