package repository

import (
	"context"
	"database/sql"

	"github.com/suar-net/relay/internal/model"
)

type IUserRepository interface {
	Create(ctx context.Context, user *model.User) (int, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type IRelayRepository interface {
	Create(ctx context.Context, record *model.RelayRecord) error
	GetByUserID(ctx context.Context, userID int) ([]*model.RelayRecord, error)
}

type IRepository interface {
	User() IUserRepository
	Relay() IRelayRepository
}

type Repository struct {
	user  IUserRepository
	relay IRelayRepository
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		user:  NewUserRepository(db),
		relay: NewRelayRepository(db),
	}
}

func (r *Repository) User() IUserRepository {
	return r.user
}

func (r *Repository) Relay() IRelayRepository {
	return r.relay
}
