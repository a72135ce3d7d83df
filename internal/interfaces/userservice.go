package interfaces

import (
	"context"

	"github.com/ddxlab/ddxbrain/internal/models"
)

type UserService interface {
	RegisterUser(ctx context.Context, username, password string) (string, error)
	AuthenticateUser(ctx context.Context, username, password string) (bool, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}
