package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ddxlab/ddxbrain/internal/interfaces"
	"github.com/ddxlab/ddxbrain/internal/models"
	"github.com/ddxlab/ddxbrain/internal/userrepo/constants"
	pgClient "github.com/ddxlab/ddxbrain/pkg/databases/postgres"
)

// usersTableDDL creates the users table and unique username index on first use.
const usersTableDDL = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
)`

// PostgresUserRepository implements UserRepository for PostgreSQL databases.
type PostgresUserRepository struct {
	dbClient interfaces.DBClient
}

// NewPostgresUserRepository creates a new PostgreSQL repository instance.
func NewPostgresUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if _, ok := dbClient.(*pgClient.PostgresDatabaseClient); !ok {
		return nil, fmt.Errorf("dbClient must be a PostgreSQL client")
	}
	return &PostgresUserRepository{dbClient: dbClient}, nil
}

// AddUser saves a new user to PostgreSQL via DBClient.
func (r *PostgresUserRepository) AddUser(ctx context.Context, user models.User) (string, error) {
	// Convert models.User struct to map[string]interface{} for the generic client
	doc := map[string]interface{}{
		"username": user.Username,
		"password": user.Password,
	}
	// The client's InsertOne will generate the ID if not present

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		// 23505 is unique_violation
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return "", fmt.Errorf("username '%s' already exists", user.Username)
		}
		return "", fmt.Errorf("failed to add user to PostgreSQL: %w", err)
	}
	strID, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
	}
	return strID, nil
}

// GetUserByUsername retrieves a user from PostgreSQL via DBClient.
// A nil user with nil error means not found.
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, map[string]interface{}{"username": username})
}

// GetUserByID retrieves a user by its UUID.
// A malformed id is treated as not found, since no stored user can ever match it.
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.findOne(ctx, map[string]interface{}{"id": id})
}

func (r *PostgresUserRepository) findOne(ctx context.Context, filter map[string]interface{}) (*models.User, error) {
	var user models.User
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from PostgreSQL: %w", err)
	}
	if user.ID == "" { // If ID is empty after FindOne, it means no user was found.
		return nil, nil
	}
	return &user, nil
}

// EnsureIndices creates the users table and unique username index.
func (r *PostgresUserRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, usersTableDDL)
}

// Close closes the PostgreSQL database connection.
func (r *PostgresUserRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}
