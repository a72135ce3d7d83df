package userservice

import (
	"context"
	"errors"
	"testing"

	"github.com/ddxlab/ddxbrain/internal/interfaces/mocks"
	"github.com/ddxlab/ddxbrain/internal/models"
	"github.com/ddxlab/ddxbrain/pkg/zerolog"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*UserService, *mocks.MockUserRepository) {
	t.Helper()
	userRepo := mocks.NewMockUserRepository(t)
	return NewUserService(userRepo, zerolog.NewZerologLogger("userservice-test")), userRepo
}

func TestUserService_RegisterUser(t *testing.T) {
	service, userRepo := newTestService(t)

	var added models.User
	userRepo.On("AddUser", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			added = args.Get(1).(models.User)
		}).
		Return("generated-id", nil)

	userID, err := service.RegisterUser(context.Background(), "testuser", "testpass")
	if err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}
	if userID != "generated-id" {
		t.Errorf("got user id %q, want %q", userID, "generated-id")
	}

	// The repository must never see the plaintext password.
	if added.Password == "testpass" {
		t.Error("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(added.Password), []byte("testpass")); err != nil {
		t.Errorf("stored password is not a valid bcrypt hash of the input: %v", err)
	}
}

func TestUserService_RegisterUser_RepoError(t *testing.T) {
	service, userRepo := newTestService(t)

	userRepo.On("AddUser", mock.Anything, mock.Anything).
		Return("", errors.New("username already exists"))

	if _, err := service.RegisterUser(context.Background(), "testuser", "testpass"); err == nil {
		t.Fatal("expected an error when the repository rejects the user")
	}
}

func TestUserService_AuthenticateUser(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("testpass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	tests := []struct {
		name     string
		password string
		repoUser *models.User
		repoErr  error
		want     bool
		wantErr  bool
	}{
		{
			name:     "Correct password",
			password: "testpass",
			repoUser: &models.User{Username: "testuser", Password: string(hashed)},
			want:     true,
		},
		{
			name:     "Wrong password",
			password: "wrongpass",
			repoUser: &models.User{Username: "testuser", Password: string(hashed)},
			want:     false,
			wantErr:  true,
		},
		{
			name:     "Unknown user",
			password: "testpass",
			repoUser: nil,
			want:     false,
			wantErr:  true,
		},
		{
			name:     "Repository error",
			password: "testpass",
			repoErr:  errors.New("connection lost"),
			want:     false,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, userRepo := newTestService(t)
			userRepo.On("GetUserByUsername", mock.Anything, "testuser").
				Return(tt.repoUser, tt.repoErr)

			got, err := service.AuthenticateUser(context.Background(), "testuser", tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("AuthenticateUser() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("AuthenticateUser() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserService_GetUser(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		repoUser    *models.User
		repoErr     error
		wantErr     bool
		wantMissing bool
	}{
		{
			name:     "Existing user",
			id:       "42",
			repoUser: &models.User{ID: "42", Username: "testuser"},
		},
		{
			name:        "Unknown user",
			id:          "missing",
			repoUser:    nil,
			wantErr:     true,
			wantMissing: true,
		},
		{
			name:    "Repository error",
			id:      "42",
			repoErr: errors.New("connection lost"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, userRepo := newTestService(t)
			userRepo.On("GetUserByID", mock.Anything, tt.id).
				Return(tt.repoUser, tt.repoErr)

			got, err := service.GetUser(context.Background(), tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetUser() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantMissing && !errors.Is(err, ErrNotFound) {
				t.Errorf("GetUser() error = %v, want ErrNotFound", err)
			}
			if !tt.wantErr && (got == nil || got.ID != tt.repoUser.ID) {
				t.Errorf("GetUser() = %+v, want %+v", got, tt.repoUser)
			}
		})
	}
}
