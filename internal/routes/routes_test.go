package routes

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ddxlab/ddxbrain/internal/auth"
	"github.com/ddxlab/ddxbrain/internal/interfaces/mocks"
	"github.com/ddxlab/ddxbrain/internal/models"
	"github.com/ddxlab/ddxbrain/internal/models/dto"
	"github.com/ddxlab/ddxbrain/internal/userservice"
	"github.com/ddxlab/ddxbrain/pkg/metrics"
	"github.com/ddxlab/ddxbrain/pkg/zerolog"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	// Generate a new ECDSA private key
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		panic("failed to generate ECDSA key: " + err.Error())
	}

	// Marshal the private key to DER format
	der, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		panic("failed to marshal ECDSA key: " + err.Error())
	}

	// Create the PEM block
	block := &pem.Block{
		Type:  "EC PRIVATE KEY",
		Bytes: der,
	}

	// Write the PEM file
	pemPath := "validKey.pem"
	f, err := os.Create(pemPath)
	if err != nil {
		panic("failed to create PEM file: " + err.Error())
	}
	if err := pem.Encode(f, block); err != nil {
		f.Close()
		_ = os.Remove(pemPath)
		panic("failed to encode PEM: " + err.Error())
	}
	f.Close()

	// Run the tests
	code := m.Run()

	// Clean up the PEM file after tests
	_ = os.Remove(pemPath)

	os.Exit(code)
}

func newTestRoute(t *testing.T, userRepo *mocks.MockUserRepository,
	cardRepo *mocks.MockCardRepository) *Route {
	t.Helper()

	logger := zerolog.NewZerologLogger("routes-test")

	var userService *userservice.UserService
	if userRepo != nil {
		userService = userservice.NewUserService(userRepo, logger)
	}

	privateKey, err := auth.LoadECDSAPrivateKey("validKey.pem")
	if err != nil {
		t.Fatalf("Failed to load private key: %v", err)
	}

	return NewRoute(metrics.NewMetrics("routes-test"), userService, cardRepo,
		privateKey, structValidator.New())
}

// HashString creates a bcrypt hash of the input string
func HashString(input string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(input), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash string: %w", err)
	}
	return string(hashedBytes), nil
}

func TestRoute_Greeting(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		wantStatusCode int
		wantMessage    string
	}{
		{
			name:           "Greeting returns hello world",
			method:         http.MethodGet,
			wantStatusCode: http.StatusOK,
			wantMessage:    MsgGreeting,
		},
		{
			name:           "Invalid method",
			method:         http.MethodPost,
			wantStatusCode: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/", nil)
		rr := httptest.NewRecorder()

		r := newTestRoute(t, nil, nil)
		r.Greeting(rr, req)

		if rr.Code != tt.wantStatusCode {
			t.Errorf("%s: got status %d, want %d", tt.name, rr.Code, tt.wantStatusCode)
		}

		if tt.wantMessage != "" {
			response := &dto.GreetingResponseDTO{}
			if err := json.NewDecoder(rr.Body).Decode(response); err != nil {
				t.Fatalf("%s: failed to decode response: %v", tt.name, err)
			}
			if response.Message != tt.wantMessage {
				t.Errorf("%s: got message %q, want %q", tt.name, response.Message, tt.wantMessage)
			}
		}
	}
}

func TestRoute_GetUser(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		userID         string
		repoUser       *models.User
		repoErr        error
		wantStatusCode int
	}{
		{
			name:           "Existing user",
			method:         http.MethodGet,
			userID:         "42",
			repoUser:       &models.User{ID: "42", Username: "testuser"},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "Unknown user",
			method:         http.MethodGet,
			userID:         "missing",
			repoUser:       nil,
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "Empty user id",
			method:         http.MethodGet,
			userID:         "",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "User id too long",
			method:         http.MethodGet,
			userID:         string(bytes.Repeat([]byte("a"), MaxUserIDLength+1)),
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "Repository error",
			method:         http.MethodGet,
			userID:         "42",
			repoErr:        errors.New("connection lost"),
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:           "Invalid method",
			method:         http.MethodPost,
			userID:         "42",
			wantStatusCode: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/api/users/"+tt.userID, nil)
		req.SetPathValue("user_id", tt.userID)
		rr := httptest.NewRecorder()

		userRepo := mocks.NewMockUserRepository(t)
		userRepo.On("GetUserByID", mock.Anything, tt.userID).
			Return(tt.repoUser, tt.repoErr).Maybe()

		r := newTestRoute(t, userRepo, nil)
		r.GetUser(rr, req)

		if rr.Code != tt.wantStatusCode {
			t.Errorf("%s: got status %d, want %d", tt.name, rr.Code, tt.wantStatusCode)
		}

		if tt.wantStatusCode == http.StatusOK {
			response := &dto.UserResponseDTO{}
			if err := json.NewDecoder(rr.Body).Decode(response); err != nil {
				t.Fatalf("%s: failed to decode response: %v", tt.name, err)
			}
			if response.UserID != tt.repoUser.ID || response.Username != tt.repoUser.Username {
				t.Errorf("%s: got %+v, want id %q username %q",
					tt.name, response, tt.repoUser.ID, tt.repoUser.Username)
			}
		}
	}
}

func TestRoute_SearchCards(t *testing.T) {
	storedCards := []models.Card{
		{ID: "1", Content: "Chest pain with radiation to the left arm", Kind: models.CardKindText, Source: "Oxford Handbook", Page: 3, ChunkID: 0},
		{ID: "2", Content: "ECG showing ST elevation", Kind: models.CardKindImage, Source: "Oxford Handbook", Page: 4, ImagePath: "page_4_img_1.png"},
	}

	tests := []struct {
		name           string
		method         string
		target         string
		repoCards      []models.Card
		repoErr        error
		wantStatusCode int
		wantCount      int
	}{
		{
			name:           "Matching cards",
			method:         http.MethodGet,
			target:         "/api/cards/search?q=chest+pain",
			repoCards:      storedCards,
			wantStatusCode: http.StatusOK,
			wantCount:      2,
		},
		{
			name:           "No matches",
			method:         http.MethodGet,
			target:         "/api/cards/search?q=zebra",
			repoCards:      []models.Card{},
			wantStatusCode: http.StatusOK,
			wantCount:      0,
		},
		{
			name:           "Source filter and limit",
			method:         http.MethodGet,
			target:         "/api/cards/search?q=ecg&source=Oxford+Handbook&limit=1",
			repoCards:      storedCards[1:],
			wantStatusCode: http.StatusOK,
			wantCount:      1,
		},
		{
			name:           "Missing query",
			method:         http.MethodGet,
			target:         "/api/cards/search",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "Limit not a number",
			method:         http.MethodGet,
			target:         "/api/cards/search?q=ecg&limit=abc",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "Limit too large",
			method:         http.MethodGet,
			target:         fmt.Sprintf("/api/cards/search?q=ecg&limit=%d", MaxCardSearchResults+1),
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "Repository error",
			method:         http.MethodGet,
			target:         "/api/cards/search?q=ecg",
			repoErr:        errors.New("connection lost"),
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:           "Invalid method",
			method:         http.MethodPost,
			target:         "/api/cards/search?q=ecg",
			wantStatusCode: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.target, nil)
		rr := httptest.NewRecorder()

		cardRepo := mocks.NewMockCardRepository(t)
		cardRepo.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(tt.repoCards, tt.repoErr).Maybe()

		r := newTestRoute(t, nil, cardRepo)
		r.SearchCards(rr, req)

		if rr.Code != tt.wantStatusCode {
			t.Errorf("%s: got status %d, want %d", tt.name, rr.Code, tt.wantStatusCode)
		}

		if tt.wantStatusCode == http.StatusOK {
			response := &dto.CardSearchResponseDTO{}
			if err := json.NewDecoder(rr.Body).Decode(response); err != nil {
				t.Fatalf("%s: failed to decode response: %v", tt.name, err)
			}
			if response.Count != tt.wantCount {
				t.Errorf("%s: got count %d, want %d", tt.name, response.Count, tt.wantCount)
			}
			if len(response.Cards) != tt.wantCount {
				t.Errorf("%s: got %d cards, want %d", tt.name, len(response.Cards), tt.wantCount)
			}
		}
	}
}

func TestRoute_Signup(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		contentType    string
		body           string
		repoErr        error
		wantStatusCode int
	}{
		{
			name:           "Valid signup request",
			method:         http.MethodPost,
			contentType:    "application/json",
			body:           fmt.Sprintf(`{"username":"%s","password":"%s"}`, "testuser", "testpass"),
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "Invalid method",
			method:         http.MethodGet,
			contentType:    "application/json",
			body:           "",
			wantStatusCode: http.StatusMethodNotAllowed,
		},
		{
			name:           "Missing Content-Type",
			method:         http.MethodPost,
			contentType:    "",
			body:           fmt.Sprintf(`{"username":"%s","password":"%s"}`, "testuser", "testpass"),
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "Invalid JSON body",
			method:         http.MethodPost,
			contentType:    "application/json",
			body:           fmt.Sprintf(`{"username":"%s""password":"%s"}`, "testuser", "testpass"),
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "Password too short",
			method:         http.MethodPost,
			contentType:    "application/json",
			body:           fmt.Sprintf(`{"username":"%s","password":"%s"}`, "testuser", "short"),
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "Username already taken",
			method:         http.MethodPost,
			contentType:    "application/json",
			body:           fmt.Sprintf(`{"username":"%s","password":"%s"}`, "testuser", "testpass"),
			repoErr:        errors.New("username already exists"),
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/signup", nil)
		if tt.body != "" {
			req = httptest.NewRequest(tt.method, "/signup",
				bytes.NewBufferString(tt.body))
		}
		if tt.contentType != "" {
			req.Header.Set("Content-Type", tt.contentType)
		}
		rr := httptest.NewRecorder()

		userRepo := mocks.NewMockUserRepository(t)
		userRepo.On("AddUser", mock.Anything, mock.Anything).
			Return("generated-id", tt.repoErr).Maybe()

		r := newTestRoute(t, userRepo, nil)
		r.Signup(rr, req)

		if rr.Code != tt.wantStatusCode {
			t.Errorf("%s: got status %d, want %d", tt.name, rr.Code, tt.wantStatusCode)
		}
	}
}

func TestRoute_Login(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		contentType    string
		body           string
		wantStatusCode int
	}{
		{
			name:           "Valid login request",
			method:         http.MethodPost,
			contentType:    "application/json",
			body:           fmt.Sprintf(`{"username":"%s","password":"%s"}`, "testuser", "testpass"),
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "Wrong password",
			method:         http.MethodPost,
			contentType:    "application/json",
			body:           fmt.Sprintf(`{"username":"%s","password":"%s"}`, "testuser", "wrongpass"),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "Invalid method",
			method:         http.MethodGet,
			contentType:    "application/json",
			body:           "",
			wantStatusCode: http.StatusMethodNotAllowed,
		},
		{
			name:           "Missing Content-Type",
			method:         http.MethodPost,
			contentType:    "",
			body:           fmt.Sprintf(`{"username":"%s","password":"%s"}`, "testuser", "testpass"),
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "Invalid JSON body",
			method:         http.MethodPost,
			contentType:    "application/json",
			body:           fmt.Sprintf(`{"username":"%s""password":"%s"}`, "testuser", "testpass"),
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/login", nil)
		if tt.body != "" {
			req = httptest.NewRequest(tt.method, "/login",
				bytes.NewBufferString(tt.body))
		}
		if tt.contentType != "" {
			req.Header.Set("Content-Type", tt.contentType)
		}
		rr := httptest.NewRecorder()

		userRepo := mocks.NewMockUserRepository(t)

		// The user service compares against a stored bcrypt hash.
		hashedPassword, err := HashString("testpass")
		if err != nil {
			t.Fatalf("Failed to hash password: %v", err)
		}

		userRepo.On("GetUserByUsername", mock.Anything, "testuser").Return(&models.User{
			Username: "testuser",
			Password: hashedPassword,
		}, nil).Maybe()

		r := newTestRoute(t, userRepo, nil)
		r.Login(rr, req)

		if rr.Code != tt.wantStatusCode {
			t.Errorf("%s: got status %d, want %d", tt.name, rr.Code, tt.wantStatusCode)
		}

		if tt.wantStatusCode == http.StatusOK {
			cookies := rr.Result().Cookies()
			found := false
			for _, c := range cookies {
				if c.Name == "session_token" && c.Value != "" {
					found = true
				}
			}
			if !found {
				t.Errorf("%s: expected a session_token cookie", tt.name)
			}
		}
	}
}
