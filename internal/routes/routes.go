package routes

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ddxlab/ddxbrain/internal/auth"
	"github.com/ddxlab/ddxbrain/internal/interfaces"
	"github.com/ddxlab/ddxbrain/internal/models/dto"
	"github.com/ddxlab/ddxbrain/internal/userservice"

	structValidator "github.com/go-playground/validator/v10"
)

type Route struct {
	Metrics     interfaces.Metrics
	UserService *userservice.UserService
	CardRepo    interfaces.CardRepository
	PrivateKey  *ecdsa.PrivateKey
	validator   *structValidator.Validate
}

// NewRoute creates a new Route instance.
func NewRoute(metrics interfaces.Metrics, userService *userservice.UserService,
	cardRepo interfaces.CardRepository, privateKey *ecdsa.PrivateKey,
	validator *structValidator.Validate,
) *Route {

	return &Route{
		Metrics:     metrics,
		UserService: userService,
		CardRepo:    cardRepo,
		PrivateKey:  privateKey,
		validator:   validator,
	}
}

// Greeting handles the root route.
func (r *Route) Greeting(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), "Method not allowed")
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(GreetingRequestsTotal)
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)

	response := &dto.GreetingResponseDTO{Message: MsgGreeting}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.errorResponse(w, err, "Failed to encode response")
	}
}

// GetUser handles user lookup by id.
func (r *Route) GetUser(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), "Method not allowed")
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(UserLookupRequestsTotal)
	}

	userID := req.PathValue("user_id")
	if userID == "" || len(userID) > MaxUserIDLength {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf("invalid user id: %q", userID), "User id must be between 1 and 64 characters")
		if r.Metrics != nil {
			r.Metrics.IncCounter(UserLookupErrorsTotal)
		}
		return
	}

	var startTime time.Time
	if r.Metrics != nil {
		startTime = time.Now()
	}

	user, err := r.UserService.GetUser(req.Context(), userID)
	if r.Metrics != nil {
		duration := time.Since(startTime).Seconds()
		r.Metrics.ObserveHistogram(UserLookupDurationSeconds, duration)
	}
	if err != nil {
		if errors.Is(err, userservice.ErrNotFound) {
			w.Header().Set(ContentType, ContentTypeJson)
			w.WriteHeader(http.StatusNotFound)
			r.errorResponse(w, err, fmt.Sprintf("No user with id %s", userID))
			if r.Metrics != nil {
				r.Metrics.IncCounter(UserLookupNotFoundTotal)
			}
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		r.errorResponse(w, err, "Failed to look up user")
		if r.Metrics != nil {
			r.Metrics.IncCounter(UserLookupErrorsTotal)
		}
		return
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)

	response := &dto.UserResponseDTO{
		UserID:   user.ID,
		Username: user.Username,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.errorResponse(w, err, "Failed to encode response")
		if r.Metrics != nil {
			r.Metrics.IncCounter(UserLookupErrorsTotal)
		}
	}
}

// SearchCards handles keyword search over the knowledge base.
func (r *Route) SearchCards(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), "Method not allowed")
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(CardSearchRequestsTotal)
	}

	query := req.URL.Query().Get("q")
	if query == "" {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf("missing query parameter 'q'"), "Search query is required")
		if r.Metrics != nil {
			r.Metrics.IncCounter(CardSearchErrorsTotal)
		}
		return
	}

	source := req.URL.Query().Get("source")

	limit := 0
	if rawLimit := req.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed <= 0 || parsed > MaxCardSearchResults {
			w.WriteHeader(http.StatusBadRequest)
			r.errorResponse(w, fmt.Errorf("invalid limit: %q", rawLimit),
				fmt.Sprintf("Limit must be a number between 1 and %d", MaxCardSearchResults))
			if r.Metrics != nil {
				r.Metrics.IncCounter(CardSearchErrorsTotal)
			}
			return
		}
		limit = parsed
	}

	var startTime time.Time
	if r.Metrics != nil {
		startTime = time.Now()
	}

	cards, err := r.CardRepo.Search(req.Context(), query, source, limit)
	if r.Metrics != nil {
		duration := time.Since(startTime).Seconds()
		r.Metrics.ObserveHistogram(CardSearchDurationSeconds, duration)
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		r.errorResponse(w, err, "Failed to search cards")
		if r.Metrics != nil {
			r.Metrics.IncCounter(CardSearchErrorsTotal)
		}
		return
	}

	cardDTOs := make([]dto.CardDTO, 0, len(cards))
	for _, card := range cards {
		cardDTOs = append(cardDTOs, dto.CardDTO{
			CardID:    card.ID,
			Content:   card.Content,
			Kind:      card.Kind,
			Source:    card.Source,
			Page:      card.Page,
			ImagePath: card.ImagePath,
		})
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)

	response := &dto.CardSearchResponseDTO{
		Query: query,
		Count: len(cardDTOs),
		Cards: cardDTOs,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.errorResponse(w, err, "Failed to encode response")
		if r.Metrics != nil {
			r.Metrics.IncCounter(CardSearchErrorsTotal)
		}
	}
}

// Signup handles user signup requests.
func (r *Route) Signup(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), "Method not allowed")
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(SignupRequestsTotal)
	}

	if req.Header.Get(ContentType) != ContentTypeJson {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf("invalid content-type: %s", req.Header.Get(ContentType)), "Request Content-Type must be application/json")
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		return
	}

	signupRequest := &dto.UserSignupRequestDTO{}
	err := json.NewDecoder(req.Body).Decode(signupRequest)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, err, "Invalid request body")
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		return
	}

	if err := r.validator.Struct(signupRequest); err != nil {
		// Validation failed, handle the error
		errors := err.(structValidator.ValidationErrors)
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf("invalid signup data: %s", errors), "Signup data validation failed")
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		return
	}

	var startTime time.Time
	if r.Metrics != nil {
		startTime = time.Now()
	}

	userID, err := r.UserService.RegisterUser(req.Context(), signupRequest.Username, signupRequest.Password)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		r.errorResponse(w, err, "Failed to register user")
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(SignupSuccessTotal)
		duration := time.Since(startTime).Seconds()
		r.Metrics.ObserveHistogram(SignupDurationSeconds, duration)
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusCreated)

	response := &dto.UserSignupResponseDTO{
		Message: fmt.Sprintf(MsgUserCreatedFormat, userID),
		UserID:  userID,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.errorResponse(w, err, "Failed to encode response")
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		return
	}
}

// Login handles user login requests.
func (r *Route) Login(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), "Method not allowed")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(LoginRequestsTotal)
	}

	if req.Header.Get(ContentType) != ContentTypeJson {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf("invalid content-type: %s", req.Header.Get(ContentType)), "Content-Type must be application/json")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}

	loginRequest := &dto.LoginRequestDTO{}
	err := json.NewDecoder(req.Body).Decode(loginRequest)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, err, "Invalid request body")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}

	if err := r.validator.Struct(loginRequest); err != nil {
		// Validation failed, handle the error
		errors := err.(structValidator.ValidationErrors)
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf("invalid login data: %s", errors), "Login data validation failed")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}

	var startTime time.Time
	if r.Metrics != nil {
		startTime = time.Now()
	}

	authenticated, err := r.UserService.AuthenticateUser(req.Context(), loginRequest.Username, loginRequest.Password)
	if err != nil || !authenticated {
		w.Header().Set(ContentType, ContentTypeJson)
		w.WriteHeader(http.StatusUnauthorized)
		r.errorResponse(w, err, "Invalid username or password")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
			duration := time.Since(startTime).Seconds()
			r.Metrics.ObserveHistogram(LoginDurationSeconds, duration)
		}
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(LoginSuccessTotal)
		duration := time.Since(startTime).Seconds()
		r.Metrics.ObserveHistogram(LoginDurationSeconds, duration)
	}

	sessionToken, err := auth.CreateToken(loginRequest.Username, r.PrivateKey)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		r.errorResponse(w, err, "Failed to generate session token")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    sessionToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
	})

	w.Header().Set(ContentType, ContentTypeJson)

	w.WriteHeader(http.StatusOK)
	response := &dto.LoginResponseDTO{
		Message: MsgLoginSuccessful,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.errorResponse(w, err, "Failed to encode response")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}
}

func (r *Route) errorResponse(w http.ResponseWriter, err error, message string) {
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	jsonResponse := map[string]string{
		"error":   errText,
		"message": message,
	}
	_ = json.NewEncoder(w).Encode(jsonResponse)
}
