package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
	"github.com/sofiatorres5082/sweettreats/internal/restapi"
	"github.com/sofiatorres5082/sweettreats/internal/session"
)

type SessionHandler struct {
	store *session.Store
}

func NewSessionHandler(store *session.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

type UserResponseDTO struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

func userResponse(user *domain.UserProfile) UserResponseDTO {
	return UserResponseDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Roles: user.Roles.Names(),
	}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds restapi.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if creds.Email == "" || creds.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_credentials", "email and password are required")
		return
	}

	user, err := h.store.Login(r.Context(), creds)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "login_failed", restapi.ErrorMessage(err))
		return
	}

	respondJSON(w, http.StatusOK, userResponse(user))
}

func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg restapi.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_registration", "name, email and password are required")
		return
	}

	user, err := h.store.Register(r.Context(), reg)
	if err != nil {
		if errors.Is(err, session.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "email_taken", "email already in use")
			return
		}
		respondError(w, http.StatusBadGateway, "registration_failed", restapi.ErrorMessage(err))
		return
	}

	respondJSON(w, http.StatusCreated, userResponse(user))
}

func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := h.store.User()
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "no active session")
		return
	}
	respondJSON(w, http.StatusOK, userResponse(user))
}

func (h *SessionHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update restapi.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.store.UpdateProfile(r.Context(), update)
	if err != nil {
		respondError(w, http.StatusBadGateway, "update_failed", restapi.ErrorMessage(err))
		return
	}

	respondJSON(w, http.StatusOK, userResponse(user))
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.store.Logout(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
