package handler

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/wadjakorntonsri/go-job-board/pkg/config"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Sessions issues and clears the admin session cookie
type Sessions interface {
	Issue(w http.ResponseWriter, subject string) error
	Clear(w http.ResponseWriter)
}

type AuthHandler struct {
	sessions      Sessions
	password      string
	oauthConfig   *oauth2.Config
	adminURL      string
	allowedEmails []string
	isProduction  bool
}

type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func NewAuthHandler(cfg *config.Config, sessions Sessions) *AuthHandler {
	h := &AuthHandler{
		sessions:      sessions,
		password:      cfg.AdminPassword,
		adminURL:      cfg.AdminURL,
		allowedEmails: cfg.AdminEmails,
		isProduction:  cfg.IsProduction(),
	}
	if cfg.GoogleClientID != "" {
		h.oauthConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		}
	}
	return h
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login exchanges the shared admin password for a session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if h.password == "" || subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) != 1 {
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	if err := h.sessions.Issue(w, "admin"); err != nil {
		log.Printf("Login error: failed issuing session: %v", err)
		writeError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GoogleLogin starts the optional Google sign-in
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.oauthConfig == nil {
		writeError(w, http.StatusNotFound, "Google sign-in is not configured")
		return
	}
	state := h.generateStateOauthCookie(w)
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauthConfig == nil {
		writeError(w, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	oauthState, err := r.Cookie("oauthstate")
	if err != nil || r.FormValue("state") != oauthState.Value {
		log.Printf("Callback error: missing or invalid oauth state")
		writeError(w, http.StatusBadRequest, "Invalid oauth state")
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		log.Printf("Callback error: code exchange failed: %v", err)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	response, err := h.oauthConfig.Client(r.Context(), token).Get(googleUserInfoURL)
	if err != nil {
		log.Printf("Callback error: failed getting user info: %v", err)
		writeError(w, http.StatusBadGateway, "Failed getting user info")
		return
	}
	defer response.Body.Close()

	var googleUser GoogleUser
	if err := json.NewDecoder(response.Body).Decode(&googleUser); err != nil {
		log.Printf("Callback error: failed decoding user info: %v", err)
		writeError(w, http.StatusBadGateway, "Failed getting user info")
		return
	}

	if !googleUser.VerifiedEmail || !h.isAllowed(googleUser.Email) {
		log.Printf("Callback error: email %s not in allowlist", googleUser.Email)
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	if err := h.sessions.Issue(w, strings.ToLower(googleUser.Email)); err != nil {
		log.Printf("Callback error: failed issuing session: %v", err)
		writeError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	log.Printf("Login successful for admin: %s", googleUser.Email)
	http.Redirect(w, r, h.adminURL, http.StatusTemporaryRedirect)
}

// isAllowed requires an explicit allowlist; an empty list admits nobody.
func (h *AuthHandler) isAllowed(email string) bool {
	email = strings.ToLower(email)
	for _, allowed := range h.allowedEmails {
		if allowed == email {
			return true
		}
	}
	return false
}

func (h *AuthHandler) generateStateOauthCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     "oauthstate",
		Value:    state,
		Expires:  time.Now().Add(20 * time.Minute),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return state
}
