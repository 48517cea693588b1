// Package auth is the thin session layer in front of the API: bcrypt-checked
// logins against the profiles table, uuid session tokens in SQLite, and a
// wrapper that stamps the current user id into the request context.
package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"renta/config"
	"renta/database"
)

const SessionCookie = "renta_session"

type contextKey struct{}

// UserID returns the authenticated profile id stored by Require, or 0.
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(contextKey{}).(int64)
	return id
}

// WithUser returns a context carrying the given profile id, as Require does
// after resolving a session.
func WithUser(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler exchanges email/password for a session cookie.
func LoginHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		profile, err := database.GetProfileByEmail(db, payload.Email)
		if err != nil {
			if err == sql.ErrNoRows {
				http.Error(w, "Invalid credentials", http.StatusUnauthorized)
				return
			}
			log.Printf("Error loading profile %s: %v", payload.Email, err)
			http.Error(w, "Login failed", http.StatusInternalServerError)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(payload.Password)) != nil {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		token := uuid.NewString()
		ttl := time.Duration(config.GetConfig().SessionTTLHours) * time.Hour
		if err := database.CreateSession(db, token, profile.ID, ttl); err != nil {
			log.Printf("Error creating session for %s: %v", payload.Email, err)
			http.Error(w, "Login failed", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(ttl.Seconds()),
		})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"userId":      profile.ID,
			"displayName": profile.DisplayName,
		})
	}
}

// LogoutHandler deletes the current session and clears the cookie.
func LogoutHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(SessionCookie); err == nil {
			if err := database.DeleteSession(db, c.Value); err != nil {
				log.Printf("Error deleting session: %v", err)
			}
		}
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
		w.WriteHeader(http.StatusNoContent)
	}
}

type changePasswordPayload struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePasswordHandler lets the logged-in profile replace its password after
// re-proving the current one.
func ChangePasswordHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var payload changePasswordPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if len(payload.NewPassword) < 6 {
			http.Error(w, "New password must be at least 6 characters", http.StatusUnprocessableEntity)
			return
		}

		profile, err := database.GetProfile(db, UserID(r.Context()))
		if err != nil {
			log.Printf("Error loading profile for password change: %v", err)
			http.Error(w, "Failed to change password", http.StatusInternalServerError)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(payload.CurrentPassword)) != nil {
			http.Error(w, "Current password is incorrect", http.StatusUnauthorized)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Error hashing new password: %v", err)
			http.Error(w, "Failed to change password", http.StatusInternalServerError)
			return
		}
		if err := database.UpdateProfilePassword(db, profile.ID, string(hash)); err != nil {
			log.Printf("Error updating password for profile %d: %v", profile.ID, err)
			http.Error(w, "Failed to change password", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Require rejects requests without a live session and stores the user id in
// the request context for ownership stamping.
func Require(db *sqlx.DB, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		userID, err := database.GetSessionUser(db, c.Value, time.Now())
		if err != nil {
			if err == sql.ErrNoRows {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			log.Printf("Error resolving session: %v", err)
			http.Error(w, "Authentication failed", http.StatusInternalServerError)
			return
		}
		next(w, r.WithContext(WithUser(r.Context(), userID)))
	}
}
