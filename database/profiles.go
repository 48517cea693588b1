package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"renta/model"
)

func GetProfile(q sqlx.Queryer, id int64) (*model.Profile, error) {
	var p model.Profile
	if err := sqlx.Get(q, &p, `SELECT * FROM profiles WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func GetProfileByEmail(q sqlx.Queryer, email string) (*model.Profile, error) {
	var p model.Profile
	if err := sqlx.Get(q, &p, `SELECT * FROM profiles WHERE email = ?`, email); err != nil {
		return nil, err
	}
	return &p, nil
}

func UpdateProfilePassword(e sqlx.Ext, id int64, passwordHash string) error {
	_, err := e.Exec(`UPDATE profiles SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password for profile %d: %w", id, err)
	}
	return nil
}

// Sessions

func CreateSession(e sqlx.Ext, token string, userID int64, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := e.Exec(`INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		token, userID, now.Format(time.RFC3339), now.Add(ttl).Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSessionUser resolves a session token to a user id, ignoring expired
// sessions.
func GetSessionUser(q sqlx.Queryer, token string, now time.Time) (int64, error) {
	var userID int64
	err := sqlx.Get(q, &userID,
		`SELECT user_id FROM sessions WHERE token = ? AND expires_at > ?`,
		token, now.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func DeleteSession(e sqlx.Ext, token string) error {
	_, err := e.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func PurgeExpiredSessions(e sqlx.Ext, now time.Time) error {
	_, err := e.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, now.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to purge expired sessions: %w", err)
	}
	return nil
}
