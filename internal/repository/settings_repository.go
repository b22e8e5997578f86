package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/apperrors"
)

// Setting keys stored in the system_setting table.
const (
	SettingQuoteProviderToken = "quote_provider_token"
)

// SettingsRepository provides data access methods for the system_setting
// table. Secret values such as the quote provider token are encrypted at
// rest with a fernet key.
type SettingsRepository struct {
	db  *sql.DB
	key *fernet.Key
}

// NewSettingsRepository creates a new SettingsRepository with the provided
// database connection. fernetKey may be empty, in which case secret
// accessors return an error when used.
func NewSettingsRepository(db *sql.DB, fernetKey string) (*SettingsRepository, error) {
	r := &SettingsRepository{db: db}
	if fernetKey != "" {
		key, err := fernet.DecodeKey(fernetKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode fernet key: %w", err)
		}
		r.key = key
	}
	return r, nil
}

// GetSetting returns the plaintext value for a setting key, or
// ErrSettingNotFound when the key does not exist.
func (r *SettingsRepository) GetSetting(key string) (string, error) {
	query := `SELECT value FROM system_setting WHERE "key" = ?`

	var value string
	err := r.db.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", apperrors.ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to scan system_setting table results: %w", err)
	}

	return value, nil
}

// SetSetting upserts a plaintext setting value.
func (r *SettingsRepository) SetSetting(key, value string) error {
	query := `
		INSERT INTO system_setting (id, "key", value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT("key") DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.Exec(query, uuid.New().String(), key, value, now)
	if err != nil {
		return fmt.Errorf("failed to upsert system_setting: %w", err)
	}

	return nil
}

// GetSecret returns the decrypted value for a secret setting key.
func (r *SettingsRepository) GetSecret(key string) (string, error) {
	if r.key == nil {
		return "", apperrors.ErrEncryptionKeyMissing
	}

	token, err := r.GetSetting(key)
	if err != nil {
		return "", err
	}

	// TTL of zero disables token expiry; secrets stay valid until rotated.
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{r.key})
	if msg == nil {
		return "", apperrors.ErrSecretDecryptFailed
	}

	return string(msg), nil
}

// SetSecret encrypts and stores a secret setting value.
func (r *SettingsRepository) SetSecret(key, value string) error {
	if r.key == nil {
		return apperrors.ErrEncryptionKeyMissing
	}

	token, err := fernet.EncryptAndSign([]byte(value), r.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt secret: %w", err)
	}

	return r.SetSetting(key, string(token))
}
