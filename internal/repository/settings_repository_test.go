package repository_test

import (
	"errors"
	"testing"

	"github.com/fernet/fernet-go"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/apperrors"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/repository"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/testutil"
)

func generateFernetKey(t *testing.T) string {
	t.Helper()

	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate fernet key: %v", err)
	}
	return key.Encode()
}

// TestSettingsRepository_Secrets tests encrypted setting storage.
//
// WHY: The quote provider token must never land in the database as
// plaintext. These tests verify the encrypt/decrypt round trip and that the
// stored column value is actually ciphertext.
func TestSettingsRepository_Secrets(t *testing.T) {
	t.Run("secret round trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo, err := repository.NewSettingsRepository(db, generateFernetKey(t))
		if err != nil {
			t.Fatalf("NewSettingsRepository() returned unexpected error: %v", err)
		}

		if err := repo.SetSecret(repository.SettingQuoteProviderToken, "tok-123"); err != nil {
			t.Fatalf("SetSecret() returned unexpected error: %v", err)
		}

		got, err := repo.GetSecret(repository.SettingQuoteProviderToken)
		if err != nil {
			t.Fatalf("GetSecret() returned unexpected error: %v", err)
		}
		if got != "tok-123" {
			t.Errorf("Expected tok-123, got %q", got)
		}
	})

	t.Run("stored value is not plaintext", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo, err := repository.NewSettingsRepository(db, generateFernetKey(t))
		if err != nil {
			t.Fatalf("NewSettingsRepository() returned unexpected error: %v", err)
		}

		if err := repo.SetSecret(repository.SettingQuoteProviderToken, "tok-123"); err != nil {
			t.Fatalf("SetSecret() returned unexpected error: %v", err)
		}

		raw, err := repo.GetSetting(repository.SettingQuoteProviderToken)
		if err != nil {
			t.Fatalf("GetSetting() returned unexpected error: %v", err)
		}
		if raw == "tok-123" {
			t.Error("Secret stored as plaintext")
		}
	})

	t.Run("upsert replaces previous secret", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo, err := repository.NewSettingsRepository(db, generateFernetKey(t))
		if err != nil {
			t.Fatalf("NewSettingsRepository() returned unexpected error: %v", err)
		}

		if err := repo.SetSecret(repository.SettingQuoteProviderToken, "old"); err != nil {
			t.Fatalf("SetSecret() returned unexpected error: %v", err)
		}
		if err := repo.SetSecret(repository.SettingQuoteProviderToken, "new"); err != nil {
			t.Fatalf("SetSecret() returned unexpected error: %v", err)
		}

		got, err := repo.GetSecret(repository.SettingQuoteProviderToken)
		if err != nil {
			t.Fatalf("GetSecret() returned unexpected error: %v", err)
		}
		if got != "new" {
			t.Errorf("Expected new, got %q", got)
		}

		if count := testutil.CountRows(t, db, "system_setting"); count != 1 {
			t.Errorf("Expected 1 setting row after upsert, got %d", count)
		}
	})

	t.Run("missing key returns ErrSettingNotFound", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo, err := repository.NewSettingsRepository(db, generateFernetKey(t))
		if err != nil {
			t.Fatalf("NewSettingsRepository() returned unexpected error: %v", err)
		}

		_, err = repo.GetSecret("missing")
		if !errors.Is(err, apperrors.ErrSettingNotFound) {
			t.Errorf("Expected ErrSettingNotFound, got %v", err)
		}
	})

	t.Run("no key configured returns ErrEncryptionKeyMissing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo, err := repository.NewSettingsRepository(db, "")
		if err != nil {
			t.Fatalf("NewSettingsRepository() returned unexpected error: %v", err)
		}

		if err := repo.SetSecret("k", "v"); !errors.Is(err, apperrors.ErrEncryptionKeyMissing) {
			t.Errorf("Expected ErrEncryptionKeyMissing, got %v", err)
		}
		if _, err := repo.GetSecret("k"); !errors.Is(err, apperrors.ErrEncryptionKeyMissing) {
			t.Errorf("Expected ErrEncryptionKeyMissing, got %v", err)
		}
	})

	t.Run("wrong key fails decryption", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo, err := repository.NewSettingsRepository(db, generateFernetKey(t))
		if err != nil {
			t.Fatalf("NewSettingsRepository() returned unexpected error: %v", err)
		}
		if err := repo.SetSecret(repository.SettingQuoteProviderToken, "tok-123"); err != nil {
			t.Fatalf("SetSecret() returned unexpected error: %v", err)
		}

		rotated, err := repository.NewSettingsRepository(db, generateFernetKey(t))
		if err != nil {
			t.Fatalf("NewSettingsRepository() returned unexpected error: %v", err)
		}

		_, err = rotated.GetSecret(repository.SettingQuoteProviderToken)
		if !errors.Is(err, apperrors.ErrSecretDecryptFailed) {
			t.Errorf("Expected ErrSecretDecryptFailed, got %v", err)
		}
	})

	t.Run("invalid fernet key rejected at construction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		if _, err := repository.NewSettingsRepository(db, "not-a-key"); err == nil {
			t.Error("Expected error for malformed fernet key, got nil")
		}
	})
}
