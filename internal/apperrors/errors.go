package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrTargetAllocationNotFound indicates that no target allocation is configured.
	ErrTargetAllocationNotFound = errors.New("target allocation not found")

	// ErrSettingNotFound indicates that a system setting key has no value.
	ErrSettingNotFound = errors.New("setting not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientShares indicates that a sell transaction exceeds the
	// remaining quantity across all eligible tax lots.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrInvalidMethod indicates an unknown cost-basis accounting method.
	ErrInvalidMethod = errors.New("invalid accounting method")

	// ErrEncryptionKeyMissing indicates that a secret operation was attempted
	// without a configured fernet key.
	ErrEncryptionKeyMissing = errors.New("encryption key not configured")

	// ErrSecretDecryptFailed indicates that a stored secret could not be
	// decrypted, usually after a key rotation without re-encrypting.
	ErrSecretDecryptFailed = errors.New("failed to decrypt stored secret")
)
