package money

import "github.com/google/uuid"

// IdempotencyKey identifies a financial write that must not be repeated
// within a tenant. The core defines only the key's shape and generation;
// uniqueness is enforced atomically at the storage boundary.
type IdempotencyKey struct {
	Value    string
	TenantID string
}

// NewIdempotencyKey validates a caller-supplied key.
func NewIdempotencyKey(value, tenantID string) (IdempotencyKey, error) {
	if value == "" || len(value) > 255 {
		return IdempotencyKey{}, ErrInvalidIdempotencyKey
	}
	return IdempotencyKey{Value: value, TenantID: tenantID}, nil
}

// GenerateIdempotencyKey creates a fresh random key for a tenant.
func GenerateIdempotencyKey(tenantID string) IdempotencyKey {
	return IdempotencyKey{Value: uuid.New().String(), TenantID: tenantID}
}
