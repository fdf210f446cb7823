// Package service implements the application use cases on top of the
// models, calculator, and storage packages. Services load entities,
// apply the entity state machines, persist the result, and publish
// domain events; they hold no state besides their dependencies.
package service

import (
	"errors"

	"github.com/mkhare/finbook/internal/models"
)

func isDuplicateKey(err error) bool {
	return errors.Is(err, models.ErrDuplicateIdempotencyKey)
}
