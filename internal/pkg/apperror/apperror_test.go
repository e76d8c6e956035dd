package apperror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersistenceErrorHidesCause(t *testing.T) {
	cause := errors.New("Error 1452: Cannot add or update a child row")
	err := Persistence("create report", cause)

	assert.Equal(t, "persistence failure: create report", err.Error())
	assert.NotContains(t, err.Error(), "1452")
	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrValidation))

	var pe *PersistenceError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "create report", pe.Op)
}

func TestValidationErrorKind(t *testing.T) {
	err := Validation("decline_reason", "must not be empty")

	assert.Equal(t, "validation failed: decline_reason: must not be empty", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrPersistence))

	assert.Equal(t, "validation failed: bad input", Validation("", "bad input").Error())
}

func TestDeniedAndNotFound(t *testing.T) {
	assert.True(t, errors.Is(Denied("not an inspector"), ErrAuthorizationDenied))

	err := NotFound("report", 7)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "report 7: not found", err.Error())

	byName := NotFoundBy("user", "username", "alice")
	assert.True(t, errors.Is(byName, ErrNotFound))
	assert.Equal(t, "user with username alice: not found", byName.Error())
}
