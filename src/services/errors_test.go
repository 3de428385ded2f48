package services_test

import (
	"errors"
	"fmt"
	"testing"

	"tally-server/src/services"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	err := services.NotFound("Transaction", "id", 42)
	assert.Equal(t, "Transaction not found with id: 42", err.Error())
	assert.Equal(t, services.KindNotFound, services.KindOf(err))

	wrapped := fmt.Errorf("outer: %w", services.BadRequest("bad %s", "input"))
	assert.Equal(t, services.KindBadRequest, services.KindOf(wrapped))

	v := services.Validation("amount: must not be null", "description: must not be blank")
	assert.Equal(t, "Invalid input data", v.Message)
	assert.Len(t, v.Details, 2)

	assert.Equal(t, services.Kind(0), services.KindOf(errors.New("db down")))
}
