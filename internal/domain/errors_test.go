package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-stock-api/internal/domain"
)

func TestValidationError_ErrorsIs(t *testing.T) {
	v := &domain.ValidationError{}
	v.Add("notes", domain.CodeMissingJustification, "justifique")

	wrapped := fmt.Errorf("editar movimiento: %w", v)
	assert.True(t, errors.Is(wrapped, domain.ErrInvalidInput))
	assert.False(t, errors.Is(wrapped, domain.ErrInsufficientStock))

	v.Add("quantity", domain.CodeInsufficientStock, "stock insuficiente")
	assert.True(t, errors.Is(wrapped, domain.ErrInsufficientStock))

	got, ok := domain.AsValidation(wrapped)
	require.True(t, ok)
	f, ok := got.Field("quantity")
	require.True(t, ok)
	assert.Equal(t, domain.CodeInsufficientStock, f.Code)
	assert.Contains(t, got.Error(), "notes: justifique")
}

func TestValidationError_Empty(t *testing.T) {
	var v *domain.ValidationError
	assert.True(t, v.Empty())
	assert.False(t, v.Has(domain.CodeInvalidQuantity))

	v = &domain.ValidationError{}
	assert.True(t, v.Empty())
}
