package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	assert.Equal(t, "[INPUT_ERROR] bad", Input("bad").Error())

	wrapped := Wrap(TypeConfig, "read config", fmt.Errorf("denied"))
	assert.Equal(t, "[CONFIG_ERROR] read config: denied", wrapped.Error())
}

func TestTypeSurvivesWrapping(t *testing.T) {
	inner := UnknownInstanceType("z9.giant")
	outer := fmt.Errorf("pricing cart: %w", inner)

	assert.Equal(t, TypeUnknownInstanceType, TypeOf(outer))
	assert.True(t, IsType(outer, TypeUnknownInstanceType))
	assert.True(t, Is(outer, New(TypeUnknownInstanceType, "")))
	assert.False(t, Is(outer, New(TypeUnknownStorageClass, "")))

	var e *Error
	require.True(t, As(outer, &e))
	assert.Equal(t, "z9.giant", e.Context["instanceType"])
	assert.Equal(t, "Unknown instance type: z9.giant", e.Message)
}

func TestTypeOfPlainError(t *testing.T) {
	assert.Equal(t, Type(""), TypeOf(fmt.Errorf("plain")))
	assert.False(t, IsType(nil, TypeInput))
	assert.False(t, IsClientError(nil))
}

func TestIsClientError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{Input("x"), true},
		{Parsing("x", nil), true},
		{NotFound("cart", "a.json"), true},
		{UnknownStorageClass("tape"), true},
		{UnknownRDSInstanceType("db.z"), true},
		{Config("x"), false},
		{Internal("x", nil), false},
		{AdvisorUnavailable(), false},
		{New(TypeNetwork, "x"), false},
	}

	for _, tt := range tests {
		t.Run(string(TypeOf(tt.err)), func(t *testing.T) {
			assert.Equal(t, tt.want, IsClientError(tt.err))
		})
	}
}
