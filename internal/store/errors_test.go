package store_test

import (
	"errors"
	"testing"

	domainerrors "github.com/listenupapp/listenup-shelf/internal/errors"
	"github.com/listenupapp/listenup-shelf/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := &store.Error{Code: domainerrors.CodeNotFound, Message: "not found"}
	assert.Equal(t, "not found", err.Error())

	withCause := err.WithCause(errors.New("underlying error"))
	assert.Equal(t, "not found: underlying error", withCause.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := store.ErrInvalidInput.WithCause(cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := store.ErrNotFound.WithMessage("item:li_1 not found")

	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NotErrorIs(t, err, store.ErrAlreadyExists)
	assert.Equal(t, "item:li_1 not found", err.Message)
	assert.Equal(t, "resource not found", store.ErrNotFound.Message)
}

func TestError_Domain(t *testing.T) {
	tests := []struct {
		name string
		err  *store.Error
		want error
	}{
		{"not found", store.ErrNotFound, domainerrors.ErrNotFound},
		{"already exists", store.ErrAlreadyExists, domainerrors.ErrConflict},
		{"invalid input", store.ErrInvalidInput, domainerrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.err.Domain()
			assert.ErrorIs(t, d, tt.want)
			assert.ErrorIs(t, d, tt.err)
		})
	}
}
