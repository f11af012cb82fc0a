package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{Validation("bad %s", "input"), KindValidation},
		{fmt.Errorf("wrapped: %w", NotFound("gone")), KindNotFound},
		{&ServiceNotFoundError{ServiceID: 3}, KindValidation},
		{fmt.Errorf("tx: %w", &MalformedSequenceStateError{ReceiptNumber: "x"}), KindDataIntegrity},
		{Persistence("save", errors.New("boom")), KindPersistence},
		{errors.New("plain"), KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), tt.err.Error())
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "service with id 7 not found", PublicMessage(&ServiceNotFoundError{ServiceID: 7}))
	assert.Equal(t, "receipt not found", PublicMessage(NotFound("receipt not found")))
	assert.Equal(t, "internal server error", PublicMessage(Persistence("save", errors.New("pq: connection refused"))))
	assert.Equal(t, "internal server error", PublicMessage(&MalformedSequenceStateError{ReceiptNumber: "x"}))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw")))
}

func TestPersistenceUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := Persistence("save receipt", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save receipt: disk full", err.Error())
	assert.Equal(t, "persistence", KindPersistence.String())
}
