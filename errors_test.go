package fragsync

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hupe1980/fragsync/blobstore"
	"github.com/hupe1980/fragsync/engine"
	"github.com/hupe1980/fragsync/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	notFound := &blobstore.TransportError{StatusCode: 404, Status: "404 Not Found"}
	assert.ErrorIs(t, translateError(notFound), ErrNotFound)

	unavailable := &blobstore.TransportError{StatusCode: 503, Status: "503 Service Unavailable"}
	err := translateError(unavailable)
	assert.ErrorIs(t, err, ErrLoadFailed)
	var te *ErrTransport
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 503, te.StatusCode)

	assert.ErrorIs(t, translateError(fmt.Errorf("wrap: %w", engine.ErrEmptyPayload)), ErrLoadFailed)
	assert.ErrorIs(t, translateError(loader.ErrEmptyReference), ErrInvalidReference)

	other := errors.New("boom")
	assert.Equal(t, other, translateError(other))
}
