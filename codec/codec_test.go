package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fragmentDoc struct {
	ID    string   `json:"id"`
	Items []uint32 `json:"items"`
}

func TestGoJSON_RoundTrip(t *testing.T) {
	for _, c := range []Codec{GoJSON{}, GoJSON{Strict: true}} {
		b, err := c.Marshal(fragmentDoc{ID: "walls", Items: []uint32{1, 2}})
		require.NoError(t, err)

		var out fragmentDoc
		require.NoError(t, c.Unmarshal(b, &out), c.Name())
		assert.Equal(t, "walls", out.ID)
		assert.Equal(t, []uint32{1, 2}, out.Items)
	}
}

func TestGoJSON_UnknownFields(t *testing.T) {
	data := []byte(`{"id":"walls","items":[1],"material":"concrete"}`)

	var out fragmentDoc
	require.NoError(t, GoJSON{}.Unmarshal(data, &out))
	assert.Equal(t, "walls", out.ID)

	assert.Error(t, GoJSON{Strict: true}.Unmarshal(data, &out))
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "go-json", Default.Name())
}
