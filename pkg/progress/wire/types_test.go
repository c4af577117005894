package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshallerRoundTrip(t *testing.T) {
	m := NewMarshaller(10)

	for _, msg := range []any{
		&MsgStep{Ordinal: 3, Total: 19, Name: "partition"},
		&MsgLog{Level: "info", Message: "Partitioning drive"},
		&MsgResult{Code: 256, Error: `step "partition" failed`},
	} {
		size, err := m.Size(msg)
		require.NoError(t, err)

		buf := make([]byte, size)
		id, n, err := m.Marshal(msg, buf)
		require.NoError(t, err)
		require.Equal(t, size, n)

		decoded, n, err := m.Unmarshal(id, buf)
		require.NoError(t, err)
		require.Equal(t, size, n)
		require.Equal(t, msg, decoded)
	}
}

func TestMarshallerRejectsUnknownMessage(t *testing.T) {
	m := NewMarshaller(10)

	_, err := m.Size(struct{}{})
	require.Error(t, err)

	_, _, err = m.Unmarshal(42, nil)
	require.Error(t, err)
}
