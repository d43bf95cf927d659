package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type session struct {
	User    string
	Expires int64
	Admin   bool
}

func TestXDR_Encoding(t *testing.T) {
	t.Parallel()

	data, err := XDR[uint32]{}.Serialize(1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 1}, data)

	// strings are length-prefixed and padded to four bytes
	data, err = XDR[string]{}.Serialize("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 3, 'a', 'b', 'c', 0}, data)
}

func TestXDR_Struct(t *testing.T) {
	t.Parallel()

	in := session{User: "alice", Expires: 1700000000, Admin: true}
	data, err := XDR[session]{}.Serialize(in)
	require.NoError(t, err)

	out, err := XDR[session]{}.Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestXDR_Truncated(t *testing.T) {
	t.Parallel()

	_, err := XDR[uint64]{}.Deserialize([]byte{0, 1})
	assert.Error(t, err)
}

func TestYAML_Struct(t *testing.T) {
	t.Parallel()

	in := map[string][]int{"a": {1, 2}, "b": nil}
	data, err := YAML[map[string][]int]{}.Serialize(in)
	require.NoError(t, err)

	out, err := YAML[map[string][]int]{}.Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, out["a"])
	assert.Empty(t, out["b"])
}

func TestYAML_Invalid(t *testing.T) {
	t.Parallel()

	_, err := YAML[int]{}.Deserialize([]byte("not: [an int"))
	assert.Error(t, err)
}

func TestBytes_Copies(t *testing.T) {
	t.Parallel()

	in := []byte("payload")
	out, err := Bytes{}.Serialize(in)
	require.NoError(t, err)
	in[0] = 'P'
	assert.Equal(t, "payload", string(out))
}
