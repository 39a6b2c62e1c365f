package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical(t *testing.T) {
	a, err := MarshalCanonical(map[string]any{"b": "2", "a": 1.0, "c": []any{"x", true}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":"2","c":["x",true]}`, string(a))

	type call struct {
		Method string `json:"method"`
		Args   any    `json:"args"`
	}
	b, err := MarshalCanonical(call{Method: "observe", Args: map[string]any{"z": 0.5, "y": "<&>"}})
	require.NoError(t, err)
	assert.Equal(t, `{"args":{"y":"<&>","z":0.5},"method":"observe"}`, string(b))
}

func TestMarshalCanonical_Unsupported(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestJSON_RoundTrip(t *testing.T) {
	codec := NewJSON()
	data, err := codec.Marshal(map[string]uint64{"block": 7})
	require.NoError(t, err)

	var out map[string]uint64
	require.NoError(t, codec.Unmarshal(data, &out))
	assert.Equal(t, uint64(7), out["block"])
}
