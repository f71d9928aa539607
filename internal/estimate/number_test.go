package estimate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantValue    float64
		wantProvided bool
	}{
		{name: "number", input: `12.5`, wantValue: 12.5, wantProvided: true},
		{name: "zero", input: `0`, wantValue: 0, wantProvided: true},
		{name: "numeric string", input: `"40"`, wantValue: 40, wantProvided: true},
		{name: "padded string", input: `" 7 "`, wantValue: 7, wantProvided: true},
		{name: "negative", input: `-3`, wantValue: -3, wantProvided: true},
		{name: "empty string", input: `""`},
		{name: "null", input: `null`},
		{name: "garbage string", input: `"abc"`},
		{name: "boolean", input: `true`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))
			assert.Equal(t, tt.wantValue, n.Value)
			assert.Equal(t, tt.wantProvided, n.Provided)
		})
	}
}

func TestNumber_MissingFieldIsNotProvided(t *testing.T) {
	var req RoofRequest
	require.NoError(t, json.Unmarshal([]byte(`{"length": "50", "pitch": ""}`), &req))

	assert.True(t, req.Length.Provided)
	assert.False(t, req.Width.Provided)
	assert.False(t, req.Pitch.Provided)
}

func TestNumber_Accessors(t *testing.T) {
	assert.Zero(t, Number{}.Float())
	assert.Equal(t, 9.0, Number{}.Or(9))
	assert.Zero(t, N(0).Or(9), "explicit zero wins over default")
	assert.Zero(t, N(-4).Float())
	assert.Equal(t, 3, N(3.9).Int())
	assert.Equal(t, MaxInput, N(1e19).Int(), "saturates instead of wrapping")
}

func TestNumber_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: N(2.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 2.5, "b": null}`, string(out))
}
