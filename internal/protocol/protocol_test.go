package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dominom/internal/domino"
)

func TestEncode(t *testing.T) {
	frame, err := Encode(TypeHand, Hand{Tiles: []domino.Tile{{Left: 1, Right: 2}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"hand","data":{"tiles":[{"left":1,"right":2}]}}`, string(frame))
}

func TestDecode(t *testing.T) {
	env, err := Decode([]byte(`{"type":"passTurn"}`))
	require.NoError(t, err)
	assert.Equal(t, TypePassTurn, env.Type)

	_, err = Decode([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode([]byte(`{"data":{}}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestPayload_PlaceTile(t *testing.T) {
	tests := []struct {
		name string
		data string
		ok   bool
	}{
		{"valid", `{"tile":{"left":6,"right":6},"position":"left"}`, true},
		{"bad position", `{"tile":{"left":6,"right":6},"position":"up"}`, false},
		{"missing position", `{"tile":{"left":1,"right":2}}`, false},
		{"pip out of range", `{"tile":{"left":7,"right":2},"position":"right"}`, false},
		{"wrong type", `{"tile":"6|6","position":"left"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := Envelope{Type: TypePlaceTile, Data: json.RawMessage(tt.data)}
			req, err := Payload[PlaceTileRequest](env)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domino.DoubleSix, req.Tile.Tile())
			assert.Equal(t, "left", req.Position)
		})
	}
}

func TestPayload_Join(t *testing.T) {
	env := Envelope{Type: TypeJoin, Data: json.RawMessage(`{"name":"ana","roomId":"mesa","targetScore":100,"avatar":{"type":"emoji","data":"x"}}`)}
	req, err := Payload[JoinRequest](env)
	require.NoError(t, err)
	assert.Equal(t, "ana", req.Name)
	assert.Equal(t, 100, req.TargetScore)
	require.NotNil(t, req.Avatar)
	assert.Equal(t, "emoji", req.Avatar.Type)

	_, err = Payload[JoinRequest](Envelope{Type: TypeJoin})
	assert.ErrorIs(t, err, ErrMalformed, "name is required")

	env.Data = json.RawMessage(`{"name":"ana","targetScore":5}`)
	_, err = Payload[JoinRequest](env)
	assert.ErrorIs(t, err, ErrMalformed)

	env.Data = json.RawMessage(`{"name":"ana","avatar":{"type":"gif"}}`)
	_, err = Payload[JoinRequest](env)
	assert.ErrorIs(t, err, ErrMalformed)
}
