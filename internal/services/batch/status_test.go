package batch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitionsAreForwardOnly(t *testing.T) {
	p := Pending()
	up, err := p.Advance(Uploading())
	require.NoError(t, err)
	done, err := up.Advance(Success())
	require.NoError(t, err)
	assert.True(t, done.IsTerminal())

	_, err = done.Advance(Failed("late"))
	assert.Error(t, err)
	_, err = up.Advance(Skipped())
	assert.Error(t, err)
	_, err = p.Advance(Pending())
	assert.Error(t, err)

	for _, terminal := range []Status{Success(), Failed("x"), Skipped(), PartiallyDone("y")} {
		for _, next := range []State{StatePending, StateUploading, StateSuccess, StateError, StateSkipped, StatePartial} {
			assert.False(t, terminal.CanTransition(next), "%s -> %s", terminal.State, next)
		}
	}
}

func TestStatusJSON(t *testing.T) {
	b, err := json.Marshal(Failed("already exists"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"error","message":"already exists"}`, string(b))

	b, err = json.Marshal(Success())
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"success"}`, string(b))

	var s Status
	require.NoError(t, json.Unmarshal([]byte(`"skipped"`), &s))
	assert.Equal(t, StateSkipped, s.State)

	require.NoError(t, json.Unmarshal([]byte(`{"state":"partial","message":"link failed"}`), &s))
	assert.Equal(t, PartiallyDone("link failed"), s)

	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.True(t, s.IsPending())

	assert.Error(t, json.Unmarshal([]byte(`"done"`), &s))
}
