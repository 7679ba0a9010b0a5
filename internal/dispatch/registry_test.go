package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renzocastillo/WSLScriptRunner/internal/protocol"
)

func noop(context.Context, Params) []protocol.Result { return nil }

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		wantErr bool
	}{
		{name: "valid", op: Operation{Name: "query", MaxArgs: 1, Handler: noop}},
		{name: "unlimited", op: Operation{Name: "echo", MaxArgs: Unlimited, Handler: noop}},
		{name: "empty name", op: Operation{Name: "  ", Handler: noop}, wantErr: true},
		{name: "nil handler", op: Operation{Name: "query"}, wantErr: true},
		{name: "negative min", op: Operation{Name: "query", MinArgs: -1, Handler: noop}, wantErr: true},
		{name: "max below min", op: Operation{Name: "query", MinArgs: 2, MaxArgs: 1, Handler: noop}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(tt.op)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Operation{Name: "query", Handler: noop}))
	assert.Error(t, reg.Register(Operation{Name: "query", Handler: noop}))
}

func TestRegistry_Resolve(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Operation{Name: "run_script", MinArgs: 1, MaxArgs: 1, Handler: noop}))
	require.NoError(t, reg.Register(Operation{Name: "context_menu", MaxArgs: 1, Handler: noop}))

	op, err := reg.Resolve("run_script")
	require.NoError(t, err)
	assert.Equal(t, "run_script", op.Name)

	_, err = reg.Resolve("missing")
	assert.True(t, errors.Is(err, ErrUnknownMethod))
	assert.EqualError(t, err, `unknown method "missing"`)

	assert.Equal(t, []string{"context_menu", "run_script"}, reg.Names())
}

func TestOperation_AcceptsArgs(t *testing.T) {
	op := Operation{MinArgs: 1, MaxArgs: 2}
	assert.False(t, op.acceptsArgs(0))
	assert.True(t, op.acceptsArgs(1))
	assert.True(t, op.acceptsArgs(2))
	assert.False(t, op.acceptsArgs(3))

	open := Operation{MinArgs: 0, MaxArgs: Unlimited}
	assert.True(t, open.acceptsArgs(10))
}

func TestParams(t *testing.T) {
	p := NewParams(json.RawMessage(`"deploy"`), json.RawMessage(`42`), json.RawMessage(`null`), json.RawMessage(`{"path":"/s"}`))

	assert.Equal(t, 4, p.Len())
	assert.Equal(t, "deploy", p.StringOr(0, ""))
	assert.Equal(t, "42", p.StringOr(1, ""))
	assert.Equal(t, "def", p.StringOr(2, "def"))
	assert.Equal(t, "def", p.StringOr(9, "def"))
	assert.Nil(t, p.Raw(-1))

	var obj struct {
		Path string `json:"path"`
	}
	require.NoError(t, p.Decode(3, &obj))
	assert.Equal(t, "/s", obj.Path)
	assert.Error(t, p.Decode(7, &obj))
	assert.Error(t, p.Decode(1, &obj))
}
