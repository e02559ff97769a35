package greeting

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakePeer struct {
	name  string
	body  string
	err   error
	calls int
}

func (f *fakePeer) Name() string { return f.name }

func (f *fakePeer) Fetch(context.Context) (string, error) {
	f.calls++
	return f.body, f.err
}

type recordedCall struct {
	peer string
	err  error
}

type fakeObserver struct {
	calls []recordedCall
}

func (f *fakeObserver) ObservePeerCall(peer string, err error) {
	f.calls = append(f.calls, recordedCall{peer: peer, err: err})
}

func TestWelcome(t *testing.T) {
	assert.Equal(t, "Welcome to Hello Service", NewService("hello", &fakePeer{name: "world"}, &fakeObserver{}, zap.NewNop()).Welcome())
	assert.Equal(t, "Welcome to World Service", NewService("world", &fakePeer{name: "hello"}, &fakeObserver{}, zap.NewNop()).Welcome())
}

func TestSimpleIsIdempotent(t *testing.T) {
	peer := &fakePeer{name: "world"}
	svc := NewService("hello", peer, &fakeObserver{}, zap.NewNop())

	for i := 0; i < 3; i++ {
		assert.Equal(t, "hello", svc.Simple(context.Background()))
	}
	assert.Zero(t, peer.calls)
}

func TestTestComposesPeerResponse(t *testing.T) {
	tests := []struct {
		self, peer, peerBody, want string
	}{
		{"hello", "world", "world", "hello world"},
		{"world", "hello", "hello", "world hello"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			peer := &fakePeer{name: tt.peer, body: tt.peerBody}
			obs := &fakeObserver{}

			reply := NewService(tt.self, peer, obs, zap.NewNop()).Test(context.Background())

			assert.Equal(t, Reply{Status: http.StatusOK, Body: tt.want}, reply)
			assert.Equal(t, 1, peer.calls)
			require.Len(t, obs.calls, 1)
			assert.Equal(t, tt.peer, obs.calls[0].peer)
			assert.NoError(t, obs.calls[0].err)
		})
	}
}

func TestTestReportsPeerFailure(t *testing.T) {
	cause := errors.New(`Get "http://localhost:5001/world": dial tcp [::1]:5001: connect: connection refused`)
	peer := &fakePeer{name: "world", err: cause}
	obs := &fakeObserver{}
	core, logs := observer.New(zapcore.WarnLevel)

	reply := NewService("hello", peer, obs, zap.New(core)).Test(context.Background())

	assert.Equal(t, http.StatusInternalServerError, reply.Status)
	assert.Equal(t, `Error calling world service: Get "http://localhost:5001/world": dial tcp [::1]:5001: connect: connection refused`, reply.Body)

	require.Len(t, obs.calls, 1)
	assert.ErrorIs(t, obs.calls[0].err, cause)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "peer call failed", entry.Message)
	assert.Equal(t, "world", entry.ContextMap()["peer"])
}

func TestTestDoesNotRetry(t *testing.T) {
	peer := &fakePeer{name: "hello", err: errors.New("timeout")}

	reply := NewService("world", peer, &fakeObserver{}, zap.NewNop()).Test(context.Background())

	assert.Equal(t, "Error calling hello service: timeout", reply.Body)
	assert.Equal(t, 1, peer.calls)
}
