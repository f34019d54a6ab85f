package cluster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkusla/dkaminpar-go/pkg/cluster"
)

func TestPeerRegistryRegisterAndLookup(t *testing.T) {
	r := cluster.NewPeerRegistry(0, false)
	r.RegisterPeer(1, "10.0.0.1:9000")
	r.RegisterPeer(2, "10.0.0.2:9000")

	addr, ok := r.Address(1)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1:9000", addr)

	_, ok = r.Address(99)
	assert.False(t, ok)

	assert.Equal(t, []int{1, 2}, r.Ranks())
}

func TestPeerRegistrySendWithoutTransportFails(t *testing.T) {
	r := cluster.NewPeerRegistry(0, false)
	r.RegisterPeer(1, "10.0.0.1:9000")
	err := r.Send(1, []byte("hello"))
	assert.Error(t, err)
}

func TestPeerRegistrySendWithTransport(t *testing.T) {
	r := cluster.NewPeerRegistry(0, true)
	r.RegisterPeer(1, "10.0.0.1:9000")
	err := r.Send(1, []byte("hello"))
	assert.NoError(t, err)
}

func TestPeerRegistryRegisterPeerIsIdempotent(t *testing.T) {
	r := cluster.NewPeerRegistry(0, false)
	r.RegisterPeer(1, "first")
	r.RegisterPeer(1, "second")
	addr, _ := r.Address(1)
	assert.Equal(t, "first", addr)
}
