// Package cluster keeps the rank/peer address registry used to wire a
// comm.Communicator across OS processes. The in-process comm.World
// implementation exercised by pkg/contraction's tests never needs this;
// it exists for a driver that wants to run one rank per process and
// dial its peers.
package cluster

import (
	"fmt"
	"sort"
	"sync"
)

// PeerRegistry tracks the network address of every rank in a run, keyed
// by rank ID.
type PeerRegistry struct {
	rankID    int
	peers     map[int]string
	transport *Transport

	mu sync.RWMutex
}

// NewPeerRegistry creates a registry for rank rankID. If useTransport is
// true, an outbound Transport is created for sending to remote peers.
func NewPeerRegistry(rankID int, useTransport bool) *PeerRegistry {
	r := &PeerRegistry{
		rankID: rankID,
		peers:  make(map[int]string),
	}
	if useTransport {
		r.transport = NewTransport(rankID)
	}
	return r
}

// RankID returns the rank this registry was created for.
func (r *PeerRegistry) RankID() int { return r.rankID }

// RegisterPeer records rank peerID's address, if not already known.
func (r *PeerRegistry) RegisterPeer(peerID int, address string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.peers[peerID]; !exists {
		r.peers[peerID] = address
	}
}

// Address returns rank peerID's registered address.
func (r *PeerRegistry) Address(peerID int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	addr, ok := r.peers[peerID]
	return addr, ok
}

// Ranks returns every registered rank ID in ascending order.
func (r *PeerRegistry) Ranks() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int, 0, len(r.peers))
	for id := range r.peers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Send forwards payload to rank peerID over the registered transport.
func (r *PeerRegistry) Send(peerID int, payload []byte) error {
	addr, ok := r.Address(peerID)
	if !ok {
		return fmt.Errorf("cluster: no address registered for rank %d", peerID)
	}
	if r.transport == nil {
		return fmt.Errorf("cluster: transport layer not enabled")
	}
	return r.transport.Send(peerID, addr, payload)
}
