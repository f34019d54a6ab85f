package cluster

import (
	"log"
)

// Transport is a placeholder outbound link for a rank running in its
// own OS process. It does not open a socket; wiring it to a real
// network transport (e.g. gRPC, matching EfeDurmaz16-anvil's stack) is
// left to the driver, since the in-process comm.World is what this
// module's collectives actually run over today.
type Transport struct {
	rankID int
}

// NewTransport creates a Transport for rank rankID.
func NewTransport(rankID int) *Transport {
	return &Transport{rankID: rankID}
}

// Send logs the intended delivery of payload to peerID at address; it
// does not put anything on the wire.
func (t *Transport) Send(peerID int, address string, payload []byte) error {
	log.Printf("[cluster] rank %d would send %d bytes to rank %d at %s", t.rankID, len(payload), peerID, address)
	return nil
}
