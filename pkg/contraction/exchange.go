package contraction

import (
	"context"

	"github.com/nkusla/dkaminpar-go/pkg/comm"
)

// exchangeBytes is the "exchange counts first, payloads second" sparse
// all-to-all pattern every migration/echo/request-response round in this
// package uses.
func exchangeBytes(ctx context.Context, cm comm.Communicator, sendBuf [][]byte) ([][]byte, error) {
	counts := make([]int, len(sendBuf))
	for p, b := range sendBuf {
		counts[p] = len(b)
	}
	if _, err := cm.Alltoall(ctx, counts); err != nil {
		return nil, err
	}
	return cm.Alltoallv(ctx, sendBuf)
}
