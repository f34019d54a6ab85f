package contraction

import "encoding/binary"

// nodeRecord is a "nonlocal node record" of the local/nonlocal
// partitioning phase: a fine vertex assigned to a cluster owned by a
// different process, carrying the weight it contributes.
type nodeRecord struct {
	Cluster uint64
	Weight  int64
}

// edgeRecord is a "nonlocal edge record": an edge whose endpoints have
// been translated to their cluster labels, shipped to the owner of Src.
type edgeRecord struct {
	Src, Dst uint64
	Weight   int64
}

const nodeRecordSize = 16
const edgeRecordSize = 24

func encodeNodeRecords(recs []nodeRecord) []byte {
	buf := make([]byte, len(recs)*nodeRecordSize)
	for i, r := range recs {
		off := i * nodeRecordSize
		binary.LittleEndian.PutUint64(buf[off:], r.Cluster)
		binary.LittleEndian.PutUint64(buf[off+8:], uint64(r.Weight))
	}
	return buf
}

func decodeNodeRecords(buf []byte) []nodeRecord {
	n := len(buf) / nodeRecordSize
	recs := make([]nodeRecord, n)
	for i := range recs {
		off := i * nodeRecordSize
		recs[i] = nodeRecord{
			Cluster: binary.LittleEndian.Uint64(buf[off:]),
			Weight:  int64(binary.LittleEndian.Uint64(buf[off+8:])),
		}
	}
	return recs
}

func encodeEdgeRecords(recs []edgeRecord) []byte {
	buf := make([]byte, len(recs)*edgeRecordSize)
	for i, r := range recs {
		off := i * edgeRecordSize
		binary.LittleEndian.PutUint64(buf[off:], r.Src)
		binary.LittleEndian.PutUint64(buf[off+8:], r.Dst)
		binary.LittleEndian.PutUint64(buf[off+16:], uint64(r.Weight))
	}
	return buf
}

func decodeEdgeRecords(buf []byte) []edgeRecord {
	n := len(buf) / edgeRecordSize
	recs := make([]edgeRecord, n)
	for i := range recs {
		off := i * edgeRecordSize
		recs[i] = edgeRecord{
			Src:    binary.LittleEndian.Uint64(buf[off:]),
			Dst:    binary.LittleEndian.Uint64(buf[off+8:]),
			Weight: int64(binary.LittleEndian.Uint64(buf[off+16:])),
		}
	}
	return recs
}

func encodeU32(vals []uint32) []byte {
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}

func decodeU32(buf []byte) []uint32 {
	vals := make([]uint32, len(buf)/4)
	for i := range vals {
		vals[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return vals
}

func encodeU64(vals []uint64) []byte {
	buf := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
	return buf
}

func decodeU64(buf []byte) []uint64 {
	vals := make([]uint64, len(buf)/8)
	for i := range vals {
		vals[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	return vals
}

// encodeIdxWeightPairs is the wire shape of the sparse ghost-weight sync
// message: {local_index, weight} pairs.
func encodeIdxWeightPairs(idx []uint32, weight []int64) []byte {
	buf := make([]byte, len(idx)*12)
	for i := range idx {
		off := i * 12
		binary.LittleEndian.PutUint32(buf[off:], idx[i])
		binary.LittleEndian.PutUint64(buf[off+4:], uint64(weight[i]))
	}
	return buf
}

func decodeIdxWeightPairs(buf []byte) ([]uint32, []int64) {
	n := len(buf) / 12
	idx := make([]uint32, n)
	weight := make([]int64, n)
	for i := 0; i < n; i++ {
		off := i * 12
		idx[i] = binary.LittleEndian.Uint32(buf[off:])
		weight[i] = int64(binary.LittleEndian.Uint64(buf[off+4:]))
	}
	return idx, weight
}
