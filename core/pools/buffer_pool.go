package pools

import (
	"sync"
	"sync/atomic"
)

// Buffer pool sizes
const (
	SmallBufferSize = 1024      // 1KB for redirects and error responses
	LargeBufferSize = 16 * 1024 // 16KB for pages
)

// maxPooledSize keeps oversized buffers from pinning memory in the pool
const maxPooledSize = 256 * 1024

// BufferPool manages response buffers with two size tiers
type BufferPool struct {
	small sync.Pool
	large sync.Pool

	// Statistics
	smallGets atomic.Uint64
	largeGets atomic.Uint64
	dropped   atomic.Uint64
}

// BufferStats is a snapshot of pool usage
type BufferStats struct {
	SmallGets uint64
	LargeGets uint64
	Dropped   uint64
}

// NewBufferPool creates a new buffer pool
func NewBufferPool() *BufferPool {
	return &BufferPool{
		small: sync.Pool{
			New: func() any {
				buf := make([]byte, 0, SmallBufferSize)
				return &buf
			},
		},
		large: sync.Pool{
			New: func() any {
				buf := make([]byte, 0, LargeBufferSize)
				return &buf
			},
		},
	}
}

// Get acquires an empty buffer sized for estimatedSize bytes
func (bp *BufferPool) Get(estimatedSize int) *[]byte {
	var buf *[]byte
	if estimatedSize <= SmallBufferSize {
		bp.smallGets.Add(1)
		buf = bp.small.Get().(*[]byte)
	} else {
		bp.largeGets.Add(1)
		buf = bp.large.Get().(*[]byte)
	}
	*buf = (*buf)[:0]
	return buf
}

// Put returns a buffer to the pool
func (bp *BufferPool) Put(buf *[]byte) {
	if buf == nil {
		return
	}

	c := cap(*buf)
	switch {
	case c > maxPooledSize:
		bp.dropped.Add(1)
	case c >= LargeBufferSize:
		*buf = (*buf)[:0]
		bp.large.Put(buf)
	default:
		*buf = (*buf)[:0]
		bp.small.Put(buf)
	}
}

// Stats returns pool statistics
func (bp *BufferPool) Stats() BufferStats {
	return BufferStats{
		SmallGets: bp.smallGets.Load(),
		LargeGets: bp.largeGets.Load(),
		Dropped:   bp.dropped.Load(),
	}
}
