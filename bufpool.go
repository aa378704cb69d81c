package rlp

import "sync"

// scratchSize is the initial capacity of pooled encode buffers.
const scratchSize = 4096

// maxPooledScratch caps the buffers returned to the pool, so that one huge value does
// not pin its buffer for the life of the process.
const maxPooledScratch = 64 * 1024

// scratchPool reuses encode buffers for Writer. This reduces GC pressure by avoiding
// an allocation per written value. We pool *[]byte so Put does not allocate.
var scratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, scratchSize)
		return &b
	},
}

func getScratch() *[]byte {
	return scratchPool.Get().(*[]byte)
}

func putScratch(b *[]byte) {
	if cap(*b) > maxPooledScratch {
		return
	}
	*b = (*b)[:0]
	scratchPool.Put(b)
}
