package scope

import (
	"hash/fnv"
)

// hashBits is the width of the hash used to route the binary tree; bit 0
// is tested first.
const hashBits = 64

func hashKey(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return h.Sum64()
}

func bitAt(h uint64, i int) uint64 {
	return (h >> uint(i)) & 1
}
