package services

import (
	"strconv"

	"github.com/minio/highwayhash"
)

var hashKey = []byte("vecsync-content-hash-key-32bytes")

// ContentHash returns a hex HighwayHash-64 of content, used by the ledger
// to detect unchanged documents.
func ContentHash(content string) string {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		// Only possible with a key that is not 32 bytes long.
		panic(err)
	}
	_, _ = h.Write([]byte(content))
	return strconv.FormatUint(h.Sum64(), 16)
}
