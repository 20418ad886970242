package operation

import (
	"fmt"
	"math/big"
)

const (

	// codeStateUpdate keys verified state updates by range start
	codeStateUpdate = 1

	// codeCheckpoint keys the single verified-position checkpoint
	codeCheckpoint = 2
)

func makePrefix(code byte, keys ...interface{}) []byte {
	prefix := make([]byte, 1)
	prefix[0] = code
	for _, key := range keys {
		prefix = append(prefix, b(key)...)
	}
	return prefix
}

// b encodes a key part. Range starts are length-prefixed big-endian, which
// keeps lexicographic key order aligned with numeric order for starts up to
// 255 bytes wide.
func b(v interface{}) []byte {
	switch i := v.(type) {
	case *big.Int:
		part := i.Bytes()
		out := make([]byte, 0, len(part)+1)
		out = append(out, byte(len(part)))
		return append(out, part...)
	default:
		panic(fmt.Sprintf("unsupported type to convert (%T)", v))
	}
}
