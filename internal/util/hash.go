// Package util contains internal helpers (hashing, shard selection, padding).
package util

import "fmt"

const (
	fnvOffset64 uint64 = 14695981039346656037
	fnvPrime64  uint64 = 1099511628211
)

// Fnv64a hashes common comparable key types with 64-bit FNV-1a.
// It covers string, []byte, the usual fixed-size byte arrays, every
// int/uint width, uintptr and fmt.Stringer. Shard dispersal depends on
// this hash, so an unsupported key type panics instead of silently
// mapping every key to one shard; such keys need a custom Hasher.
func Fnv64a[K comparable](k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return hashString(v)
	case []byte:
		return hashString(string(v))
	case [16]byte:
		return hashString(string(v[:]))
	case [32]byte:
		return hashString(string(v[:]))
	case [64]byte:
		return hashString(string(v[:]))
	case uint8:
		return hashUint64(uint64(v))
	case uint16:
		return hashUint64(uint64(v))
	case uint32:
		return hashUint64(uint64(v))
	case uint64:
		return hashUint64(v)
	case uint:
		return hashUint64(uint64(v))
	case uintptr:
		return hashUint64(uint64(v))
	case int8:
		return hashUint64(uint64(uint8(v)))
	case int16:
		return hashUint64(uint64(uint16(v)))
	case int32:
		return hashUint64(uint64(uint32(v)))
	case int64:
		return hashUint64(uint64(v))
	case int:
		return hashUint64(uint64(v))
	case fmt.Stringer:
		return hashString(v.String())
	default:
		panic(fmt.Sprintf("util.Fnv64a: unsupported key type %T; provide Options.Hasher", k))
	}
}

func hashString(s string) uint64 {
	h := fnvOffset64
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

// hashUint64 folds the eight little-endian bytes of u without allocating.
func hashUint64(u uint64) uint64 {
	h := fnvOffset64
	for i := 0; i < 8; i++ {
		h ^= u & 0xff
		h *= fnvPrime64
		u >>= 8
	}
	return h
}
