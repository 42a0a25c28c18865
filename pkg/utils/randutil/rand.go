package randutil

import (
	"math/rand"
	"sync"
	"time"
)

const alphanum = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var (
	mu  sync.Mutex
	src = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Int63n returns a non-negative pseudo-random int64.
func Int63n() int64 {
	mu.Lock()
	defer mu.Unlock()
	return src.Int63()
}

// Uint64n returns a pseudo-random uint64.
func Uint64n() uint64 {
	mu.Lock()
	defer mu.Unlock()
	return src.Uint64()
}

// Float64n returns a pseudo-random float64 uniformly distributed in [0, n).
func Float64n(n float64) float64 {
	mu.Lock()
	defer mu.Unlock()
	return src.Float64() * n
}

// StringN returns a pseudo-random alphanumeric string of length n.
func StringN(n int) string {
	mu.Lock()
	defer mu.Unlock()
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanum[src.Intn(len(alphanum))]
	}
	return string(b)
}
