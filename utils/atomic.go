package utils

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// AtomicAddFloat64 accumulates val into *addr with a compare-and-swap loop.
// Hardware-serialized accumulation keeps aliased scatter writes race-free;
// the result is summation-order dependent only at floating-point rounding.
func AtomicAddFloat64(addr *float64, val float64) {
	bits := (*uint64)(unsafe.Pointer(addr))
	for {
		old := atomic.LoadUint64(bits)
		next := math.Float64bits(math.Float64frombits(old) + val)
		if atomic.CompareAndSwapUint64(bits, old, next) {
			return
		}
	}
}
