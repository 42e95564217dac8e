// Validate decoder allocations - measures allocations per decode and render
package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/sarchlab/ladisasm/insts"
)

func main() {
	samples := []uint32{
		0x00108820, // add zero, ra, r2
		0x28800464, // lw a0, 1(sp)
		0x50001000, // j 0x1010
		0x0040a000, // slliw zero, zero, 8
	}

	decoder := insts.NewDecoder()
	buf := make([]byte, insts.DefaultBufferSize)

	// Warm up
	for i := 0; i < 1000; i++ {
		decoder.Decode(samples[i%len(samples)])
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100000

	for i := 0; i < iterations; i++ {
		for j, w := range samples {
			inst := decoder.Decode(w)
			insts.RenderTo(buf, inst, 0x1000+uint64(j)*insts.InsnLength)
		}
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	total := iterations * len(samples)
	allocations := m2.Mallocs - m1.Mallocs
	allocatedBytes := m2.TotalAlloc - m1.TotalAlloc

	fmt.Printf("Decoder Allocation Results:\n")
	fmt.Printf("===========================\n")
	fmt.Printf("Total decode+render operations: %d\n", total)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Operations per second: %.0f\n", float64(total)/elapsed.Seconds())
	fmt.Printf("Allocations: %d\n", allocations)
	fmt.Printf("Allocated bytes: %d\n", allocatedBytes)
	fmt.Printf("Allocations per operation: %.3f\n", float64(allocations)/float64(total))
	fmt.Printf("Bytes per operation: %.1f\n", float64(allocatedBytes)/float64(total))

	if perOp := float64(allocations) / float64(total); perOp > 4 {
		fmt.Printf("\nWARNING: more than 4 allocations per operation\n")
	}
}
