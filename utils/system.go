package utils

import (
	"fmt"
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case complex128:
		return math.IsNaN(real(v)) || math.IsNaN(imag(v))
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) {
				return true
			}
		}
	case []complex128:
		for _, z := range v {
			if IsNan(z) {
				return true
			}
		}
	case [4]float64:
		return IsNan(v[:])
	case mgl64.Vec3:
		return IsNan(v[:])
	case []mgl64.Vec3:
		for _, p := range v {
			if IsNan(p[:]) {
				return true
			}
		}
	}
	return false
}
