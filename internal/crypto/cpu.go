package crypto

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Parallelism returns the number of hardware threads available to the process
func Parallelism() int {
	n := runtime.GOMAXPROCS(0)
	if cores := cpuid.CPU.LogicalCores; cores > 0 && cores < n {
		n = cores
	}
	if n < 1 {
		n = 1
	}
	return n
}

// CPUInfo describes the host CPU for the startup banner
type CPUInfo struct {
	Brand        string
	LogicalCores int
	Features     []string // hashing-relevant extensions only
}

// DetectCPU reports the hashing-relevant features of the host CPU.
// sha256-simd and blake3 pick their fast paths from the same flags.
func DetectCPU() CPUInfo {
	info := CPUInfo{
		Brand:        cpuid.CPU.BrandName,
		LogicalCores: cpuid.CPU.LogicalCores,
	}
	if info.Brand == "" {
		info.Brand = runtime.GOARCH
	}
	for _, f := range []struct {
		id   cpuid.FeatureID
		name string
	}{
		{cpuid.SHA, "SHA"},
		{cpuid.AVX2, "AVX2"},
		{cpuid.AVX512F, "AVX512F"},
		{cpuid.SSE4, "SSE4.1"},
		{cpuid.ASIMD, "ASIMD"},
	} {
		if cpuid.CPU.Supports(f.id) {
			info.Features = append(info.Features, f.name)
		}
	}
	return info
}
