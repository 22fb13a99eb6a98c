// bench-hibernation measures heap memory before and after Hibernate() calls
// on a pool of populated order maintenance trees.
//
// Usage:
//
//	go run ./scripts/bench-hibernation --containers 64 --elements 100000 \
//	  --profile-dir profiles/omt-hibernation
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/omt/pkg/omt"
	"github.com/Sumatoshi-tech/omt/pkg/safeconv"
)

func main() {
	containerCount := flag.Int("containers", 64, "Number of containers to build")
	elementCount := flag.Int("elements", 100000, "Elements per container")
	profileDir := flag.String("profile-dir", "", "Directory to write heap profiles (optional)")
	cpuProfile := flag.Bool("cpu-profile", false, "Write CPU profile to profile-dir/cpu.prof")

	flag.Parse()

	if *profileDir != "" {
		if err := os.MkdirAll(*profileDir, 0o755); err != nil {
			log.Fatalf("mkdir profile-dir: %v", err)
		}
	}

	if *cpuProfile {
		if *profileDir == "" {
			log.Fatal("--cpu-profile requires --profile-dir")
		}

		cpuPath := filepath.Join(*profileDir, "cpu.prof")

		cpuFile, cpuErr := os.Create(cpuPath)
		if cpuErr != nil {
			log.Fatalf("create cpu profile: %v", cpuErr)
		}
		defer cpuFile.Close()

		if startErr := pprof.StartCPUProfile(cpuFile); startErr != nil {
			log.Fatalf("start cpu profile: %v", startErr)
		}

		defer pprof.StopCPUProfile()

		log.Printf("CPU profiling enabled -> %s", cpuPath)
	}

	pool := buildPool(*containerCount, *elementCount)

	total := 0
	for _, container := range pool.Containers() {
		total += safeconv.MustUint32ToInt(container.Size())
	}

	log.Printf("built %d containers holding %d elements", *containerCount, total)

	before := heapInUse()
	log.Printf("heap before hibernation: %s", humanize.IBytes(before))

	writeHeapProfile(*profileDir, "heap-before.prof")

	pool.Hibernate()

	after := heapInUse()
	log.Printf("heap after hibernation:  %s", humanize.IBytes(after))

	if before > after {
		log.Printf("reclaimed: %s", humanize.IBytes(before-after))
	}

	writeHeapProfile(*profileDir, "heap-after.prof")

	pool.Boot()

	booted := heapInUse()
	log.Printf("heap after boot:         %s", humanize.IBytes(booted))

	resident := uint64(0)
	for _, container := range pool.Containers() {
		resident += container.MemorySize()
	}

	log.Printf("container footprint:     %s", humanize.IBytes(resident))
}

// buildPool creates containerCount tree-mode containers of elementCount
// sorted values each.
func buildPool(containerCount, elementCount int) *omt.Pool[uint32] {
	pool := omt.NewPool[uint32](0)

	for range containerCount {
		values := make([]uint32, elementCount)
		for i := range values {
			values[i] = uint32(i)
		}

		container := omt.NewFromSortedSlice(values)

		// An interior insert flips the container into its tree
		// representation, the one hibernation applies to.
		if err := container.InsertAt(0, 1); err != nil {
			log.Fatalf("insert: %v", err)
		}

		if err := container.DeleteAt(1); err != nil {
			log.Fatalf("delete: %v", err)
		}

		pool.Add(container)
	}

	return pool
}

func heapInUse() uint64 {
	runtime.GC()

	var stats runtime.MemStats

	runtime.ReadMemStats(&stats)

	return stats.HeapInuse
}

func writeHeapProfile(profileDir, name string) {
	if profileDir == "" {
		return
	}

	path := filepath.Join(profileDir, name)

	file, err := os.Create(path)
	if err != nil {
		log.Fatalf("create heap profile: %v", err)
	}
	defer file.Close()

	runtime.GC()

	if err := pprof.WriteHeapProfile(file); err != nil {
		log.Fatalf("write heap profile: %v", err)
	}

	log.Printf("heap profile -> %s", path)
}
