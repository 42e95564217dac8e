// Package main provides a profiling wrapper for ladisasm to find hot spots
// in decoding and listing.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/ladisasm/listing"
	"github.com/sarchlab/ladisasm/loader"
)

var (
	raw        = flag.Bool("raw", false, "Treat the input as a flat binary")
	base       = flag.Uint64("base", 0, "Load address for -raw input")
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
	iterations = flag.Int("n", 10, "number of times to list the program")
	workers    = flag.Int("workers", 4, "parallel segment workers")
	noDecode   = flag.Bool("no-decode-cache", false, "Disable the shared decode cache")
	showList   = flag.Bool("print", false, "Print the listing of the last iteration")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	programPath := flag.Arg(0)
	prog, err := load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded: %s\n", programPath)
	fmt.Printf("Code segments: %d\n", len(prog.CodeSegments()))

	opts := listing.DefaultOptions()
	opts.Workers = *workers
	if *noDecode {
		opts.DecodeCacheSize = 0
	}

	start := time.Now()
	var regions []listing.Region
	var lineCount int
	for i := 0; i < *iterations; i++ {
		regions, err = listing.DisassembleSegments(context.Background(), prog, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error disassembling: %v\n", err)
			os.Exit(1)
		}
		lineCount += countLines(regions)
	}
	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	if *showList {
		if err := listing.PrintRegions(os.Stdout, regions, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error printing listing: %v\n", err)
		}
	} else {
		_ = listing.PrintRegions(io.Discard, regions, opts)
	}

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Iterations: %d\n", *iterations)
	fmt.Printf("Instructions listed: %d\n", lineCount)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if lineCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(lineCount)/elapsed.Seconds())
	}
}

func load(path string) (*loader.Program, error) {
	if *raw {
		return loader.LoadRaw(path, *base)
	}
	return loader.Load(path)
}

func countLines(regions []listing.Region) int {
	n := 0
	for _, r := range regions {
		n += len(r.Lines)
	}
	return n
}
