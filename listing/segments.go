package listing

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/ladisasm/icache"
	"github.com/sarchlab/ladisasm/loader"
	"github.com/sarchlab/ladisasm/logflags"
)

// Region is the listing of one code segment.
type Region struct {
	Start uint64
	End   uint64
	Lines []Line
}

// DisassembleSegments disassembles every code segment of prog. Segments are
// processed concurrently, at most opts.Workers at a time, each through its
// own instruction cache. Regions are returned in segment order.
func DisassembleSegments(ctx context.Context, prog *loader.Program, opts Options) ([]Region, error) {
	if err := opts.Cache.Validate(); err != nil {
		return nil, fmt.Errorf("invalid icache config: %w", err)
	}

	dc, err := newDecodeCache(opts.DecodeCacheSize)
	if err != nil {
		return nil, err
	}

	segs := prog.CodeSegments()
	regions := make([]Region, len(segs))

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, seg := range segs {
		g.Go(func() error {
			cache := icache.New(opts.Cache, prog)

			lines, err := disassemble(ctx, cache, seg.VirtAddr, seg.End(), opts, dc)
			if err != nil {
				return fmt.Errorf("segment %#x: %w", seg.VirtAddr, err)
			}

			stats := cache.Stats()
			logflags.CacheLogger().WithFields(logrus.Fields{
				"segment": fmt.Sprintf("%#x", seg.VirtAddr),
				"hits":    stats.Hits,
				"misses":  stats.Misses,
			}).Debugf("hit rate %.2f", stats.HitRate())

			regions[i] = Region{Start: seg.VirtAddr, End: seg.End(), Lines: lines}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logflags.ListingLogger().Debugf("disassembled %d segments, %d distinct words", len(regions), dc.len())
	return regions, nil
}
