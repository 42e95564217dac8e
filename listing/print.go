package listing

import (
	"bufio"
	"fmt"
	"io"
	"text/tabwriter"
)

// Print writes lines as a tab-aligned listing.
func Print(out io.Writer, lines []Line, opts Options) error {
	bw := bufio.NewWriter(out)
	tw := tabwriter.NewWriter(bw, 1, 8, 1, '\t', 0)

	inRange := func(addr uint64) bool {
		return len(lines) > 0 && addr >= lines[0].PC && addr <= lines[len(lines)-1].PC
	}

	for _, l := range lines {
		fmt.Fprintf(tw, "%#x:\t", l.PC)
		if opts.ShowBytes {
			fmt.Fprintf(tw, "%x\t", l.Bytes)
		}
		fmt.Fprint(tw, l.Text)

		if opts.ResolveTargets && l.HasTarget {
			fmt.Fprintf(tw, "\t; -> %#x", l.Target)
			if !inRange(l.Target) {
				fmt.Fprint(tw, " (outside)")
			}
		}
		fmt.Fprintln(tw)
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	return bw.Flush()
}

// PrintRegions writes each region under a header naming its range.
func PrintRegions(out io.Writer, regions []Region, opts Options) error {
	for i, r := range regions {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "segment %#x-%#x:\n", r.Start, r.End)
		if err := Print(out, r.Lines, opts); err != nil {
			return err
		}
	}
	return nil
}
