// Package isize measures the insert-size distribution of a paired library.
package isize

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/hivevo/hivTools/pair"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"github.com/vertgenlab/gonomics/numbers"
	"github.com/vertgenlab/gonomics/sam"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// Collector gathers insert sizes as reported by the aligner, before any
// trimming touches the reads.
type Collector struct {
	sizes   []float64
	skipped int
}

// Add records the pair's insert size. Pairs with an unmapped read, an
// improper pairing flag, or a non-positive insert size are skipped. Reports
// whether the pair was recorded.
func (c *Collector) Add(p *pair.Pair) bool {
	if sam.IsUnmapped(p.Reads[0]) || sam.IsUnmapped(p.Reads[1]) {
		c.skipped++
		return false
	}
	if p.Reads[0].Flag&2 == 0 || p.Reads[1].Flag&2 == 0 {
		c.skipped++
		return false
	}
	isize := int(p.Fwd().TLen)
	if isize <= 0 {
		c.skipped++
		return false
	}
	c.sizes = append(c.sizes, float64(isize))
	return true
}

// Summary holds distribution statistics for the collected insert sizes.
type Summary struct {
	Count    int
	Skipped  int
	Mean     float64
	StdDev   float64
	Median   float64
	Q1, Q3   float64
	Min, Max float64
}

// Summarize computes distribution statistics over everything collected so far.
func (c *Collector) Summarize() Summary {
	var s Summary
	s.Count = len(c.sizes)
	s.Skipped = c.skipped
	if s.Count == 0 {
		return s
	}
	sorted := make([]float64, len(c.sizes))
	copy(sorted, c.sizes)
	slices.Sort(sorted)
	s.Mean = stat.Mean(sorted, nil)
	s.StdDev = stat.StdDev(sorted, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.Q1 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	s.Q3 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	return s
}

// Report renders the summary as tab-separated lines for the run log.
func (s Summary) Report() string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "Pairs Measured:\t%d\n", s.Count)
	fmt.Fprintf(b, "Pairs Skipped:\t%d\n", s.Skipped)
	fmt.Fprintf(b, "Mean:\t%.1f\n", s.Mean)
	fmt.Fprintf(b, "StdDev:\t%.1f\n", s.StdDev)
	fmt.Fprintf(b, "Median:\t%.0f\n", s.Median)
	fmt.Fprintf(b, "Quartiles:\t%.0f-%.0f\n", s.Q1, s.Q3)
	fmt.Fprintf(b, "Range:\t%.0f-%.0f\n", s.Min, s.Max)
	return b.String()
}

// FracBelow is the fraction of collected insert sizes strictly below limit.
// Inserts shorter than the read length mean the pair sequenced through into
// adapter, so this fraction predicts how much cross-overhang clipping will cut.
func (c *Collector) FracBelow(limit int) float64 {
	if len(c.sizes) == 0 {
		return 0
	}
	var n int
	for _, v := range c.sizes {
		if int(v) < limit {
			n++
		}
	}
	return float64(n) / float64(len(c.sizes))
}

// Histogram bins the collected sizes by binWidth starting at zero.
func (c *Collector) Histogram(binWidth int) []float64 {
	if binWidth <= 0 || len(c.sizes) == 0 {
		return nil
	}
	var maxSize int
	for _, v := range c.sizes {
		maxSize = numbers.Max(maxSize, int(v))
	}
	bins := make([]float64, maxSize/binWidth+1)
	for _, v := range c.sizes {
		bins[int(v)/binWidth]++
	}
	return bins
}

// Plot renders the size histogram as an ascii chart for the run log.
func (c *Collector) Plot(binWidth, height int) string {
	bins := c.Histogram(binWidth)
	if len(bins) == 0 {
		return ""
	}
	return asciigraph.Plot(bins, asciigraph.Height(height), asciigraph.Precision(0))
}

// Write saves the raw sizes one per line for plotting elsewhere.
func (c *Collector) Write(filename string) {
	out := fileio.EasyCreate(filename)
	for _, v := range c.sizes {
		fmt.Fprintf(out, "%d\n", int(v))
	}
	err := out.Close()
	exception.PanicOnErr(err)
}
