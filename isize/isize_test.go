package isize

import (
	"math"
	"strings"
	"testing"

	"github.com/hivevo/hivTools/pair"
	"github.com/vertgenlab/gonomics/cigar"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/sam"
)

func sizedPair(fwdFlag, revFlag uint16, tlen int32) pair.Pair {
	var fwd, rev sam.Sam
	fwd.QName, rev.QName = "p", "p"
	fwd.Flag, rev.Flag = fwdFlag, revFlag
	fwd.Pos, rev.Pos = 100, 100+uint32(tlen)-50
	fwd.Cigar = cigar.FromString("50M")
	rev.Cigar = cigar.FromString("50M")
	fwd.Seq = make([]dna.Base, 50)
	rev.Seq = make([]dna.Base, 50)
	fwd.Qual = strings.Repeat("I", 50)
	rev.Qual = strings.Repeat("I", 50)
	fwd.TLen, rev.TLen = tlen, -tlen
	return pair.Pair{Reads: [2]sam.Sam{fwd, rev}}
}

func TestCollector(t *testing.T) {
	var col Collector
	for _, size := range []int32{100, 200, 300, 400} {
		p := sizedPair(99, 147, size)
		if !col.Add(&p) {
			t.Error("problem with collecting insert size", size)
		}
	}

	// unmapped, improper, and sizeless pairs are skipped
	p := sizedPair(99|4, 147, 100)
	if col.Add(&p) {
		t.Error("problem with collector, unmapped pair should be skipped")
	}
	p = sizedPair(97, 145, 100)
	if col.Add(&p) {
		t.Error("problem with collector, improper pair should be skipped")
	}
	p = sizedPair(99, 147, 0)
	if col.Add(&p) {
		t.Error("problem with collector, zero insert size should be skipped")
	}

	s := col.Summarize()
	if s.Count != 4 || s.Skipped != 3 {
		t.Fatal("problem with summary counts", s.Count, s.Skipped)
	}
	if s.Mean != 250 || math.Abs(s.StdDev-math.Sqrt(50000.0/3.0)) > 1e-9 {
		t.Error("problem with summary moments", s.Mean, s.StdDev)
	}
	if s.Median != 200 || s.Q1 != 100 || s.Q3 != 300 {
		t.Error("problem with summary quantiles", s.Median, s.Q1, s.Q3)
	}
	if s.Min != 100 || s.Max != 400 {
		t.Error("problem with summary range", s.Min, s.Max)
	}

	bins := col.Histogram(100)
	if len(bins) != 5 {
		t.Fatal("problem with histogram bin count", len(bins))
	}
	if bins[0] != 0 || bins[1] != 1 || bins[2] != 1 || bins[3] != 1 || bins[4] != 1 {
		t.Error("problem with histogram bins", bins)
	}

	if col.FracBelow(250) != 0.5 || col.FracBelow(100) != 0 || col.FracBelow(500) != 1 {
		t.Error("problem with fraction below threshold",
			col.FracBelow(250), col.FracBelow(100), col.FracBelow(500))
	}
}

func TestEmptyCollector(t *testing.T) {
	var col Collector
	s := col.Summarize()
	if s.Count != 0 || s.Mean != 0 {
		t.Error("problem with empty summary", s.Count, s.Mean)
	}
	if col.Histogram(10) != nil {
		t.Error("problem with empty histogram")
	}
	if col.Plot(10, 5) != "" {
		t.Error("problem with empty plot")
	}
	if col.FracBelow(100) != 0 {
		t.Error("problem with empty fraction below threshold")
	}
}
