package alleles

import (
	"fmt"

	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

func (t *Table) alleleCount(pos int, b dna.Base) int {
	var total int
	for o := range t.Counts[pos] {
		total += t.Counts[pos][o][b]
	}
	return total
}

// MajorAllele returns the most frequent allele at pos and its share of
// coverage. Ties resolve to the earlier base in A, C, G, T, gap, N order.
// Zero coverage reports N with frequency 0.
func (t *Table) MajorAllele(pos int) (dna.Base, float64) {
	cov := t.Coverage(pos)
	if cov == 0 {
		return dna.N, 0
	}
	best := countedBases[0]
	bestCount := t.alleleCount(pos, best)
	for _, b := range countedBases[1:] {
		if n := t.alleleCount(pos, b); n > bestCount {
			best, bestCount = b, n
		}
	}
	return best, float64(bestCount) / float64(cov)
}

// MinorAllele returns the most frequent allele at pos other than the major
// allele, with its share of coverage. Zero coverage reports N with frequency 0.
func (t *Table) MinorAllele(pos int) (dna.Base, float64) {
	cov := t.Coverage(pos)
	if cov == 0 {
		return dna.N, 0
	}
	major, _ := t.MajorAllele(pos)
	best, bestCount := dna.N, -1
	for _, b := range countedBases {
		if b == major {
			continue
		}
		if n := t.alleleCount(pos, b); n > bestCount {
			best, bestCount = b, n
		}
	}
	return best, float64(bestCount) / float64(cov)
}

// Consensus calls the major allele at every position. Zero-coverage positions
// come out as N, deletions as gaps.
func (t *Table) Consensus() []dna.Base {
	answer := make([]dna.Base, len(t.Counts))
	for pos := range answer {
		answer[pos], _ = t.MajorAllele(pos)
	}
	return answer
}

// WriteAlleleFreqs writes per-position major and minor allele calls with
// their frequencies as tab-separated rows. The minor allele frequency is the
// quantity tracked across timepoints, so it gets its own file rather than
// being derived from the raw counts downstream.
func (t *Table) WriteAlleleFreqs(filename string) {
	out := fileio.EasyCreate(filename)
	fmt.Fprintf(out, "pos\tcoverage\tmajor\tmajorFreq\tminor\tminorFreq\n")
	for pos := range t.Counts {
		major, majorFreq := t.MajorAllele(pos)
		minor, minorFreq := t.MinorAllele(pos)
		fmt.Fprintf(out, "%d\t%d\t%s\t%.4f\t%s\t%.4f\n", pos, t.Coverage(pos),
			dna.BaseToString(major), majorFreq, dna.BaseToString(minor), minorFreq)
	}
	err := out.Close()
	exception.PanicOnErr(err)
}

// Depths returns per-position coverage, ready for plotting or summary
// statistics.
func (t *Table) Depths() []float64 {
	answer := make([]float64, len(t.Counts))
	for pos := range answer {
		answer[pos] = float64(t.Coverage(pos))
	}
	return answer
}

// CoverageStats summarizes depth across the reference. PoissonZero is the
// zero-coverage fraction a Poisson with the observed mean depth would
// predict; an observed ZeroFrac far above it points at amplification dropout
// rather than thin sequencing.
type CoverageStats struct {
	Mean        float64
	StdDev      float64
	Median      float64
	ZeroFrac    float64
	PoissonZero float64
}

// CoverageStats computes depth summary statistics over the whole table.
func (t *Table) CoverageStats() CoverageStats {
	var s CoverageStats
	depth := t.Depths()
	if len(depth) == 0 {
		return s
	}
	var zero int
	for _, d := range depth {
		if d == 0 {
			zero++
		}
	}
	s.Mean = stat.Mean(depth, nil)
	s.StdDev = stat.StdDev(depth, nil)
	sorted := make([]float64, len(depth))
	copy(sorted, depth)
	slices.Sort(sorted)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.ZeroFrac = float64(zero) / float64(len(depth))
	s.PoissonZero = distuv.Poisson{Lambda: s.Mean}.Prob(0)
	return s
}
