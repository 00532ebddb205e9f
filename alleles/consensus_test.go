package alleles

import (
	"math"
	"testing"

	"github.com/vertgenlab/gonomics/dna"
)

func buildTable() *Table {
	table := NewTable(4)
	table.Counts[0][FwdRead1][dna.A] = 5
	table.Counts[0][RevRead2][dna.C] = 2
	table.Counts[2][FwdRead1][dna.Gap] = 3
	table.Counts[2][FwdRead2][dna.A] = 1
	table.Counts[3][FwdRead2][dna.T] = 2
	table.Counts[3][RevRead1][dna.T] = 2
	return table
}

func TestMajorMinorAllele(t *testing.T) {
	table := buildTable()

	base, freq := table.MajorAllele(0)
	if base != dna.A || math.Abs(freq-5.0/7.0) > 1e-9 {
		t.Error("problem with major allele", dna.BaseToString(base), freq)
	}
	base, freq = table.MinorAllele(0)
	if base != dna.C || math.Abs(freq-2.0/7.0) > 1e-9 {
		t.Error("problem with minor allele", dna.BaseToString(base), freq)
	}

	base, freq = table.MajorAllele(1)
	if base != dna.N || freq != 0 {
		t.Error("problem with major allele at uncovered position", dna.BaseToString(base), freq)
	}
}

func TestConsensus(t *testing.T) {
	table := buildTable()
	cons := table.Consensus()
	if dna.BasesToString(cons) != "AN-T" {
		t.Error("problem with consensus", dna.BasesToString(cons))
	}
}

func TestCoverageStats(t *testing.T) {
	table := buildTable()
	depths := table.Depths()
	if len(depths) != 4 || depths[0] != 7 || depths[1] != 0 || depths[2] != 4 || depths[3] != 4 {
		t.Fatal("problem with depths", depths)
	}

	cs := table.CoverageStats()
	if math.Abs(cs.Mean-3.75) > 1e-9 {
		t.Error("problem with mean coverage", cs.Mean)
	}
	if math.Abs(cs.StdDev-math.Sqrt(8.25)) > 1e-9 {
		t.Error("problem with coverage standard deviation", cs.StdDev)
	}
	if cs.Median != 4 {
		t.Error("problem with median coverage", cs.Median)
	}
	if cs.ZeroFrac != 0.25 {
		t.Error("problem with zero coverage fraction", cs.ZeroFrac)
	}
	if math.Abs(cs.PoissonZero-math.Exp(-3.75)) > 1e-12 {
		t.Error("problem with poisson zero fraction", cs.PoissonZero)
	}
}
