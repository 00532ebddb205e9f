package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/guptarohit/asciigraph"
	"github.com/hivevo/hivTools/alleles"
	"github.com/hivevo/hivTools/pair"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"github.com/vertgenlab/gonomics/sam"
)

func consensusUsage(consensusFlags *flag.FlagSet) {
	fmt.Print(
		"consensus - call a consensus sequence from per-position allele counts\n\n" +
			"Usage:\n" +
			"  hivtools consensus [options] -i input.bam -r reference.fasta -o consensus.fasta\n\n" +
			"Options:\n")
	consensusFlags.PrintDefaults()
}

func runConsensus(args []string) {
	var err error
	consensusFlags := flag.NewFlagSet("consensus", flag.ExitOnError)

	input := consensusFlags.String("i", "", "Input BAM file grouped by read name so mates are adjacent.")
	ref := consensusFlags.String("r", "", "Reference FASTA used for the alignment.")
	faiFile := consensusFlags.String("fai", "", "FASTA index for the reference. Overrides -r for length lookup.")
	chrom := consensusFlags.String("chrom", "", "Call only from pairs mapped to this reference. Defaults to the first reference listed.")
	output := consensusFlags.String("o", "stdout", "Output FASTA file with the consensus sequence.")
	minorOutput := consensusFlags.String("minor", "", "Output TSV file with per-position major and minor allele frequencies.")
	qualMin := consensusFlags.Int("minBaseQuality", 30, "Minimum base quality for a matched base to count.")
	maxPairs := consensusFlags.Int("maxPairs", 0, "Stop after this many pairs. 0 processes everything.")
	plotCoverage := consensusFlags.Bool("plotCoverage", false, "Render an ascii coverage plot to stdout.")

	err = consensusFlags.Parse(args)
	exception.PanicOnErr(err)
	consensusFlags.Usage = func() { consensusUsage(consensusFlags) }

	if *input == "" || (*ref == "" && *faiFile == "") {
		consensusFlags.Usage()
		errExit("\nERROR: must have inputs for -i and one of -r or -fai")
	}

	name, refLen := resolveRef(*faiFile, *ref, *chrom)
	cfg := pair.DefaultConfig()
	cfg.RefLen = refLen

	reads, header := sam.GoReadToChan(*input)
	if len(header.Metadata.SortOrder) > 0 && header.Metadata.SortOrder[0] == sam.Coordinate {
		log.Fatal("ERROR: input must be grouped by read name, not coordinate sorted")
	}
	if !checkChr(name, header.Chroms) {
		log.Fatalf("ERROR: reference %s not present in bam header\n", name)
	}

	ccfg := alleles.Config{QualMin: *qualMin, MaxPairs: *maxPairs, Chrom: name}
	table, stats := alleles.CountPairs(pair.GoPairChan(reads), refLen, cfg, ccfg)
	writeFasta(*output, name+"_consensus", table.Consensus())
	if *minorOutput != "" {
		table.WriteAlleleFreqs(*minorOutput)
	}

	fmt.Print(stats.Report())
	cs := table.CoverageStats()
	fmt.Printf("Mean Coverage:\t%.1f\n", cs.Mean)
	fmt.Printf("Coverage StdDev:\t%.1f\n", cs.StdDev)
	fmt.Printf("Median Coverage:\t%.0f\n", cs.Median)
	fmt.Printf("Zero Coverage Fraction:\t%.4f (%.4f expected under Poisson)\n", cs.ZeroFrac, cs.PoissonZero)
	if *plotCoverage {
		fmt.Println(asciigraph.Plot(downsample(table.Depths(), 80), asciigraph.Height(10), asciigraph.Precision(0)))
	}
}

// writeFasta writes one named sequence wrapped at 50 bases per line.
func writeFasta(filename, name string, seq []dna.Base) {
	out := fileio.EasyCreate(filename)
	fmt.Fprintf(out, ">%s\n", name)
	for i := 0; i < len(seq); i += 50 {
		end := i + 50
		if end > len(seq) {
			end = len(seq)
		}
		fmt.Fprintf(out, "%s\n", dna.BasesToString(seq[i:end]))
	}
	err := out.Close()
	exception.PanicOnErr(err)
}

// downsample averages depths into at most width bins so the plot fits a terminal.
func downsample(data []float64, width int) []float64 {
	if len(data) <= width {
		return data
	}
	binSize := (len(data) + width - 1) / width
	var binned []float64
	for i := 0; i < len(data); i += binSize {
		end := i + binSize
		if end > len(data) {
			end = len(data)
		}
		var sum float64
		for _, v := range data[i:end] {
			sum += v
		}
		binned = append(binned, sum/float64(end-i))
	}
	return binned
}
