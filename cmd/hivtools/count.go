package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hivevo/hivTools/alleles"
	"github.com/hivevo/hivTools/fai"
	"github.com/hivevo/hivTools/pair"
	"github.com/vertgenlab/gonomics/bed"
	"github.com/vertgenlab/gonomics/chromInfo"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fasta"
	"github.com/vertgenlab/gonomics/interval"
	"github.com/vertgenlab/gonomics/sam"
)

func countUsage(countFlags *flag.FlagSet) {
	fmt.Print(
		"count - tally allele counts per reference position from paired reads\n\n" +
			"Usage:\n" +
			"  hivtools count [options] -i input.bam -r reference.fasta -o counts.tsv\n\n" +
			"Options:\n")
	countFlags.PrintDefaults()
}

func runCount(args []string) {
	var err error
	countFlags := flag.NewFlagSet("count", flag.ExitOnError)

	input := countFlags.String("i", "", "Input BAM file grouped by read name so mates are adjacent.")
	ref := countFlags.String("r", "", "Reference FASTA used for the alignment.")
	faiFile := countFlags.String("fai", "", "FASTA index for the reference. Overrides -r for length lookup.")
	chrom := countFlags.String("chrom", "", "Count only pairs mapped to this reference. Defaults to the first reference listed.")
	output := countFlags.String("o", "stdout", "Output TSV file with allele counts.")
	insOutput := countFlags.String("ins", "", "Output TSV file with insertion counts.")
	bedFile := countFlags.String("b", "", "BED file restricting counting to the listed regions.")
	qualMin := countFlags.Int("minBaseQuality", 30, "Minimum base quality for a matched base to count.")
	qualCutoff := countFlags.Int("minTrimQuality", 20, "Base quality threshold for edge trimming.")
	minMatchLen := countFlags.Int("minMatchLen", 30, "Minimum match block length to anchor an edge trim.")
	trimPad := countFlags.Int("trimPad", 3, "Extra bases removed beyond each trimmed edge.")
	readLenMin := countFlags.Int("minReadLen", 50, "Discard pairs when a trimmed read is shorter than this.")
	overhangTrim := countFlags.Int("overhangTrim", 5, "Bases to stay short of the mate-implied insert boundary.")
	mainBlock := countFlags.Bool("mainBlock", false, "Keep only the longest high quality block of each read instead of trimming edges.")
	trimEdges := countFlags.Bool("trimCigarEdges", false, "Trim short match blocks and indels off read edges before quality trimming.")
	noOverhang := countFlags.Bool("noOverhangTrim", false, "Disable cross-overhang clipping.")
	maxPairs := countFlags.Int("maxPairs", 0, "Stop after this many pairs. 0 processes everything.")
	debug := countFlags.Bool("debug", false, "Panic on inconsistent pairs instead of discarding them.")

	err = countFlags.Parse(args)
	exception.PanicOnErr(err)
	countFlags.Usage = func() { countUsage(countFlags) }

	if *input == "" || (*ref == "" && *faiFile == "") {
		countFlags.Usage()
		errExit("\nERROR: must have inputs for -i and one of -r or -fai")
	}

	cfg := pair.DefaultConfig()
	cfg.MinMatchLen = *minMatchLen
	cfg.TrimPad = *trimPad
	cfg.QualCutoff = *qualCutoff
	cfg.ReadLenMin = *readLenMin
	cfg.CrossOverhangTrim = *overhangTrim
	cfg.TrimCigarEdges = *trimEdges
	cfg.CrossOverhang = !*noOverhang
	cfg.Debug = *debug
	if *mainBlock {
		cfg.Quality = pair.QualityMainBlock
	}

	name, refLen := resolveRef(*faiFile, *ref, *chrom)
	cfg.RefLen = refLen
	err = cfg.Validate()
	if err != nil {
		errExit(fmt.Sprintf("\nERROR: %s", err))
	}

	ccfg := alleles.Config{QualMin: *qualMin, MaxPairs: *maxPairs, Chrom: name}
	if *bedFile != "" {
		var selectRegions []interval.Interval
		beds := bed.Read(*bedFile)
		for i := range beds {
			selectRegions = append(selectRegions, beds[i])
		}
		ccfg.Targets = interval.BuildTree(selectRegions)
	}

	reads, header := sam.GoReadToChan(*input)
	if len(header.Metadata.SortOrder) > 0 && header.Metadata.SortOrder[0] == sam.Coordinate {
		log.Fatal("ERROR: input must be grouped by read name, not coordinate sorted")
	}
	if !checkChr(name, header.Chroms) {
		log.Fatalf("ERROR: reference %s not present in bam header\n", name)
	}

	table, stats := alleles.CountPairs(pair.GoPairChan(reads), refLen, cfg, ccfg)
	table.WriteCounts(*output)
	if *insOutput != "" {
		table.WriteInsertions(*insOutput)
	}
	fmt.Print(stats.Report())
}

func checkChr(chr string, list []chromInfo.ChromInfo) bool {
	for i := range list {
		if list[i].Name == chr {
			return true
		}
	}
	return false
}

// resolveRef picks the reference to count against and returns its name and
// length. A fasta index wins over parsing the fasta itself.
func resolveRef(faiFile, refFile, chrom string) (string, int) {
	if faiFile != "" {
		idx := fai.ReadIndex(faiFile)
		if chrom == "" {
			names := idx.Names()
			if len(names) == 0 {
				log.Fatalf("ERROR: no references in %s\n", faiFile)
			}
			chrom = names[0]
		}
		return chrom, idx.Size(chrom)
	}
	records := fasta.Read(refFile)
	if len(records) == 0 {
		log.Fatalf("ERROR: no sequences in %s\n", refFile)
	}
	if chrom == "" {
		return records[0].Name, len(records[0].Seq)
	}
	for i := range records {
		if records[i].Name == chrom {
			return chrom, len(records[i].Seq)
		}
	}
	log.Fatalf("ERROR: reference %s not found in %s\n", chrom, refFile)
	return "", 0
}
