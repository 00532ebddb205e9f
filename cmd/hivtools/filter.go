package main

import (
	"flag"
	"fmt"

	"github.com/hivevo/hivTools/filter"
	"github.com/hivevo/hivTools/pair"
	"github.com/vertgenlab/gonomics/exception"
)

func filterUsage(filterFlags *flag.FlagSet) {
	fmt.Print(
		"filter - trim read pairs and write survivors to bam\n\n" +
			"Usage:\n" +
			"  hivtools filter [options] -i input.bam -o output.bam\n\n" +
			"Options:\n")
	filterFlags.PrintDefaults()
}

func runFilter(args []string) {
	var err error
	filterFlags := flag.NewFlagSet("filter", flag.ExitOnError)

	input := filterFlags.String("i", "", "Input BAM file grouped by read name so mates are adjacent.")
	output := filterFlags.String("o", "", "Output BAM file with trimmed pairs.")
	qualCutoff := filterFlags.Int("minTrimQuality", 20, "Base quality threshold for edge trimming.")
	minMatchLen := filterFlags.Int("minMatchLen", 30, "Minimum match block length to anchor an edge trim.")
	trimPad := filterFlags.Int("trimPad", 3, "Extra bases removed beyond each trimmed edge.")
	readLenMin := filterFlags.Int("minReadLen", 50, "Discard pairs when a trimmed read is shorter than this.")
	overhangTrim := filterFlags.Int("overhangTrim", 5, "Bases to stay short of the mate-implied insert boundary.")
	mainBlock := filterFlags.Bool("mainBlock", false, "Keep only the longest high quality block of each read instead of trimming edges.")
	trimEdges := filterFlags.Bool("trimCigarEdges", false, "Trim short match blocks and indels off read edges before quality trimming.")
	noOverhang := filterFlags.Bool("noOverhangTrim", false, "Disable cross-overhang clipping.")
	debug := filterFlags.Bool("debug", false, "Panic on inconsistent pairs instead of discarding them.")
	verbose := filterFlags.Int("verbose", 0, "Print progress every 100k pairs when > 0.")

	err = filterFlags.Parse(args)
	exception.PanicOnErr(err)
	filterFlags.Usage = func() { filterUsage(filterFlags) }

	if *input == "" || *output == "" {
		filterFlags.Usage()
		errExit("\nERROR: must have inputs for -i and -o")
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
	err = cfg.Validate()
	if err != nil {
		errExit(fmt.Sprintf("\nERROR: %s", err))
	}

	stats := filter.Pairs(*input, *output, cfg, *verbose)
	fmt.Print(stats.Report())
}
