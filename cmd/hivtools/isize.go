package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hivevo/hivTools/isize"
	"github.com/hivevo/hivTools/pair"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/sam"
)

func isizeUsage(isizeFlags *flag.FlagSet) {
	fmt.Print(
		"isize - summarize the insert size distribution of a library\n\n" +
			"Usage:\n" +
			"  hivtools isize [options] -i input.bam\n\n" +
			"Options:\n")
	isizeFlags.PrintDefaults()
}

func runIsize(args []string) {
	var err error
	isizeFlags := flag.NewFlagSet("isize", flag.ExitOnError)

	input := isizeFlags.String("i", "", "Input BAM file grouped by read name so mates are adjacent.")
	output := isizeFlags.String("o", "", "Output file with one insert size per line.")
	fracBelow := isizeFlags.Int("fracBelow", 0, "Also report the fraction of inserts below this size. 0 disables.")
	plot := isizeFlags.Bool("plot", false, "Render an ascii histogram of the distribution.")
	binWidth := isizeFlags.Int("binWidth", 10, "Histogram bin width in bases.")
	plotHeight := isizeFlags.Int("plotHeight", 10, "Histogram height in rows.")

	err = isizeFlags.Parse(args)
	exception.PanicOnErr(err)
	isizeFlags.Usage = func() { isizeUsage(isizeFlags) }

	if *input == "" {
		isizeFlags.Usage()
		errExit("\nERROR: must have input for -i")
	}

	reads, header := sam.GoReadToChan(*input)
	if len(header.Metadata.SortOrder) > 0 && header.Metadata.SortOrder[0] == sam.Coordinate {
		log.Fatal("ERROR: input must be grouped by read name, not coordinate sorted")
	}

	var col isize.Collector
	for p := range pair.GoPairChan(reads) {
		col.Add(&p)
	}

	if *output != "" {
		col.Write(*output)
	}
	fmt.Print(col.Summarize().Report())
	if *fracBelow > 0 {
		fmt.Printf("Fraction Below %d:\t%.4f\n", *fracBelow, col.FracBelow(*fracBelow))
	}
	if *plot {
		fmt.Println(col.Plot(*binWidth, *plotHeight))
	}
}
