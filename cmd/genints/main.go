// Command genints writes a test input for modecount: N random values in
// [0, max), one per line.
//
//	genints -n 100000000 -o measurements.txt
//
// The mode of the generated data is logged so that a later modecount run can
// be checked against it.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"modecount/internal/gen"
	"modecount/internal/histogram"
	"modecount/internal/report"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fatalf("genints: %v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("genints", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		opts gen.Options
		out  string
	)
	fs.IntVar(&opts.Lines, "n", 1000, "Number of lines to write")
	fs.Uint64Var(&opts.Seed, "seed", uint64(time.Now().UnixNano()), "Random seed; the same seed gives the same file")
	fs.IntVar(&opts.Max, "max", 1000, "Exclusive upper bound of the values (at most 1000)")
	fs.IntVar(&opts.PadWidth, "pad", 0, "Left-pad values with '0' to this many digits")
	fs.BoolVar(&opts.OmitFinalNewline, "no-final-newline", false, "Drop the terminator after the last value")
	fs.StringVar(&out, "o", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	start := time.Now()
	var (
		h   *histogram.Histogram
		err error
	)
	if out == "" {
		h, err = gen.Write(stdout, opts)
	} else {
		h, err = writeFile(out, opts)
	}
	if err != nil {
		return err
	}

	log.Printf("genints: lines=%d seed=%d elapsed=%s expected=%q",
		opts.Lines, opts.Seed, time.Since(start).Truncate(time.Millisecond), report.Line(h.Mode()))
	return nil
}

func writeFile(path string, opts gen.Options) (*histogram.Histogram, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	h, err := gen.Write(f, opts)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return h, err
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
