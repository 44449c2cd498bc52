// feedsift-dedup cleans an existing archive file in one pass: records close
// in time whose content similarity crosses the threshold are grouped, and
// only the earliest member of each group is kept.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ken00H/feedsift/internal/batch"
	"github.com/ken00H/feedsift/internal/filter"
	"github.com/ken00H/feedsift/internal/record"
)

func main() {
	var (
		inPath     string
		outPath    string
		reportPath string
		format     string
		threshold  float64
		windowHrs  int
	)
	flag.StringVar(&inPath, "in", "", "Input archive file")
	flag.StringVar(&outPath, "out", "", "Output file for cleaned records (optional)")
	flag.StringVar(&reportPath, "report", "", "Output file for JSON duplicate report (optional)")
	flag.StringVar(&format, "format", "archive", "Record format: lines|archive")
	flag.Float64Var(&threshold, "threshold", 0.85, "Content similarity threshold (0,1]")
	flag.IntVar(&windowHrs, "window", 24, "Date window in hours (0 = ignore dates)")
	flag.Parse()

	if inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: feedsift-dedup -in <file> [-out <file>] [-report <file>]")
		os.Exit(2)
	}
	if !record.Format(format).Valid() {
		fatal(fmt.Errorf("unknown format %q", format))
	}

	f, err := os.Open(inPath)
	if err != nil {
		fatal(err)
	}
	recs, err := record.ReadAll(f, record.Format(format))
	f.Close()
	if err != nil {
		fatal(err)
	}
	if len(recs) == 0 {
		fmt.Println("no records found")
		return
	}

	norm := filter.DefaultOptions()
	norm.StripURLs = true
	norm.StripMentions = true
	norm.FoldArabic = true

	det, err := batch.New(threshold, time.Duration(windowHrs)*time.Hour, norm)
	if err != nil {
		fatal(err)
	}

	cleaned, groups := det.Clean(recs)
	rep := batch.BuildReport(len(recs), cleaned, groups)

	fmt.Printf("records: %d  cleaned: %d  removed: %d  groups: %d\n",
		rep.OriginalCount, rep.CleanedCount, rep.RemovedCount, rep.DuplicateGroups)

	if outPath != "" {
		if err := writeCleaned(outPath, record.Format(format), cleaned); err != nil {
			fatal(err)
		}
		fmt.Printf("cleaned records saved to %s\n", outPath)
	}
	if reportPath != "" {
		if err := rep.WriteFile(reportPath); err != nil {
			fatal(err)
		}
		fmt.Printf("report saved to %s\n", reportPath)
	}
}

func writeCleaned(path string, format record.Format, recs []record.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for i, rec := range recs {
		if err := record.Write(f, format, i+1, rec); err != nil {
			return err
		}
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
