package main

import (
	"log"
	"os"
	"strings"

	"flag"

	"github.com/nvMcJohn/gfxtrace"
)

type args struct {
	catalogPath *string
	outputDir   *string

	strictInference *bool
	warnManualState  *bool
}

func readArgs() *args {
	a := &args{
		catalogPath: flag.String("catalog", "", "Path to the declarative entry-point catalog (YAML)"),
		outputDir:   flag.String("out-dir", ".", "Directory to write functionhooks.gen.h / functionhooks.gen.cpp into"),

		strictInference: flag.Bool("strict-pointer-inference", false, "Fail generation instead of deferring when pointer-length inference has no rule match"),
		warnManualState: flag.Bool("warn-manual-state-no-restore", true, "Warn when a manual_state entry is not also manual_restore"),
	}
	flag.Parse()
	return a
}

func main() {
	a := readArgs()

	if *a.catalogPath == "" {
		log.Fatal("Catalog not informed")
	}

	opts := gfxtrace.NewGenOptions()
	opts.SetBool("catalog.strict_pointer_inference", *a.strictInference)
	opts.SetBool("catalog.warn_manual_state_no_restore", *a.warnManualState)

	cat, warnings, err := gfxtrace.LoadCatalogFile(*a.catalogPath, opts)
	if err != nil {
		log.Fatal(err)
	}
	for _, w := range warnings {
		log.Printf("catalog warning: %s", w)
	}

	cmdLine := strings.Join(os.Args, " ")

	header, impl, diag, err := gfxtrace.Generate(cat, cmdLine)
	if err != nil {
		log.Fatalf("Can't emit code: %s", err.Error())
	}
	if opts.GetBool("catalog.strict_pointer_inference") && len(diag.Deferred) > 0 {
		log.Fatalf("strict pointer inference enabled and %d argument(s) had no inference rule: %v", len(diag.Deferred), diag.Deferred)
	}
	for _, d := range diag.Deferred {
		log.Printf("pointer-length inference deferred to a hand-written helper for %s", d)
	}

	if err := gfxtrace.WriteOutputs(*a.outputDir, header, impl); err != nil {
		log.Fatalf("Can't write output: %s", err.Error())
	}
}
