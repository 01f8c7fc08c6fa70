package gfxtrace

import (
	"fmt"
	"os"
	"path/filepath"
)

// HeaderFileName and ImplFileName are the two fixed output file names
// required by the external interface contract (spec section 6).
const (
	HeaderFileName = "functionhooks.gen.h"
	ImplFileName   = "functionhooks.gen.cpp"
)

// Generate runs both emitters against cat and returns the complete
// header and implementation text, plus diagnostics accumulated while
// walking the plan. Both strings are fully built before this function
// returns either one, satisfying the generator's single-threaded,
// all-or-nothing write model (spec sections 4.6 and 5): a caller that
// errors out before calling WriteOutputs leaves any prior output files
// untouched.
func Generate(cat *Catalog, cmdLine string) (header string, impl string, diag Diagnostics, err error) {
	plan := buildPlan(cat)

	h := newHeaderEmitter(cat, plan, cmdLine)
	h.Emit()

	i := newImplEmitter(cat, plan, cmdLine)
	i.Emit()

	diag.Deferred = plan.Deferred
	return h.output(), i.output(), diag, nil
}

// WriteOutputs writes the header then the implementation file into
// dir, each ending with a trailing newline. Header is written first
// per spec section 5's fixed ordering.
func WriteOutputs(dir, header, impl string) error {
	headerPath := filepath.Join(dir, HeaderFileName)
	implPath := filepath.Join(dir, ImplFileName)

	if err := os.WriteFile(headerPath, []byte(ensureTrailingNewline(header)), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", HeaderFileName, err)
	}
	if err := os.WriteFile(implPath, []byte(ensureTrailingNewline(impl)), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", ImplFileName, err)
	}
	return nil
}

func ensureTrailingNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}
