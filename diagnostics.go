package gfxtrace

import "fmt"

// DeferredInference records one pointer argument for which the table
// in pointerlen.go found no rule (or matched a rule that always
// defers), so the emitter declared an external helper instead of
// inlining one. Collecting these does not change emitted output; it
// makes spec section 7's "by design" deferral observable without
// diffing the generated header (see SPEC_FULL.md section 12).
type DeferredInference struct {
	Entry    string
	Argument string
}

func (d DeferredInference) String() string {
	return fmt.Sprintf("%s(%s)", d.Entry, d.Argument)
}

// Diagnostics accumulates non-fatal observations made while emitting a
// catalog. Generate fills Deferred only; catalog validation warnings
// are returned separately, as a []string, by
// LoadCatalogFile/LoadCatalogBytes, and Warnings is left empty.
type Diagnostics struct {
	Warnings []string
	Deferred []DeferredInference
}
