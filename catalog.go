package gfxtrace

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Catalog is the normalized, validated model built from the
// declarative input: one sequence of state classes (each owning a
// sequence of state-touching entries), one sequence of action
// entries, and one sequence of unsupported entries.
type Catalog struct {
	StateClasses []*StateClass
	Actions      []*EntryPoint
	Unsupported  []*EntryPoint
}

// AllEntries returns every entry point across all three bins, in the
// catalog's current order (not necessarily sorted; callers that need
// the canonical emission order should use AllEntriesSorted).
func (c *Catalog) AllEntries() []*EntryPoint {
	var all []*EntryPoint
	for _, sc := range c.StateClasses {
		all = append(all, sc.Members...)
	}
	all = append(all, c.Actions...)
	all = append(all, c.Unsupported...)
	return all
}

// AllEntriesSorted returns every entry point sorted lexicographically
// by name, the canonical emission order required by the catalog
// ingestion contract.
func (c *Catalog) AllEntriesSorted() []*EntryPoint {
	all := c.AllEntries()
	sorted := make([]*EntryPoint, len(all))
	copy(sorted, all)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return sorted
}

// byName returns the first entry across all bins with the given name,
// or nil.
func (c *Catalog) byName(name string) *EntryPoint {
	for _, e := range c.AllEntries() {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// --- raw YAML schema ---

type rawCatalog struct {
	GlobalState rawGlobalState `yaml:"global_state"`
	Actions     rawBin         `yaml:"actions"`
	Unsupported rawBin         `yaml:"unsupported"`
}

type rawGlobalState struct {
	StateClasses []rawStateClass `yaml:"state_classes"`
}

type rawBin struct {
	Entries []rawEntry `yaml:"entries"`
	// StateClasses is only ever legal to leave empty here; its
	// presence in the Actions or Unsupported bin is the illegal
	// nesting the ingestion contract must reject.
	StateClasses []rawStateClass `yaml:"state_classes"`
}

type rawStateClass struct {
	Name    string          `yaml:"name"`
	Data    []rawDataField  `yaml:"data"`
	Entries []rawEntry      `yaml:"entries"`
}

type rawDataField struct {
	Name  string `yaml:"name"`
	CType string `yaml:"ctype"`
}

type rawEntry struct {
	Name               string           `yaml:"name"`
	Args               []string         `yaml:"args"`
	Returns            string           `yaml:"returns"`
	NeedsManualState   bool             `yaml:"needs_manual_state"`
	NeedsManualDetour  bool             `yaml:"needs_manual_detour"`
	NeedsManualReplay  bool             `yaml:"needs_manual_replay"`
	NeedsManualRestore bool             `yaml:"needs_manual_restore"`
	NeedsStaticHook    bool             `yaml:"needs_static_hook"`
	NeedsPublicReal    bool             `yaml:"needs_public_real"`
	Alias              string           `yaml:"alias"`
	PointerOrOffset    []string         `yaml:"pointer_or_offset"`
	MultiState         *rawMultiState   `yaml:"multi_state"`
}

type rawMultiState struct {
	ControllingArg string               `yaml:"controlling_arg"`
	DefaultCType   string               `yaml:"default_ctype"`
	Slots          []rawMultiStateSlot  `yaml:"slots"`
}

type rawMultiStateSlot struct {
	Selector string `yaml:"selector"`
	CType    string `yaml:"ctype"`
}

// LoadCatalogFile reads and validates a catalog from path.
func LoadCatalogFile(path string, opts *GenOptions) (*Catalog, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return LoadCatalogBytes(data, opts)
}

// LoadCatalogBytes parses and validates a catalog from raw YAML bytes.
func LoadCatalogBytes(data []byte, opts *GenOptions) (*Catalog, []string, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	return buildCatalog(&raw, opts)
}

func buildCatalog(raw *rawCatalog, opts *GenOptions) (*Catalog, []string, error) {
	if len(raw.Actions.StateClasses) > 0 {
		return nil, nil, CatalogError{Message: "state classes are not permitted under the actions bin"}
	}
	if len(raw.Unsupported.StateClasses) > 0 {
		return nil, nil, CatalogError{Message: "state classes are not permitted under the unsupported bin"}
	}

	cat := &Catalog{}
	var warnings []string
	seen := map[string][]string{} // name -> bins it appeared in, for duplicate diagnostics

	for _, rsc := range raw.GlobalState.StateClasses {
		sc := &StateClass{Name: rsc.Name}
		for _, rdf := range rsc.Data {
			sc.Data = append(sc.Data, DataField{Name: rdf.Name, CType: rdf.CType})
		}
		for _, re := range rsc.Entries {
			ep, err := buildEntryPoint(re, true, true)
			if err != nil {
				return nil, nil, err
			}
			seen[ep.Name] = append(seen[ep.Name], "global_state/"+rsc.Name)
			sc.Members = append(sc.Members, ep)
		}
		sort.Slice(sc.Members, func(i, j int) bool { return sc.Members[i].Name < sc.Members[j].Name })
		cat.StateClasses = append(cat.StateClasses, sc)
	}
	sort.Slice(cat.StateClasses, func(i, j int) bool { return cat.StateClasses[i].Name < cat.StateClasses[j].Name })

	for _, re := range raw.Actions.Entries {
		ep, err := buildEntryPoint(re, false, true)
		if err != nil {
			return nil, nil, err
		}
		seen[ep.Name] = append(seen[ep.Name], "actions")
		cat.Actions = append(cat.Actions, ep)
	}
	sort.Slice(cat.Actions, func(i, j int) bool { return cat.Actions[i].Name < cat.Actions[j].Name })

	for _, re := range raw.Unsupported.Entries {
		ep, err := buildEntryPoint(re, false, false)
		if err != nil {
			return nil, nil, err
		}
		seen[ep.Name] = append(seen[ep.Name], "unsupported")
		cat.Unsupported = append(cat.Unsupported, ep)
	}
	sort.Slice(cat.Unsupported, func(i, j int) bool { return cat.Unsupported[i].Name < cat.Unsupported[j].Name })

	var dupes []string
	for name, bins := range seen {
		if len(bins) > 1 {
			dupes = append(dupes, name)
		}
	}
	if len(dupes) > 0 {
		sort.Strings(dupes)
		return nil, nil, CatalogError{Message: "duplicate entry-point name", Names: dupes}
	}

	// Supplemented features (SPEC_FULL.md section 12): an unknown
	// multi_state controlling parameter is a fatal structural error; an
	// alias to an unknown entry and a manual_state entry without
	// manual_restore are non-fatal warnings.
	for _, ep := range cat.AllEntries() {
		if ep.MultiState != nil {
			if !hasArgNamed(ep.Args, ep.MultiState.ControllingArg) {
				return nil, nil, CatalogError{
					Message: fmt.Sprintf("entry %q: multi_state controlling_arg %q is not one of its declared arguments", ep.Name, ep.MultiState.ControllingArg),
				}
			}
		}
		if ep.IsAliased() && cat.byName(ep.Alias) == nil {
			warnings = append(warnings, fmt.Sprintf("entry %q aliases unknown entry %q", ep.Name, ep.Alias))
		}
		if opts.GetBool("catalog.warn_manual_state_no_restore") && ep.NeedsManualState && !ep.NeedsManualRestore && ep.IsState {
			warnings = append(warnings, fmt.Sprintf("entry %q is manual_state but not manual_restore; Restore treatment is ambiguous (see open question)", ep.Name))
		}
	}

	return cat, warnings, nil
}

func hasArgNamed(args []Argument, name string) bool {
	for _, a := range args {
		if a.Name == name {
			return true
		}
	}
	return false
}

func buildEntryPoint(re rawEntry, isState, supported bool) (*EntryPoint, error) {
	pointerOrOffset := map[string]bool{}
	for _, n := range re.PointerOrOffset {
		pointerOrOffset[n] = true
	}

	ep := &EntryPoint{
		Name:               re.Name,
		ReturnType:         re.Returns,
		IsState:            isState,
		NeedsManualState:   re.NeedsManualState,
		NeedsManualDetour:  re.NeedsManualDetour,
		NeedsManualReplay:  re.NeedsManualReplay,
		NeedsManualRestore: re.NeedsManualRestore,
		NeedsStaticHook:    re.NeedsStaticHook,
		NeedsPublicReal:    re.NeedsPublicReal,
		Supported:          supported,
		Alias:              re.Alias,
	}
	if len(re.PointerOrOffset) == 1 {
		ep.PointerOrOffset = re.PointerOrOffset[0]
	}
	for _, tok := range re.Args {
		// The name segment is computed before we know whether it's
		// pointer-or-offset, so parse first and look the flag up by
		// the resulting name.
		arg, err := parseArgumentToken(re.Name, tok, false)
		if err != nil {
			return nil, err
		}
		arg.IsPointerOrOffset = pointerOrOffset[arg.Name]
		ep.Args = append(ep.Args, arg)
	}
	if re.MultiState != nil {
		ms := &MultiState{
			ControllingArg: re.MultiState.ControllingArg,
			DefaultCType:   re.MultiState.DefaultCType,
		}
		for _, s := range re.MultiState.Slots {
			ms.Slots = append(ms.Slots, MultiStateSlot{Selector: s.Selector, CType: s.CType})
		}
		ep.MultiState = ms
	}
	return ep, nil
}
