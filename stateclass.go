package gfxtrace

import "strings"

// DataField is one opaque, hand-managed persistent field owned by a
// StateClass (a map, a handle, anything whose lifecycle the generator
// does not synthesize).
type DataField struct {
	Name  string
	CType string
}

// Declaration renders the field as it appears in the class's private
// section. A CType containing "[" is treated as an array suffix that
// belongs after the name rather than before it.
func (f DataField) Declaration() string {
	if i := strings.IndexByte(f.CType, '['); i >= 0 {
		base := strings.TrimSpace(f.CType[:i])
		suffix := f.CType[i:]
		return base + " " + f.Name + suffix
	}
	return f.CType + " " + f.Name
}

// AccessorName is the generated inline getter for this field:
// Get<DataName>().
func (f DataField) AccessorName() string {
	return "Get" + f.Name + "()"
}

// StateClass aggregates the automatically-managed current values of a
// subset of GL state, plus hand-managed opaque data fields.
type StateClass struct {
	Name    string
	Members []*EntryPoint
	Data    []DataField
}

// HasManualData reports whether this class owns any hand-managed data
// fields, which determines whether its constructor/destructor call
// ManualConstruct/ManualDestruct.
func (s *StateClass) HasManualData() bool {
	return len(s.Data) > 0
}

// AutomaticMembers returns the members whose state setter the
// generator itself synthesizes (excludes manual-state and aliased
// entries; an aliased entry contributes no packet variant of its own,
// see plan.go's PacketEntries).
func (s *StateClass) AutomaticMembers() []*EntryPoint {
	out := make([]*EntryPoint, 0, len(s.Members))
	for _, m := range s.Members {
		if !m.NeedsManualState && !m.IsAliased() {
			out = append(out, m)
		}
	}
	return out
}

// RestorableMembers returns the automatically-managed, non-aliased,
// supported members that participate in Restore (i.e. not marked
// needs_manual_restore).
func (s *StateClass) RestorableMembers() []*EntryPoint {
	out := make([]*EntryPoint, 0, len(s.Members))
	for _, m := range s.Members {
		if m.NeedsManualState || m.NeedsManualRestore || m.IsAliased() || !m.Supported {
			continue
		}
		out = append(out, m)
	}
	return out
}
