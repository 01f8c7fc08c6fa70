package gfxtrace

import "strings"

// callingConvention is the fixed calling convention used for every
// hook prototype and real-pointer typedef.
const callingConvention = "APIENTRY"

// MultiStateSlot is one selectable slot of a multi-state entry (e.g.
// one of GL_LIGHT0..GL_LIGHT7 for glLight).
type MultiStateSlot struct {
	Selector string
	CType    string
}

// MultiState describes an entry point that writes one of several
// state slots, chosen by the value of one of its arguments.
type MultiState struct {
	ControllingArg string
	Slots          []MultiStateSlot
	DefaultCType   string
}

// EntryPoint is a single catalog-declared GL function.
type EntryPoint struct {
	Name               string
	ReturnType         string
	Args               []Argument
	IsState            bool
	NeedsManualState   bool
	NeedsManualDetour  bool
	NeedsManualReplay  bool
	NeedsManualRestore bool
	NeedsStaticHook    bool
	NeedsPublicReal    bool
	Supported          bool
	Alias              string
	MultiState         *MultiState
	PointerOrOffset    string
}

func (e *EntryPoint) isVoid() bool {
	return e.returnType() == "void"
}

func (e *EntryPoint) returnType() string {
	if e.ReturnType == "" {
		return "void"
	}
	return e.ReturnType
}

// IsAliased reports whether this entry forwards to another entry's
// implementation and packet variant instead of contributing its own.
func (e *EntryPoint) IsAliased() bool {
	return e.Alias != ""
}

// HasAnyPointers reports whether any argument is a pointer type.
func (e *EntryPoint) HasAnyPointers() bool {
	for _, a := range e.Args {
		if a.IsPointer {
			return true
		}
	}
	return false
}

// DataName is the ESerializeTypes enumerator assigned to this entry:
// EST_<Name>Data.
func (e *EntryPoint) DataName() string {
	return "EST_" + e.Name + "Data"
}

// DetouredName is the hooked trampoline's symbol name.
func (e *EntryPoint) DetouredName() string {
	return "hooked_" + e.Name
}

// RealPointerName is the file-scope real-function-pointer variable's
// symbol name.
func (e *EntryPoint) RealPointerName() string {
	return "gReal_" + e.Name
}

// DataStructMemberName is the packet union member holding this entry's
// payload.
func (e *EntryPoint) DataStructMemberName() string {
	return "mData_" + e.Name
}

// HasSetFlagName is the state-class member recording whether this
// entry has ever been called.
func (e *EntryPoint) HasSetFlagName() string {
	return "mHasSet_" + e.Name
}

// ArgsDeclaration renders the entry's arguments as a comma-separated
// parameter list, e.g. "GLenum target, GLuint texture".
func (e *EntryPoint) ArgsDeclaration() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.Declaration()
	}
	return strings.Join(parts, ", ")
}

// ArgsPassing renders just the argument names, for forwarding a call.
func (e *EntryPoint) ArgsPassing() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.Name
	}
	return strings.Join(parts, ", ")
}

// StateMemberReturnType is the return type declared (and defined) for
// this entry's state-class member function: its own return type when
// it is a manual-state entry (the hand-written definition returns the
// real call's result), else void (the generator-synthesized setter
// only records state).
func (e *EntryPoint) StateMemberReturnType() string {
	if e.NeedsManualState {
		return e.returnType()
	}
	return "void"
}

// ArgsDeclarationAsState is ArgsDeclaration, with a leading
// "<return_type> returnValue" parameter prepended when this is a
// manual-state entry with a non-void return type (the state setter
// needs the real call's result to decide how to record the value).
func (e *EntryPoint) ArgsDeclarationAsState() string {
	if e.NeedsManualState && !e.isVoid() {
		decl := e.returnType() + " returnValue"
		if e.ArgsDeclaration() == "" {
			return decl
		}
		return decl + ", " + e.ArgsDeclaration()
	}
	return e.ArgsDeclaration()
}

// ArgsPassingAsState mirrors ArgsDeclarationAsState for call sites.
func (e *EntryPoint) ArgsPassingAsState() string {
	if e.NeedsManualState && !e.isVoid() {
		if e.ArgsPassing() == "" {
			return "returnValue"
		}
		return "returnValue, " + e.ArgsPassing()
	}
	return e.ArgsPassing()
}

// dataStructField is one field of a per-entry packet payload struct,
// as emitted by ArgsAsDataStruct.
type dataStructField struct {
	CType string
	Name  string
}

// ArgsAsDataStruct widens each pointer-or-offset argument with a
// preceding "bool isPointer_<name>" field, matching the packet layout
// required by the header emitter.
func (e *EntryPoint) ArgsAsDataStruct() []dataStructField {
	fields := make([]dataStructField, 0, len(e.Args))
	for _, a := range e.Args {
		if a.IsPointerOrOffset {
			fields = append(fields, dataStructField{CType: "bool", Name: a.PointerOrOffsetName()})
		}
		fields = append(fields, dataStructField{CType: a.CType, Name: a.Name})
	}
	return fields
}

// IsAppleGuarded reports whether this entry's real call must be
// wrapped in the _APPLE preprocessor guard. This is a purely lexical
// rule on the entry name, by design (see spec section 9).
func (e *EntryPoint) IsAppleGuarded() bool {
	return strings.Contains(e.Name, "APPLE")
}
