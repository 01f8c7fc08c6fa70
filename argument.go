package gfxtrace

import "strings"

// Argument is a single parameter of an EntryPoint.
//
// It is parsed from a declared token of the form "T1_T2_..._Tn_name":
// the final underscore-separated segment is the name, and the joined
// remainder (spaces restored, the literal word "ptr" rewritten to "*")
// is the C type.
type Argument struct {
	Name              string
	CType             string
	IsPointer         bool
	IsPointerOrOffset bool
}

// parseArgumentToken parses one catalog-declared argument token into
// an Argument. entryName is used only to build a diagnostic if the
// token has no trailing name segment.
func parseArgumentToken(entryName, token string, pointerOrOffset bool) (Argument, error) {
	pieces := strings.Split(token, "_")
	if len(pieces) < 2 {
		return Argument{}, ArgumentTokenError{Entry: entryName, Token: token}
	}
	name := pieces[len(pieces)-1]
	ctype := strings.Join(pieces[:len(pieces)-1], " ")
	ctype = strings.ReplaceAll(ctype, " ptr", "*")
	return Argument{
		Name:              name,
		CType:             ctype,
		IsPointer:         strings.Contains(ctype, "*"),
		IsPointerOrOffset: pointerOrOffset,
	}, nil
}

// UnderlyingType returns CType with one "*" removed.
func (a Argument) UnderlyingType() string {
	return strings.Replace(a.CType, "*", "", 1)
}

// IsConst reports whether the argument's declared type carries a
// "const" qualifier.
func (a Argument) IsConst() bool {
	return strings.Contains(a.CType, "const ") || strings.HasPrefix(a.CType, "const")
}

// LValueType returns CType with any "const " qualifier stripped, so it
// can be used on the left-hand side of an assignment (e.g. when
// const-casting a buffer before a memcpy).
func (a Argument) LValueType() string {
	return strings.TrimSpace(strings.ReplaceAll(a.CType, "const ", ""))
}

// PointerOrOffsetName returns the name of the boolean flag field that
// accompanies a pointer-or-offset argument in a generated data struct.
func (a Argument) PointerOrOffsetName() string {
	return "isPointer_" + a.Name
}

// Declaration renders the argument as it appears in a function
// signature: "<ctype> <name>".
func (a Argument) Declaration() string {
	ctype := a.CType
	if ctype != "" {
		ctype += " "
	}
	return ctype + a.Name
}
