package gfxtrace

import (
	"fmt"
	"regexp"
)

// pointerLenRule is one row of the ordered pointer-length inference
// table. Rules are tried in declaration order; the first whose gate
// matches wins. A rule whose gate matches but whose expr is nil means
// inference is known to fail for that shape (the Vertex/Index pointer
// rule).
type pointerLenRule struct {
	name string
	gate func(e *EntryPoint, argIdx int) bool
	expr func(e *EntryPoint, argIdx int) string
}

var (
	reImmediate          = regexp.MustCompile(`^gl(?:Color|Normal|TexCoord|Vertex)(\d)(?:b|d|f|i|s|ub|ui|us)v$`)
	reRect               = regexp.MustCompile(`^glRect(?:d|f|i|s)v$`)
	reRasterPos          = regexp.MustCompile(`^glRasterPos(\d)(?:b|d|f|i|s|ub|ui|us)?v$`)
	reSingleValue        = regexp.MustCompile(`^gl(?:EdgeFlag|Index)(?:d|f|i|s|ub)?v$`)
	reMatrix             = regexp.MustCompile(`^gl(?:Load|Mult)Matrix(?:d|f)$`)
	reEvalCoord          = regexp.MustCompile(`^glEvalCoord(\d)(?:d|f)v$`)
	reGen                = regexp.MustCompile(`^glGen\w+$`)
	reFog                = regexp.MustCompile(`^glFog(?:f|i)v$`)
	reGetBasic           = regexp.MustCompile(`^glGet(?:Boolean|Double|Float|Integer)v$`)
	reGetLightOrMaterial = regexp.MustCompile(`^glGet(?:Light|Material)(?:f|i)v$`)
	reVertexIndexPointer = regexp.MustCompile(`^gl(?:Color|EdgeFlag|Normal|TexCoord|Vertex|VertexAttrib|Index)Pointer$`)
)

// pointerLenTable is the fixed, ordered rule table described in spec
// section 4.3. It is a package-level var, not a literal inlined into
// InferPointerLength, so the order is visible and testable on its own.
var pointerLenTable = []pointerLenRule{
	{
		name: "N-counted",
		gate: func(e *EntryPoint, argIdx int) bool {
			if len(e.Args) == 0 || e.Args[0].CType != "GLsizei" || e.Args[0].Name != "n" || argIdx >= len(e.Args) {
				return false
			}
			switch e.Args[argIdx].UnderlyingType() {
			case "void", "GLvoid":
				return false
			}
			return true
		},
		expr: func(e *EntryPoint, argIdx int) string {
			return fmt.Sprintf("%s * sizeof(%s)", e.Args[0].Name, e.Args[argIdx].UnderlyingType())
		},
	},
	{
		name: "Immediate",
		gate: func(e *EntryPoint, argIdx int) bool { return reImmediate.MatchString(e.Name) },
		expr: func(e *EntryPoint, argIdx int) string {
			n := reImmediate.FindStringSubmatch(e.Name)[1]
			return fmt.Sprintf("%s * sizeof(%s)", n, e.Args[argIdx].UnderlyingType())
		},
	},
	{
		name: "Rect",
		gate: func(e *EntryPoint, argIdx int) bool { return reRect.MatchString(e.Name) },
		expr: func(e *EntryPoint, argIdx int) string {
			return fmt.Sprintf("2 * sizeof(%s)", e.Args[argIdx].UnderlyingType())
		},
	},
	{
		name: "RasterPos",
		gate: func(e *EntryPoint, argIdx int) bool { return reRasterPos.MatchString(e.Name) },
		expr: func(e *EntryPoint, argIdx int) string {
			n := reRasterPos.FindStringSubmatch(e.Name)[1]
			return fmt.Sprintf("%s * sizeof(%s)", n, e.Args[argIdx].UnderlyingType())
		},
	},
	{
		name: "SingleValue",
		gate: func(e *EntryPoint, argIdx int) bool { return reSingleValue.MatchString(e.Name) },
		expr: func(e *EntryPoint, argIdx int) string {
			return fmt.Sprintf("1 * sizeof(%s)", e.Args[argIdx].UnderlyingType())
		},
	},
	{
		name: "Matrix",
		gate: func(e *EntryPoint, argIdx int) bool { return reMatrix.MatchString(e.Name) },
		expr: func(e *EntryPoint, argIdx int) string {
			return fmt.Sprintf("16 * sizeof(%s)", e.Args[argIdx].UnderlyingType())
		},
	},
	{
		name: "EvalCoord",
		gate: func(e *EntryPoint, argIdx int) bool { return reEvalCoord.MatchString(e.Name) },
		expr: func(e *EntryPoint, argIdx int) string {
			n := reEvalCoord.FindStringSubmatch(e.Name)[1]
			return fmt.Sprintf("%s * sizeof(%s)", n, e.Args[argIdx].UnderlyingType())
		},
	},
	{
		name: "Gen",
		gate: func(e *EntryPoint, argIdx int) bool {
			return reGen.MatchString(e.Name) && len(e.Args) > 0 && e.Args[0].CType == "GLsizei"
		},
		expr: func(e *EntryPoint, argIdx int) string {
			return fmt.Sprintf("%s * sizeof(%s)", e.Args[0].Name, e.Args[argIdx].UnderlyingType())
		},
	},
	{
		name: "Fog",
		gate: func(e *EntryPoint, argIdx int) bool { return reFog.MatchString(e.Name) },
		expr: func(e *EntryPoint, argIdx int) string {
			return fmt.Sprintf("(%s == GL_FOG_COLOR ? 4 : 1) * sizeof(%s)", e.Args[0].Name, e.Args[argIdx].UnderlyingType())
		},
	},
	{
		name: "Get (basic)",
		gate: func(e *EntryPoint, argIdx int) bool { return reGetBasic.MatchString(e.Name) },
		expr: func(e *EntryPoint, argIdx int) string {
			return fmt.Sprintf("GLenumToParameterCount(%s) * sizeof(%s)", e.Args[0].Name, e.Args[argIdx].UnderlyingType())
		},
	},
	{
		name: "Get (light/material)",
		gate: func(e *EntryPoint, argIdx int) bool { return reGetLightOrMaterial.MatchString(e.Name) },
		expr: func(e *EntryPoint, argIdx int) string {
			return fmt.Sprintf("GLenumToParameterCount(%s) * sizeof(%s)", e.Args[1].Name, e.Args[argIdx].UnderlyingType())
		},
	},
	{
		name: "Vertex/Index pointer",
		gate: func(e *EntryPoint, argIdx int) bool { return reVertexIndexPointer.MatchString(e.Name) },
		expr: nil, // inference always fails for this shape; see spec section 4.3
	},
}

// InferPointerLength computes the byte-length expression for the
// pointer argument at e.Args[argIdx], trying pointerLenTable in order.
// ok is false when no rule matched, or when the matching rule is known
// to require a hand-written helper (the Vertex/Index pointer rule).
func InferPointerLength(e *EntryPoint, argIdx int) (expr string, ok bool) {
	for _, rule := range pointerLenTable {
		if !rule.gate(e, argIdx) {
			continue
		}
		if rule.expr == nil {
			return "", false
		}
		return rule.expr(e, argIdx), true
	}
	return "", false
}

// pointerLengthHelperName names the length helper for e.Args[argIdx],
// whether it ends up inline (inference succeeded) or forward-declared
// for hand-written implementation (inference failed).
func pointerLengthHelperName(e *EntryPoint, argIdx int) string {
	return "determinePointerLength_" + e.Name + "_" + e.Args[argIdx].Name
}
