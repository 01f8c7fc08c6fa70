package gfxtrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustArg(t *testing.T, token string) Argument {
	t.Helper()
	a, err := parseArgumentToken("test", token, false)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestInferPointerLength_Table(t *testing.T) {
	tests := []struct {
		rule     string
		entry    *EntryPoint
		argIdx   int
		wantExpr string
		wantOK   bool
	}{
		{
			rule:     "N-counted",
			entry:    &EntryPoint{Name: "glGenTextures", Args: []Argument{mustArg(t, "GLsizei_n"), mustArg(t, "GLuint_ptr_textures")}},
			argIdx:   1,
			wantExpr: "n * sizeof(GLuint)",
			wantOK:   true,
		},
		{
			rule:     "Immediate",
			entry:    &EntryPoint{Name: "glColor4fv", Args: []Argument{mustArg(t, "GLfloat_ptr_v")}},
			argIdx:   0,
			wantExpr: "4 * sizeof(GLfloat)",
			wantOK:   true,
		},
		{
			rule:     "Rect",
			entry:    &EntryPoint{Name: "glRectfv", Args: []Argument{mustArg(t, "GLfloat_ptr_v")}},
			argIdx:   0,
			wantExpr: "2 * sizeof(GLfloat)",
			wantOK:   true,
		},
		{
			rule:     "RasterPos",
			entry:    &EntryPoint{Name: "glRasterPos3fv", Args: []Argument{mustArg(t, "GLfloat_ptr_v")}},
			argIdx:   0,
			wantExpr: "3 * sizeof(GLfloat)",
			wantOK:   true,
		},
		{
			rule:     "SingleValue",
			entry:    &EntryPoint{Name: "glIndexfv", Args: []Argument{mustArg(t, "GLfloat_ptr_c")}},
			argIdx:   0,
			wantExpr: "1 * sizeof(GLfloat)",
			wantOK:   true,
		},
		{
			rule:     "Matrix",
			entry:    &EntryPoint{Name: "glLoadMatrixf", Args: []Argument{mustArg(t, "GLfloat_ptr_m")}},
			argIdx:   0,
			wantExpr: "16 * sizeof(GLfloat)",
			wantOK:   true,
		},
		{
			rule:     "EvalCoord",
			entry:    &EntryPoint{Name: "glEvalCoord2fv", Args: []Argument{mustArg(t, "GLfloat_ptr_u")}},
			argIdx:   0,
			wantExpr: "2 * sizeof(GLfloat)",
			wantOK:   true,
		},
		{
			rule:     "Fog",
			entry:    &EntryPoint{Name: "glFogfv", Args: []Argument{mustArg(t, "GLenum_pname"), mustArg(t, "GLfloat_ptr_params")}},
			argIdx:   1,
			wantExpr: "(pname == GL_FOG_COLOR ? 4 : 1) * sizeof(GLfloat)",
			wantOK:   true,
		},
		{
			rule:     "Get (basic)",
			entry:    &EntryPoint{Name: "glGetFloatv", Args: []Argument{mustArg(t, "GLenum_pname"), mustArg(t, "GLfloat_ptr_params")}},
			argIdx:   1,
			wantExpr: "GLenumToParameterCount(pname) * sizeof(GLfloat)",
			wantOK:   true,
		},
		{
			rule:     "Get (light/material)",
			entry:    &EntryPoint{Name: "glGetMaterialfv", Args: []Argument{mustArg(t, "GLenum_face"), mustArg(t, "GLenum_pname"), mustArg(t, "GLfloat_ptr_params")}},
			argIdx:   2,
			wantExpr: "GLenumToParameterCount(pname) * sizeof(GLfloat)",
			wantOK:   true,
		},
		{
			rule:     "Vertex/Index pointer",
			entry:    &EntryPoint{Name: "glVertexPointer", Args: []Argument{mustArg(t, "GLint_size"), mustArg(t, "GLenum_type"), mustArg(t, "GLsizei_stride"), mustArg(t, "GLvoid_ptr_pointer")}},
			argIdx:   3,
			wantExpr: "",
			wantOK:   false,
		},
		{
			rule:     "no rule matches",
			entry:    &EntryPoint{Name: "glSomeUnknownFunc", Args: []Argument{mustArg(t, "GLfloat_ptr_x")}},
			argIdx:   0,
			wantExpr: "",
			wantOK:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			expr, ok := InferPointerLength(tt.entry, tt.argIdx)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantExpr, expr)
			}
		})
	}
}
