package gfxtrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgumentToken(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		wantName    string
		wantCType   string
		wantPointer bool
	}{
		{name: "scalar", token: "GLenum_target", wantName: "target", wantCType: "GLenum", wantPointer: false},
		{name: "pointer", token: "GLuint_ptr_textures", wantName: "textures", wantCType: "GLuint*", wantPointer: true},
		{name: "const pointer", token: "const_GLuint_ptr_textures", wantName: "textures", wantCType: "const GLuint*", wantPointer: true},
		{name: "multi-word type", token: "unsigned_long_value", wantName: "value", wantCType: "unsigned long", wantPointer: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arg, err := parseArgumentToken("glSomeFunc", tt.token, false)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, arg.Name)
			assert.Equal(t, tt.wantCType, arg.CType)
			assert.Equal(t, tt.wantPointer, arg.IsPointer)
		})
	}
}

func TestParseArgumentToken_NoNameSegment(t *testing.T) {
	_, err := parseArgumentToken("glSomeFunc", "GLenum", false)
	require.Error(t, err)
	var tokErr ArgumentTokenError
	require.ErrorAs(t, err, &tokErr)
	assert.Equal(t, "glSomeFunc", tokErr.Entry)
}

func TestArgument_DerivedFields(t *testing.T) {
	arg, err := parseArgumentToken("glTexImage2D", "const_GLvoid_ptr_pixels", true)
	require.NoError(t, err)

	assert.Equal(t, "const GLvoid", arg.UnderlyingType())
	assert.True(t, arg.IsConst())
	assert.Equal(t, "GLvoid*", arg.LValueType())
	assert.Equal(t, "isPointer_pixels", arg.PointerOrOffsetName())
	assert.Equal(t, "const GLvoid* pixels", arg.Declaration())
}
