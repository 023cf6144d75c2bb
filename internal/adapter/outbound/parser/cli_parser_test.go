package parser

import (
	"context"
	"testing"
	"time"

	"codeatlas/internal/domain/errors/domain"
	"codeatlas/internal/domain/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCLIParser_DefaultCommand(t *testing.T) {
	p := NewCLIParser("")
	assert.Equal(t, "esparse", p.command)
	assert.Equal(t, []string{"--loc"}, p.args)
}

func TestCLIParser_UnsupportedExtension(t *testing.T) {
	p := NewCLIParser("")
	_, err := p.Parse(context.Background(), "README.md", []byte("# hi"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// cat echoes stdin to stdout, standing in for a parser binary that emits the
// document it was given.
func TestCLIParser_ParsesEmittedTree(t *testing.T) {
	p := NewCLIParser("cat")

	tree, err := p.Parse(context.Background(), "src/answer.js", []byte(constDeclJSON))
	require.NoError(t, err)

	assert.Equal(t, valueobject.LanguageJavaScript, tree.Language())
	require.Equal(t, valueobject.KindProgram, tree.Root().Kind)
	assert.Len(t, tree.Root().FieldAll("body"), 1)
}

func TestCLIParser_GarbageOutput(t *testing.T) {
	p := NewCLIParser("cat")

	_, err := p.Parse(context.Background(), "src/broken.js", []byte("not json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTruncatedTree)
}

func TestCLIParser_MissingBinary(t *testing.T) {
	p := NewCLIParser("definitely-not-a-real-parser-binary")

	_, err := p.Parse(context.Background(), "src/app.js", []byte("{}"))
	require.Error(t, err)
}

func TestCLIParser_WithTimeout(t *testing.T) {
	p := NewCLIParser("cat").WithTimeout(5 * time.Second)
	assert.Equal(t, 5*time.Second, p.timeout)
}
