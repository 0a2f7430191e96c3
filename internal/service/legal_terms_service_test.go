package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLegalTermsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.md")
	require.NoError(t, os.WriteFile(path, []byte("# Terms\n\n<script>alert(1)</script>\n"), 0o600))

	terms, err := LoadLegalTerms(path, "2.0", logrus.New())
	require.NoError(t, err)
	assert.Equal(t, "2.0", terms.Version)
	assert.Contains(t, terms.HTML, "<h1>Terms</h1>")
	assert.NotContains(t, terms.HTML, "<script>")
}

func TestLoadLegalTermsFallsBack(t *testing.T) {
	terms, err := LoadLegalTerms(filepath.Join(t.TempDir(), "missing.md"), "1.0", logrus.New())
	require.NoError(t, err)
	assert.Contains(t, terms.HTML, "<h1>")
	assert.NotEmpty(t, terms.Markdown)
}
