package service

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed legal_terms.md
var defaultTerms []byte

// Raw HTML in the source is escaped since WithUnsafe is not set.
var termsRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

type LegalTerms struct {
	Version  string `json:"version"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// LoadLegalTerms renders the terms file at path, falling back to the built-in
// text when the file does not exist.
func LoadLegalTerms(path, version string, log *logrus.Logger) (*LegalTerms, error) {
	source := defaultTerms
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			source = data
		case errors.Is(err, os.ErrNotExist):
			log.Warnf("Legal terms file %s not found, using built-in terms", path)
		default:
			return nil, fmt.Errorf("failed to read legal terms: %w", err)
		}
	}

	html, err := RenderMarkdown(source)
	if err != nil {
		return nil, err
	}

	return &LegalTerms{Version: version, Markdown: string(source), HTML: html}, nil
}

func RenderMarkdown(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := termsRenderer.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
