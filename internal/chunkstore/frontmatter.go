package chunkstore

import (
	"strings"

	"github.com/rlmctx/rlmctx/internal/rlmerrors"
	"gopkg.in/yaml.v3"
)

const frontmatterDelim = "---\n"

// renderChunkFile builds the on-disk chunk file: a YAML frontmatter header
// delimited by "---" lines, a blank line, then the raw content.
func renderChunkFile(fm frontmatter, content string) ([]byte, error) {
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, rlmerrors.Wrap("marshal chunk frontmatter", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelim)
	b.Write(header)
	b.WriteString(frontmatterDelim)
	b.WriteString("\n")
	b.WriteString(content)

	return []byte(b.String()), nil
}

// splitChunkFile separates a chunk file's frontmatter from its content.
func splitChunkFile(data []byte) (frontmatter, string, error) {
	text := string(data)
	if !strings.HasPrefix(text, frontmatterDelim) {
		return frontmatter{}, text, nil
	}

	rest := text[len(frontmatterDelim):]
	end := strings.Index(rest, frontmatterDelim)
	if end < 0 {
		return frontmatter{}, text, nil
	}

	header := rest[:end]
	body := strings.TrimPrefix(rest[end+len(frontmatterDelim):], "\n")

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return frontmatter{}, "", rlmerrors.Wrap("parse chunk frontmatter", err)
	}

	return fm, body, nil
}
