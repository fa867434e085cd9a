package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_Status_PrintsIconAndMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Status("🔍", "checking storage root")

	out := buf.String()
	assert.Contains(t, out, "🔍")
	assert.Contains(t, out, "checking storage root")
}

func TestWriter_Status_IndentsWithoutIcon(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Status("", "plain line")

	assert.Equal(t, "  plain line\n", buf.String())
}

func TestWriter_Success_PrintsCheckmark(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Success("archive run complete")

	out := buf.String()
	assert.Contains(t, out, "✅")
	assert.Contains(t, out, "archive run complete")
}

func TestWriter_Warning_PrintsWarningIcon(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Warning("embedder unavailable")

	out := buf.String()
	assert.Contains(t, out, "⚠️")
	assert.Contains(t, out, "embedder unavailable")
}

func TestWriter_Statusf_FormatsMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Statusf("📦", "archived %d chunks", 3)

	assert.Contains(t, buf.String(), "archived 3 chunks")
}
