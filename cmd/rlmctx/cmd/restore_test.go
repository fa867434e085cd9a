package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRestoreCmd_UnknownIDFails(t *testing.T) {
	t.Setenv("RLM_STORAGE_ROOT", t.TempDir())

	cmd := newRestoreCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"does-not-exist"})

	err := cmd.Execute()
	assert.Error(t, err)
}

func TestRestoreCmd_RequiresExactlyOneArg(t *testing.T) {
	cmd := newRestoreCmd()
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
