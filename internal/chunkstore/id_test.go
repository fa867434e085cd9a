package chunkstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateID_ConventionalForm(t *testing.T) {
	id := generateID("2026-07-30", "rlmctx", 1, "", "")
	assert.Equal(t, "2026-07-30_rlmctx_001", id)
}

func TestGenerateID_WithTicketAndDomain(t *testing.T) {
	id := generateID("2026-07-30", "rlmctx", 2, "PROJ-9", "infra")
	assert.Equal(t, "2026-07-30_rlmctx_002_PROJ-9_infra", id)
}

func TestGenerateID_SanitizesProjectComponent(t *testing.T) {
	id := generateID("2026-07-30", "my project!", 1, "", "")
	assert.Equal(t, "2026-07-30_myproject_001", id)
}

func TestNextSequence_FirstIsOne(t *testing.T) {
	seq := nextSequence(nil, "2026-07-30", "rlmctx")
	assert.Equal(t, 1, seq)
}

func TestNextSequence_IncrementsPastExisting(t *testing.T) {
	existing := []string{"2026-07-30_rlmctx_001", "2026-07-30_rlmctx_002_PROJ-9"}
	seq := nextSequence(existing, "2026-07-30", "rlmctx")
	assert.Equal(t, 3, seq)
}

func TestNextSequence_IgnoresOtherProjectsAndDates(t *testing.T) {
	existing := []string{"2026-07-29_rlmctx_005", "2026-07-30_other_009"}
	seq := nextSequence(existing, "2026-07-30", "rlmctx")
	assert.Equal(t, 1, seq)
}
