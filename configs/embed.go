// Package configs provides embedded configuration templates for rlmctx.
//
// Templates are embedded at build time using Go's //go:embed directive,
// so they ship inside the binary rather than depending on a separate
// install step.
//
// Configuration hierarchy (see internal/config/config.go Load()):
//  1. Hardcoded defaults (internal/config/config.go NewConfig())
//  2. User config (~/.config/rlmctx/config.yaml)
//  3. Project override ($STORAGE_ROOT/.rlmctx.yaml)
//  4. Environment variables (RLM_*)
package configs

import _ "embed"

// UserConfigTemplate is written by `rlmctx config init` to
// ~/.config/rlmctx/config.yaml: machine-wide defaults.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// ProjectConfigTemplate is the template for .rlmctx.yaml at the storage
// root: per-project overrides. No command writes it; `rlmctx config init`
// writes only UserConfigTemplate.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
