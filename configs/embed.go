// Package configs provides the embedded configuration template for
// zeroindex. The template is embedded at build time so `zeroindex init`
// works in every distribution, source builds and binary releases alike.
package configs

import _ "embed"

// ConfigTemplate is the commented template written by `zeroindex init`.
// To modify it, edit zeroindex.example.yaml and rebuild.
//
//go:embed zeroindex.example.yaml
var ConfigTemplate string
