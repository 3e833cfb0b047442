// Package configs provides the embedded configuration template for
// graphseek. The template is embedded at build time so it is available
// in every distribution; `graphseek init` writes it to the working
// directory.
package configs

import _ "embed"

// ConfigTemplate is the annotated starter configuration written by
// `graphseek init`.
//
//go:embed config.example.yaml
var ConfigTemplate string
