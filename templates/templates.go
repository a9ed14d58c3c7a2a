// Package templates holds the built-in resume template and record schema.
package templates

import _ "embed"

//go:embed resume.tex
var ResumeTeX string

//go:embed resume.schema.json
var ResumeSchema []byte
