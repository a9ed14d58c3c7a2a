// Package tmpl implements the small directive language used by the resume
// templates:
//
//	{% for item in dotted.path %} ... {% endfor %}
//	{% if dotted.path %} ... {% endif %}
//	{% if not dotted.path %} ... {% endif %}
//	{{ dotted.path }}   {{- dotted.path -}}
//
// Inside a loop body the loop variable and loop.index, loop.index0,
// loop.first, loop.last and loop.length are in scope.
//
// Rendering is lenient: missing data renders as empty text, and unbalanced
// or unknown block tags are dropped while the text around them is kept.
package tmpl
