// Package forms derives widget block names and template data from bound form
// fields, so a single form_field directive can pick the right widget without
// the template author naming one. Field metadata is plain data (see
// BoundField); schema-backed sources live in the openapi subpackage.
package forms
