// Package pongo2tpl is the pongo2-backed rendering engine with the widget
// directives installed: load_widgets, widget, nested_widget, form_field,
// reuse, and the flatattrs filter.
//
// Widget libraries are regular pongo2 templates whose top-level blocks are
// the widgets; extends chains between library templates layer overrides, the
// most derived template winning. A typical page:
//
//	{% load_widgets form="widgets/form.html" %}
//	{% widget "form:TextInput" name="email" value=user.Email %}
//	{% nested_widget "form:FieldWrapper" label="Email" %}
//	  {% widget ":TextInput" name="email" %}
//	{% endnested %}
//
// Nested content reaches the wrapping widget pre-rendered under the content
// variable; since pongo2 autoescapes interpolations, wrapper widgets emit it
// with {{ content|safe }}.
package pongo2tpl
