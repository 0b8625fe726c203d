// Package templates renders the site's page templates.
//
// Templates use text/template syntax with lower-case keys ({{.title}}) and
// fail on missing keys. Built-in defaults are embedded; a templates
// directory may override any of them file by file. Values are inserted
// verbatim, so callers escape user text before passing it in.
package templates
