// Package markup converts forum BBCode-style post bodies to HTML.
//
// Conversion is an ordered cascade of named stages. Later stages see the
// output of earlier ones, so the order in DefaultStages is part of the
// output contract: line breaks are expanded first and lists last, which is
// why list items strip the <br> markers the first stage inserted.
//
// Tags that do not match a stage pattern (unclosed, malformed) are left as
// literal text. Render never fails.
package markup
