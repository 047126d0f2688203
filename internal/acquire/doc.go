// Package acquire fetches chapter pages over HTTP and extracts their readable
// text.
//
// A Client issues a single GET per Fetch, caps the body at the configured
// size, and walks the parsed HTML looking for the configured content
// selector. Selectors are deliberately small: "#id", ".class", or a bare tag
// name. When the selector matches nothing the client falls back to <main>,
// <article>, then <body>. Script, style, and edit-link chrome are dropped and
// block elements become line breaks.
package acquire
