// Package diag defines the diagnostic model produced by semantic analysis.
//
// A Diagnostic is structured data only: a Code from a closed set, a primary
// span and the typed payload a renderer needs (secondary spans, identifiers,
// types, arities). Message text is built by internal/diagfmt; nothing here
// formats or prints.
//
// Producers emit through Reporter. BagReporter collects into a Bag that the
// driver sorts, deduplicates and truncates before rendering.
//
// SemaBypass is special: it marks a node whose failure was already reported
// for one of its children. Sema records it in its per-node error table but
// never hands it to a Reporter.
package diag
