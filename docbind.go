// Package docbind assembles a page-oriented markdown documentation
// archive into a single print-ready book and tracks what changed
// between successive builds. It assigns each source file a stable
// chapter number, normalizes per-page content, estimates pagination,
// and computes the minimal set of output pages to reprint.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., sqlite/,
// fs/, markdown/).
package docbind
