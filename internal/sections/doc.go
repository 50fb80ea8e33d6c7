// Package sections implements the multi-language announcement document.
//
// A document is an ordered list of (tag, body) sections serialized as
// "TAG:\nbody" blocks separated by a blank line. Parsing recovers exactly one
// body per tag even when bodies are blank, patching replaces one body and
// leaves every other byte alone, and tags the package does not recognize are
// carried through unchanged.
package sections
