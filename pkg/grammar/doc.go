// Package grammar defines the contract between the query analysis layer
// and an external grammar-based SQL parsing engine.
//
// The analysis layer never lexes or parses SQL itself (outside of the
// quote-aware splitter for the one dialect with no grammar). Everything it
// knows about a statement comes through the Engine interface: a parsed
// Node tree, a Scope tree from the engine's resolver, and generated text.
// Keeping the contract this narrow means the core can be tested against a
// fake engine (see grammartest) and bound to any real parser.
package grammar
