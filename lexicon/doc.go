// Package lexicon models lexicon schema documents: a namespaced set of named
// definitions describing records, objects and RPC methods.
//
// Only record and object definitions carry property shapes; every other
// definition type is kept as an inert Other value. Definitions and object
// properties keep the order in which they appear in the source document.
package lexicon
