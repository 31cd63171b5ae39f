package lexgen

// Package lexgen compiles lexicon schema documents into typed source files.
//
// - A registry joins the user's lexicon tree with bundled well-known lexicons
// - References are resolved lazily from (reference, owning NSID) pairs
// - Every record and object definition becomes one class with fields in source order
// - Emitters render the classes for a target (python, go, jsonschema)
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Lexicon parsing lives in lexicon/, document indexing in registry/ and the CLI under cmd/lexgen.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  docs, err := registry.LoadDir("./lexicons", logger)
//  reg := registry.New(docs, bundled.MustLoad())
//  files, err := lexgen.Generate(reg, lexgen.Options{Prefix: "models"})
//  paths, err := lexgen.Write(files, "./generated")
//
