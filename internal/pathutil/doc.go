// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

// Package pathutil provides JSON Pointer building utilities for document
// traversal.
//
// The primary type is [PathBuilder], which uses push/pop semantics to build
// RFC 6901 pointers incrementally without allocating intermediate strings.
// This is useful in recursive traversal where the pointer is only needed when
// a node must be reported or linked back to.
//
// # PathBuilder Usage
//
// Use [Get] to obtain a pooled PathBuilder, and [Put] to return it:
//
//	path := pathutil.Get()
//	defer pathutil.Put(path)
//
//	path.Push("paths")
//	path.Push("/pets/{id}")
//	path.PushIndex(0)
//	// ... recurse ...
//	path.Pop()
//
//	fmt.Println(path.String()) // "#/paths/~1pets~1{id}"
//
// # Token Escaping
//
// [EscapeToken] and [UnescapeToken] implement the "~0"/"~1" escaping of
// RFC 6901 reference tokens.
//
// # Section Keys
//
// [ComponentsKey] and [LegacySections] name the locations of reusable
// components in OAS 3.x and OAS 2.0 documents.
//
// # Output Path Sanitization
//
// [SanitizeOutputPath] validates and cleans output file paths for security.
// It rejects symlinks:
//
//	safe, err := pathutil.SanitizeOutputPath(userProvidedPath)
//	if err != nil {
//	    return err
//	}
package pathutil
