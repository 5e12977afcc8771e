// Package parser loads API description documents into document trees.
//
// YAML and JSON sources are decoded into the generic values of package
// document: *document.Object for mappings (key order preserved), []any for
// sequences, and nil, bool, int64, uint64, float64 or string for scalars.
// Mapping keys are always strings, so a response code written as 200 becomes
// the key "200". A YAML alias decodes to the same container as its anchor.
//
// The parser does not follow $ref; that is the walker's job.
//
// # Quick Start
//
//	result, err := parser.ParseWithOptions(
//		parser.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	walked, err := walker.Walk(result.Data)
//
// Sources may also be http(s) URLs. Fetches use a 30 second timeout unless
// WithHTTPClient supplies a client, and send the User-Agent "oasref/<version>".
//
// # Options
//
// Exactly one input is required: WithFilePath (a path or URL), WithReader or
// WithBytes. WithSourceName overrides the reported SourcePath, which is
// useful for stdin. WithUserAgent and WithHTTPClient control URL fetches.
// WithLogger receives a debug record per loaded document.
//
// # Limits and Errors
//
// Every source is capped at DefaultMaxFileSize (10 MiB) unless
// WithMaxFileSize says otherwise; an oversized source fails with
// *oaserrors.ResourceLimitError. Malformed input fails with
// *oaserrors.ParseError carrying the line and column when known.
package parser
