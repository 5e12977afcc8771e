// Package joiner merges several API documents into one resolved document.
//
// Every input is resolved on its own first, so a broken document is reported
// by name and nothing is merged. The documents are then merged in order:
//
//   - Component sections (components/<section> in OpenAPI 3, and the Swagger
//     2.0 top-level definitions, parameters, responses and
//     securityDefinitions) are merged entry by entry.
//   - paths and webhooks are merged path by path and, for a path present in
//     more than one document, operation by operation. The earlier operation
//     is kept.
//   - Every other top-level key is replaced by the last document that
//     declares it, keeping the position of its first appearance.
//
// The merged document is finally resolved with the walker package, so the
// result contains no references except the links of preserved cycles.
//
// # Quick Start
//
//	result, err := joiner.JoinWithOptions(
//		joiner.WithSources(
//			joiner.Source{Name: "users.yaml", Document: users.Data},
//			joiner.Source{Name: "billing.yaml", Document: billing.Data},
//		),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	_ = joiner.WriteResult(result, "merged.yaml")
//
// Inputs come from WithSources (named) or WithDocuments (named "document 1",
// "document 2", ...), never both. WithConflictStrategy, WithNoMarkers and
// WithOutputFormat adjust single settings, WithConfig replaces them all, and
// WithLogger with WithVerbose reports each merge step.
//
// # Conflict Strategies
//
// Two documents declaring the same component collide:
//   - StrategyRename (default): the incoming component becomes <name>_1
//     (or _2, ...) and every $ref, $dynamicRef and discriminator mapping in
//     the incoming document that pointed at it is rewritten
//   - StrategyError: the join fails with *oaserrors.ComponentConflictError
//   - StrategyIgnore: the incoming component is dropped and the incoming
//     document's references resolve to the earlier component
//
// Renames are listed in JoinResult.Renames and every collision is detailed
// in JoinResult.Collisions.
package joiner
