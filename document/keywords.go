package document

// Reserved JSON Schema / OpenAPI keywords recognized by the resolver.
const (
	KeyRef           = "$ref"
	KeyDynamicRef    = "$dynamicRef"
	KeyID            = "$id"
	KeyAnchor        = "$anchor"
	KeyDynamicAnchor = "$dynamicAnchor"
)

// Extension keys written onto resolved objects.
const (
	// MarkerResolvedFrom holds the reference text that first resolved the object.
	MarkerResolvedFrom = "x-resolved-from"
	// MarkerResolvedAt holds the canonical pointer of the object's declaration.
	MarkerResolvedAt = "x-resolved-at"
)
