package walker

// RefInfo contains information about a resolved reference site.
type RefInfo struct {
	// Ref is the reference text (e.g., "#/components/schemas/User")
	Ref string

	// Keyword is "$ref" or "$dynamicRef"
	Keyword string

	// SourcePath is the pointer of the reference object
	SourcePath string

	// TargetPath is the pointer of the resolved target
	TargetPath string

	// Circular is true when the target was still being walked, so the
	// output links back to an enclosing node
	Circular bool
}

// RefHandler is called for every resolved reference site.
type RefHandler func(wc *WalkContext, ref *RefInfo)

// CircularRef is a reference site whose output links back to an enclosing node.
type CircularRef struct {
	// From is the pointer of the reference object
	From string
	// To is the pointer of the target
	To string
}
