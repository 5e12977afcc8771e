package joiner

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasref/document"
)

// identifiers tracks the $anchor, $dynamicAnchor and $id values declared
// while one source is merged. Renamed components take fresh identifiers so
// the merged document declares each one once.
type identifiers struct {
	// existing holds what the accumulated document declares.
	existing identifierNames
	// taken adds the incoming document and every name handed out so far.
	taken identifierNames
}

type identifierNames struct {
	anchors map[string]bool
	ids     map[string]bool
}

func newIdentifierNames() identifierNames {
	return identifierNames{anchors: make(map[string]bool), ids: make(map[string]bool)}
}

func newIdentifiers(out, incoming *document.Object) *identifiers {
	ids := &identifiers{existing: newIdentifierNames(), taken: newIdentifierNames()}
	ids.existing.collect(out, make(map[any]bool))
	ids.taken.collect(out, make(map[any]bool))
	ids.taken.collect(incoming, make(map[any]bool))
	return ids
}

// collect records every identifier declared anywhere below v, whatever its
// scope.
func (n identifierNames) collect(v any, seen map[any]bool) {
	switch node := v.(type) {
	case *document.Object:
		if node == nil || seen[node] {
			return
		}
		seen[node] = true
		for _, key := range []string{document.KeyAnchor, document.KeyDynamicAnchor} {
			if name, ok := node.Value(key).(string); ok {
				n.anchors[name] = true
			}
		}
		if id, ok := node.Value(document.KeyID).(string); ok {
			base, fragment, _ := strings.Cut(id, "#")
			if base != "" {
				n.ids[base] = true
			}
			if fragment != "" && !strings.HasPrefix(fragment, "/") {
				n.anchors[fragment] = true
			}
		}
		for _, child := range node.All() {
			n.collect(child, seen)
		}
	case []any:
		if len(node) == 0 || seen[&node[0]] {
			return
		}
		seen[&node[0]] = true
		for _, item := range node {
			n.collect(item, seen)
		}
	}
}

// rename rewrites the identifiers declared in the root scope of a renamed
// component that the accumulated document already declares. Below a
// renamed $id the nested identifiers belong to the new scope and are left
// alone. Every rename is registered on rw.
func (ids *identifiers) rename(v any, rw *RefRewriter, seen map[any]bool) {
	switch node := v.(type) {
	case *document.Object:
		if node == nil || seen[node] {
			return
		}
		seen[node] = true
		if id, ok := node.Value(document.KeyID).(string); ok {
			base, fragment, hasFragment := strings.Cut(id, "#")
			if base != "" {
				if ids.existing.ids[base] {
					newBase := ids.renameID(base, rw)
					if hasFragment {
						newBase += "#" + fragment
					}
					node.Set(document.KeyID, newBase)
				}
				return
			}
			if fragment != "" && !strings.HasPrefix(fragment, "/") {
				node.Set(document.KeyID, "#"+ids.renameAnchor(fragment, rw))
			}
		}
		for _, key := range []string{document.KeyAnchor, document.KeyDynamicAnchor} {
			if name, ok := node.Value(key).(string); ok {
				node.Set(key, ids.renameAnchor(name, rw))
			}
		}
		for _, child := range node.All() {
			ids.rename(child, rw, seen)
		}
	case []any:
		if len(node) == 0 || seen[&node[0]] {
			return
		}
		seen[&node[0]] = true
		for _, item := range node {
			ids.rename(item, rw, seen)
		}
	}
}

// renameAnchor returns the name an anchor declaration takes in the merged
// document: unchanged unless the accumulated document already declares it.
func (ids *identifiers) renameAnchor(name string, rw *RefRewriter) string {
	if renamed, ok := rw.anchorRenames[name]; ok {
		return renamed
	}
	if !ids.existing.anchors[name] {
		return name
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d", name, n)
		if !ids.taken.anchors[candidate] {
			ids.taken.anchors[candidate] = true
			rw.RegisterAnchorRename(name, candidate)
			return candidate
		}
	}
}

// renameID suffixes the last path segment of an $id, ahead of any file
// extension: "widget.json" becomes "widget_1.json".
func (ids *identifiers) renameID(base string, rw *RefRewriter) string {
	if renamed, ok := rw.idRenames[base]; ok {
		return renamed
	}
	trimmed := strings.TrimSuffix(base, "/")
	trailing := base[len(trimmed):]
	dir, segment := "", trimmed
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		dir, segment = trimmed[:i+1], trimmed[i+1:]
	}
	stem, ext := segment, ""
	if i := strings.LastIndexByte(segment, '.'); i > 0 {
		stem, ext = segment[:i], segment[i:]
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s%s_%d%s%s", dir, stem, n, ext, trailing)
		if !ids.taken.ids[candidate] {
			ids.taken.ids[candidate] = true
			rw.RegisterIDRename(base, candidate)
			return candidate
		}
	}
}
