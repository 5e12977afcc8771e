package joiner

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/internal/pathutil"
	"github.com/erraggy/oasref/internal/severity"
	"github.com/erraggy/oasref/jsonptr"
	"github.com/erraggy/oasref/oaserrors"
	"github.com/erraggy/oasref/parser"
	"github.com/erraggy/oasref/resolver"
)

// Top-level keys merged entry by entry.
const (
	keyPaths    = "paths"
	keyWebhooks = "webhooks"
)

// operationMethods lists the path item keys holding operations.
var operationMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace", "query"}

// merger accumulates documents into out.
type merger struct {
	strategy ConflictStrategy
	result   *JoinResult
	log      parser.Logger
	out      *document.Object
	// origin maps the pointer of every merged component, path item and
	// top-level key to the source that contributed it.
	origin map[string]string
}

func newMerger(strategy ConflictStrategy, result *JoinResult, log parser.Logger) *merger {
	return &merger{
		strategy: strategy,
		result:   result,
		log:      log,
		out:      document.NewObject(8),
		origin:   make(map[string]string),
	}
}

// section is one named-component section of a document.
type section struct {
	name    string
	legacy  bool
	entries *document.Object
}

func (s section) location(name string) jsonptr.ComponentLocation {
	return jsonptr.ComponentLocation{Section: s.name, Name: name, Legacy: s.legacy}
}

// sectionsOf lists the component sections of doc: components/<section> and
// the Swagger 2.0 top-level sections.
func sectionsOf(doc *document.Object) []section {
	var out []section
	if comps, ok := document.AsObject(doc.Value(pathutil.ComponentsKey)); ok {
		for name, v := range comps.All() {
			if entries, ok := document.AsObject(v); ok {
				out = append(out, section{name: name, entries: entries})
			}
		}
	}
	for _, name := range pathutil.LegacySections {
		if entries, ok := document.AsObject(doc.Value(name)); ok {
			out = append(out, section{name: name, legacy: true, entries: entries})
		}
	}
	return out
}

// entries returns the accumulated section matching s, or nil.
func (m *merger) entries(s section) *document.Object {
	parent := m.out
	if !s.legacy {
		comps, ok := document.AsObject(m.out.Value(pathutil.ComponentsKey))
		if !ok {
			return nil
		}
		parent = comps
	}
	entries, _ := document.AsObject(parent.Value(s.name))
	return entries
}

// add merges one source into the accumulated document.
func (m *merger) add(src Source) error {
	doc, _ := document.AsObject(document.Clone(src.Document))
	log := m.log.With("source", src.Name)

	rw, err := m.resolveCollisions(src.Name, doc)
	if err != nil {
		return err
	}
	if rw.Len() > 0 {
		n := rw.Rewrite(doc)
		log.Debug("rewrote references to renamed components", "renames", rw.Len(), "rewritten", n)
	}

	for key, v := range doc.All() {
		if v == nil && isMergedSection(key) {
			setIfAbsent(m.out, key)
			continue
		}
		switch {
		case key == pathutil.ComponentsKey:
			m.mergeComponents(v, src.Name)
		case slices.Contains(pathutil.LegacySections, key) && isObject(v):
			m.mergeEntries(m.out, key, jsonptr.Keys(key), v, src.Name)
		case key == keyPaths || key == keyWebhooks:
			if err := m.mergePaths(key, v, src.Name); err != nil {
				return err
			}
		default:
			m.overwrite(key, v, src.Name)
		}
	}
	log.Debug("merged document", "keys", doc.Len())
	return nil
}

func isObject(v any) bool {
	_, ok := document.AsObject(v)
	return ok
}

// isMergedSection reports whether key is merged entry by entry rather than
// overwritten.
func isMergedSection(key string) bool {
	return key == pathutil.ComponentsKey || key == keyPaths || key == keyWebhooks ||
		slices.Contains(pathutil.LegacySections, key)
}

// setIfAbsent records an empty section without discarding what earlier
// sources contributed to it.
func setIfAbsent(parent *document.Object, key string) {
	if !parent.Has(key) {
		parent.Set(key, nil)
	}
}

// resolveCollisions applies the conflict strategy to every component of doc
// already present in the accumulated document. Renames are applied to doc in
// place and registered on the returned rewriter.
func (m *merger) resolveCollisions(source string, doc *document.Object) (*RefRewriter, error) {
	rw := NewRefRewriter()
	var ids *identifiers
	for _, s := range sectionsOf(doc) {
		existing := m.entries(s)
		if existing == nil {
			continue
		}
		for _, name := range s.entries.Keys() {
			if !existing.Has(name) {
				continue
			}
			loc := s.location(name)
			event := CollisionEvent{
				Section:     s.name,
				Name:        name,
				Pointer:     loc.Ref(),
				LeftSource:  m.origin[loc.Ref()],
				RightSource: source,
				Strategy:    m.strategy,
			}

			switch m.strategy {
			case StrategyError:
				event.Resolution = ResolutionFailed
				event.Severity = severity.SeverityError
				m.result.Collisions.AddEvent(event)
				return nil, &oaserrors.ComponentConflictError{Section: s.name, Name: name, Source: source}

			case StrategyIgnore:
				s.entries.Delete(name)
				event.Resolution = ResolutionKeptEarlier
				event.Severity = severity.SeverityWarning
				m.result.AddWarning(NewComponentIgnoredWarning(s.name, name, loc.Ref(), event.LeftSource, source))
				m.log.Debug("ignored colliding component", "component", loc.String(), "source", source)

			default:
				newName := uniqueName(name, existing, s.entries)
				s.entries.Rename(name, newName)
				rw.RegisterRename(loc, newName)
				if ids == nil {
					ids = newIdentifiers(m.out, doc)
				}
				ids.rename(s.entries.Value(newName), rw, make(map[any]bool))
				rn := Rename{Source: source, Section: s.name, From: name, To: newName}
				m.result.Renames = append(m.result.Renames, rn)
				event.Resolution = ResolutionRenamed
				event.NewName = newName
				event.Severity = severity.SeverityInfo
				m.result.AddWarning(NewComponentRenamedWarning(rn, loc.Ref()))
				m.log.Debug("renamed colliding component", "component", loc.String(), "to", newName, "source", source)
			}
			m.result.Collisions.AddEvent(event)
		}
	}
	return rw, nil
}

// uniqueName returns <name>_<n> for the smallest n free in both sections.
func uniqueName(name string, existing, incoming *document.Object) string {
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d", name, n)
		if !existing.Has(candidate) && !incoming.Has(candidate) {
			return candidate
		}
	}
}

func (m *merger) mergeComponents(v any, source string) {
	comps, ok := document.AsObject(v)
	if !ok {
		m.overwrite(pathutil.ComponentsKey, v, source)
		return
	}
	dst, ok := document.AsObject(m.out.Value(pathutil.ComponentsKey))
	if !ok {
		dst = document.NewObject(comps.Len())
		m.out.Set(pathutil.ComponentsKey, dst)
	}
	for name, entries := range comps.All() {
		m.mergeEntries(dst, name, jsonptr.Keys(pathutil.ComponentsKey, name), entries, source)
	}
}

// mergeEntries adds the entries of one section. Collisions were resolved
// beforehand, so any remaining entry is new.
func (m *merger) mergeEntries(parent *document.Object, name string, at jsonptr.Path, v any, source string) {
	if v == nil {
		setIfAbsent(parent, name)
		return
	}
	entries, ok := document.AsObject(v)
	if !ok {
		parent.Set(name, v)
		return
	}
	dst, ok := document.AsObject(parent.Value(name))
	if !ok {
		dst = document.NewObject(entries.Len())
		parent.Set(name, dst)
	}
	for key, entry := range entries.All() {
		dst.Set(key, entry)
		m.origin[jsonptr.FormatPointer(at.Append(jsonptr.StringKey(key)))] = source
	}
}

func (m *merger) mergePaths(key string, v any, source string) error {
	items, ok := document.AsObject(v)
	if !ok {
		m.overwrite(key, v, source)
		return nil
	}
	dst, ok := document.AsObject(m.out.Value(key))
	if !ok {
		dst = document.NewObject(items.Len())
		m.out.Set(key, dst)
	}
	for path, item := range items.All() {
		pointer := jsonptr.FormatPointer(jsonptr.Keys(key, path))
		existing, found := dst.Get(path)
		if !found {
			dst.Set(path, item)
			m.origin[pointer] = source
			continue
		}
		if err := m.mergePathItem(key, path, pointer, existing, item, source); err != nil {
			return err
		}
	}
	return nil
}

// mergePathItem merges two declarations of the same path operation by
// operation. Path-level fields present in both keep the earlier value.
func (m *merger) mergePathItem(key, path, pointer string, existing, incoming any, source string) error {
	first := m.origin[pointer]
	ex, ok1 := document.AsObject(existing)
	in, ok2 := document.AsObject(incoming)
	if !ok1 || !ok2 || resolver.IsReference(ex) || resolver.IsReference(in) {
		if err := m.pathCollision(key, path, pointer, first, source); err != nil {
			return err
		}
		m.result.AddWarning(NewPathItemCollisionWarning(path, pointer, first, source))
		return nil
	}

	for field, v := range in.All() {
		opPointer := jsonptr.FormatPointer(jsonptr.Keys(key, path, field))
		if !ex.Has(field) {
			ex.Set(field, v)
			m.origin[opPointer] = source
			continue
		}
		if !slices.Contains(operationMethods, field) {
			m.log.Debug("kept earlier path item field", "path", path, "field", field, "source", source)
			continue
		}
		opFirst := first
		if o, ok := m.origin[opPointer]; ok {
			opFirst = o
		}
		if err := m.pathCollision(key, strings.ToUpper(field)+" "+path, opPointer, opFirst, source); err != nil {
			return err
		}
		m.result.AddWarning(NewOperationCollisionWarning(path, field, opPointer, opFirst, source))
	}
	return nil
}

// pathCollision records a colliding path or operation; the earlier one is
// kept unless the strategy forbids collisions.
func (m *merger) pathCollision(section, name, pointer, first, source string) error {
	event := CollisionEvent{
		Section:     section,
		Name:        name,
		Pointer:     pointer,
		LeftSource:  first,
		RightSource: source,
		Strategy:    m.strategy,
		Resolution:  ResolutionKeptEarlier,
		Severity:    severity.SeverityWarning,
	}
	if m.strategy == StrategyError {
		event.Resolution = ResolutionFailed
		event.Severity = severity.SeverityError
		m.result.Collisions.AddEvent(event)
		return &oaserrors.ComponentConflictError{Section: section, Name: name, Source: source}
	}
	m.result.Collisions.AddEvent(event)
	return nil
}

// overwrite replaces a top-level value. The key keeps the position of its
// first appearance.
func (m *merger) overwrite(key string, v any, source string) {
	pointer := jsonptr.FormatPointer(jsonptr.Keys(key))
	if old, ok := m.out.Get(key); ok && !document.Equal(old, v) {
		m.result.AddWarning(NewTopLevelOverrideWarning(key, m.origin[pointer], source))
	}
	m.out.Set(key, v)
	m.origin[pointer] = source
}
