package walker

import (
	"context"
	"errors"
	"testing"

	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/internal/testutil"
	"github.com/erraggy/oasref/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkResolvesReferences(t *testing.T) {
	doc := testutil.Parse(t, `
openapi: 3.0.3
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pets'
components:
  schemas:
    Pets:
      type: array
      items:
        $ref: '#/components/schemas/Pet'
    Pet:
      type: object
      properties:
        name:
          type: string
`)

	result, err := Walk(doc, WithMarkers(false))
	require.NoError(t, err)

	schema := testutil.Get(t, result.Document, "paths", "/pets", "get", "responses", "200", "content", "application/json", "schema")
	assert.Equal(t, "array", testutil.Get(t, schema, "type"))
	assert.Equal(t, "object", testutil.Get(t, schema, "items", "type"), "transitive reference resolved")
	assert.False(t, schema.(*document.Object).Has("$ref"))

	assert.Same(t, testutil.Get(t, result.Document, "components", "schemas", "Pets"), schema,
		"a target is walked once and shared")
	assert.Len(t, result.References, 2)
	assert.False(t, result.HasCircularRefs())

	// The input is not modified.
	original := testutil.Get(t, doc, "paths", "/pets", "get", "responses", "200", "content", "application/json", "schema")
	assert.Equal(t, "#/components/schemas/Pets", testutil.Get(t, original, "$ref"))
}

func TestWalkPreservesSelfReference(t *testing.T) {
	doc := testutil.Parse(t, `
definitions:
  a:
    type: object
    properties:
      x:
        $ref: '#/definitions/a'
`)

	result, err := Walk(doc, WithMarkers(false))
	require.NoError(t, err)

	a := testutil.Get(t, result.Document, "definitions", "a")
	assert.Same(t, a, testutil.Get(t, a, "properties", "x"), "result.x is result")

	require.Len(t, result.CircularRefs, 1)
	assert.Equal(t, CircularRef{From: "#/definitions/a/properties/x", To: "#/definitions/a"}, result.CircularRefs[0])
	assert.True(t, result.References[0].Circular)

	data, err := document.EncodeJSON(result.Document, "")
	require.NoError(t, err, "cyclic output still encodes")
	assert.Contains(t, string(data), `"x":{"$ref":"#/definitions/a"}`)
}

func TestWalkMutualRecursion(t *testing.T) {
	doc := testutil.Parse(t, `
components:
  schemas:
    Parent:
      type: object
      properties:
        child:
          $ref: '#/components/schemas/Child'
    Child:
      type: object
      properties:
        parent:
          $ref: '#/components/schemas/Parent'
`)

	result, err := Walk(doc)
	require.NoError(t, err)

	parent := testutil.Get(t, result.Document, "components", "schemas", "Parent")
	child := testutil.Get(t, result.Document, "components", "schemas", "Child")
	assert.Same(t, child, testutil.Get(t, parent, "properties", "child"))
	assert.Same(t, parent, testutil.Get(t, child, "properties", "parent"))
	assert.Same(t, parent, testutil.Get(t, parent, "properties", "child", "properties", "parent"))
}

func TestWalkNumericPathSegment(t *testing.T) {
	doc := testutil.Parse(t, `
definitions:
  "2":
    type: integer
use:
  $ref: '#/definitions/2'
`)

	result, err := Walk(doc, WithMarkers(false))
	require.NoError(t, err)
	assert.Equal(t, "integer", testutil.Get(t, result.Document, "use", "type"))
}

func TestWalkURLEncodedReference(t *testing.T) {
	doc := testutil.Parse(t, `
definitions:
  /path{id}:
    type: string
encoded:
  $ref: '%23%2Fdefinitions%2F~1path%7Bid%7D'
decoded:
  $ref: '#/definitions/~1path{id}'
`)

	result, err := Walk(doc, WithMarkers(false))
	require.NoError(t, err)
	assert.Same(t, testutil.Get(t, result.Document, "decoded"), testutil.Get(t, result.Document, "encoded"))
}

func TestWalkIdempotent(t *testing.T) {
	doc := testutil.Parse(t, `
openapi: 3.1.0
info:
  title: Resolved
  version: "1"
components:
  schemas:
    Node:
      type: object
      properties:
        next:
          $ref: '#/components/schemas/Node'
        tags:
          type: array
          items:
            type: string
`)

	first, err := Walk(doc)
	require.NoError(t, err)

	second, err := Walk(first.Document)
	require.NoError(t, err)
	assert.True(t, document.Equal(first.Document, second.Document))
	assert.Empty(t, second.References)

	node := testutil.Get(t, second.Document, "components", "schemas", "Node")
	assert.Same(t, node, testutil.Get(t, node, "properties", "next"), "cycle survives a second walk")
	assert.NotSame(t, testutil.Get(t, first.Document, "components", "schemas", "Node"), node)
}

func TestWalkWithoutReferencesIsUnchanged(t *testing.T) {
	doc := testutil.Parse(t, `
swagger: "2.0"
info: {title: t, version: "1"}
paths:
  /a:
    get:
      parameters: [{name: q, in: query, type: string}]
`)

	result, err := Walk(doc)
	require.NoError(t, err)
	assert.True(t, document.Equal(doc, result.Document))
	assert.NotSame(t, doc, result.Document)
}

func TestWalkErrors(t *testing.T) {
	t.Run("unresolvable reference names the URI", func(t *testing.T) {
		doc := testutil.Parse(t, `
paths:
  /a:
    $ref: '#/definitions/missing'
`)
		_, err := Walk(doc)
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrReference))
		assert.Contains(t, err.Error(), "#/definitions/missing")
	})

	t.Run("pure reference loop", func(t *testing.T) {
		doc := testutil.Parse(t, `
a:
  $ref: '#/b'
b:
  $ref: '#/a'
`)
		_, err := Walk(doc)
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrCircularReference))
	})

	t.Run("self loop", func(t *testing.T) {
		doc := testutil.Parse(t, `
a:
  $ref: '#/a'
`)
		_, err := Walk(doc)
		assert.True(t, errors.Is(err, oaserrors.ErrCircularReference))
	})

	t.Run("duplicate anchor", func(t *testing.T) {
		doc := testutil.Parse(t, `
a: {$anchor: x}
b: {$anchor: x}
`)
		_, err := Walk(doc)
		assert.True(t, errors.Is(err, oaserrors.ErrDuplicateIdentifier))
	})

	t.Run("depth limit", func(t *testing.T) {
		doc := testutil.Parse(t, `
a: {b: {c: {d: {e: 1}}}}
`)
		_, err := Walk(doc, WithMaxDepth(3))
		var limitErr *oaserrors.ResourceLimitError
		require.True(t, errors.As(err, &limitErr))
		assert.Equal(t, int64(3), limitErr.Limit)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Walk(testutil.Parse(t, `a: 1`), WithUserContext(ctx))
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestWalkMarkers(t *testing.T) {
	doc := testutil.Parse(t, `
paths:
  /pets:
    get:
      responses:
        "200":
          $ref: '#/responses/Ok'
        "201":
          $ref: '#/responses/Ok'
responses:
  Ok:
    description: ok
`)

	result, err := Walk(doc)
	require.NoError(t, err)

	ok := testutil.Get(t, result.Document, "paths", "/pets", "get", "responses", "200").(*document.Object)
	assert.Equal(t, "#/responses/Ok", ok.Value(document.MarkerResolvedFrom))
	assert.Equal(t, "#/responses/Ok", ok.Value(document.MarkerResolvedAt))
	assert.Equal(t, []string{"description", document.MarkerResolvedFrom, document.MarkerResolvedAt}, ok.Keys())

	declared := testutil.Get(t, result.Document, "responses", "Ok").(*document.Object)
	assert.Same(t, ok, declared)
	assert.Equal(t, "#/responses/Ok", declared.Value(document.MarkerResolvedFrom))

	noMarkers, err := Walk(doc, WithMarkers(false))
	require.NoError(t, err)
	ok = testutil.Get(t, noMarkers.Document, "paths", "/pets", "get", "responses", "200").(*document.Object)
	assert.False(t, ok.Has(document.MarkerResolvedFrom))
}

func TestWalkMarkersOnCycleAreAppended(t *testing.T) {
	doc := testutil.Parse(t, `
definitions:
  a:
    properties:
      x:
        $ref: '#/definitions/a'
    type: object
`)

	result, err := Walk(doc)
	require.NoError(t, err)
	a := testutil.Get(t, result.Document, "definitions", "a").(*document.Object)
	assert.Equal(t, []string{"properties", "type", document.MarkerResolvedFrom, document.MarkerResolvedAt}, a.Keys())
}

func TestWalkVisitor(t *testing.T) {
	doc := testutil.Parse(t, `
components:
  schemas:
    Pet:
      type: object
      description: internal
    Use:
      $ref: '#/components/schemas/Pet'
`)

	var components, sites []string
	result, err := Walk(doc,
		WithMarkers(false),
		WithVisitor(func(wc *WalkContext, node any) (any, error) {
			if wc.IsComponent {
				components = append(components, wc.Name)
			}
			if wc.IsReferenceSite() {
				sites = append(sites, wc.JSONPath)
			}
			if s, ok := node.(string); ok && s == "internal" {
				return "public", nil
			}
			return node, nil
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"Pet", "Use"}, components)
	assert.Equal(t, []string{"#/components/schemas/Use"}, sites)
	assert.Equal(t, "public", testutil.Get(t, result.Document, "components", "schemas", "Pet", "description"))
}

func TestWalkVisitorError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Walk(testutil.Parse(t, `a: {b: 1}`), WithVisitor(func(wc *WalkContext, node any) (any, error) {
		if wc.Name == "b" {
			return nil, boom
		}
		return node, nil
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "#/a/b")
}

func TestWalkRefHandler(t *testing.T) {
	doc := testutil.Parse(t, `
a: {$ref: '#/c'}
b: {$ref: '#/c'}
c: {type: string}
`)

	var seen []string
	_, err := Walk(doc, WithRefHandler(func(wc *WalkContext, ref *RefInfo) {
		seen = append(seen, ref.SourcePath+" -> "+ref.TargetPath)
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"#/a -> #/c", "#/b -> #/c"}, seen)
}

func TestWalkScalarAndArrayTargets(t *testing.T) {
	doc := testutil.Parse(t, `
values:
  name: pets
  list: [1, 2]
s: {$ref: '#/values/name'}
l: {$ref: '#/values/list'}
`)

	result, err := Walk(doc)
	require.NoError(t, err)
	assert.Equal(t, "pets", testutil.Get(t, result.Document, "s"))
	assert.Equal(t, []any{int64(1), int64(2)}, testutil.Get(t, result.Document, "l"))
}

func TestWalkAnchorsAndDynamicRefs(t *testing.T) {
	doc := testutil.Parse(t, `
$defs:
  tree:
    $id: https://example.com/tree
    $dynamicAnchor: node
    type: object
    properties:
      children:
        type: array
        items:
          $dynamicRef: '#node'
  strictTree:
    $id: https://example.com/strict-tree
    $dynamicAnchor: node
    allOf:
      - $ref: tree
    unevaluatedProperties: false
  named:
    $anchor: leaf
    type: string
useStrict:
  $ref: 'https://example.com/strict-tree'
useLeaf:
  $ref: '#leaf'
`)

	result, err := Walk(doc, WithMarkers(false))
	require.NoError(t, err)

	assert.Equal(t, "string", testutil.Get(t, result.Document, "useLeaf", "type"))

	tree := testutil.Get(t, result.Document, "$defs", "tree")
	assert.Same(t, tree, testutil.Get(t, tree, "properties", "children", "items"),
		"entered lexically, the tree's dynamic anchor is itself")

	strict := testutil.Get(t, result.Document, "useStrict")
	assert.Same(t, testutil.Get(t, result.Document, "$defs", "strictTree"), strict)
	allOf := testutil.Get(t, strict, "allOf").([]any)
	require.Len(t, allOf, 1)
	items := testutil.Get(t, allOf[0], "properties", "children", "items")
	assert.Equal(t, "https://example.com/strict-tree", testutil.Get(t, items, "$id"),
		"entered through strict-tree, the outermost dynamic anchor wins")
}
