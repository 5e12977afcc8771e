package walker_test

import (
	"fmt"

	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/parser"
	"github.com/erraggy/oasref/walker"
)

func ExampleWalk() {
	parsed, err := parser.ParseWithOptions(parser.WithBytes([]byte(`
definitions:
  Node:
    type: object
    properties:
      next:
        $ref: '#/definitions/Node'
`)))
	if err != nil {
		fmt.Println(err)
		return
	}

	result, err := walker.Walk(parsed.Data, walker.WithMarkers(false))
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, c := range result.CircularRefs {
		fmt.Println(c.From, "->", c.To)
	}
	out, _ := document.EncodeJSON(result.Document, "")
	fmt.Println(string(out))
	// Output:
	// #/definitions/Node/properties/next -> #/definitions/Node
	// {"definitions":{"Node":{"type":"object","properties":{"next":{"$ref":"#/definitions/Node"}}}}}
}

func ExampleWithVisitor() {
	parsed, _ := parser.ParseWithOptions(parser.WithBytes([]byte(`
paths:
  /pets:
    get:
      responses:
        "200": {$ref: '#/responses/Ok'}
responses:
  Ok: {description: ok}
`)))

	_, _ = walker.Walk(parsed.Data,
		walker.WithMarkers(false),
		walker.WithVisitor(func(wc *walker.WalkContext, node any) (any, error) {
			if wc.IsReferenceSite() {
				fmt.Println(wc.JSONPath, "from", wc.CurrentRef.Ref)
			}
			return node, nil
		}),
	)
	// Output:
	// #/paths/~1pets/get/responses/200 from #/responses/Ok
}
