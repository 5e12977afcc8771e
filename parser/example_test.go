package parser_test

import (
	"fmt"
	"log"

	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/parser"
)

// Example shows that decoded mappings keep their source key order and that
// numeric keys become strings.
func Example() {
	result, err := parser.ParseWithOptions(
		parser.WithBytes([]byte(`
responses:
  404: {description: missing}
  200: {description: ok}
`)),
		parser.WithSourceName("inline.yaml"),
	)
	if err != nil {
		log.Fatal(err)
	}
	root, _ := document.AsObject(result.Data)
	responses, _ := document.AsObject(root.Value("responses"))
	fmt.Println(result.SourcePath, result.SourceFormat)
	fmt.Println(responses.Keys())
	// Output:
	// inline.yaml yaml
	// [404 200]
}
