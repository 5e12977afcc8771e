package main

import (
	"os"

	"github.com/erraggy/oasref"
	"github.com/erraggy/oasref/cmd/oasref/commands"
	"github.com/erraggy/oasref/internal/cliutil"
)

// commandNames lists the subcommands offered as suggestions for typos.
var commandNames = []string{"resolve", "join", "mcp", "version", "help"}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	var err error
	switch command := args[0]; command {
	case "version", "-v", "--version":
		cliutil.Writef(os.Stdout, "oasref v%s\n", oasref.Version())
		return 0
	case "help", "-h", "--help":
		printUsage()
		return 0
	case "resolve":
		err = commands.HandleResolve(args[1:])
	case "join":
		err = commands.HandleJoin(args[1:])
	case "mcp":
		err = commands.HandleMCP(args[1:])
	default:
		cliutil.Writef(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			cliutil.Writef(os.Stderr, "Did you mean '%s'?\n", s)
		}
		cliutil.Writef(os.Stderr, "\n")
		printUsage()
		return 1
	}

	if err != nil {
		cliutil.Writef(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// suggestCommand returns the closest command within edit distance 2, or "".
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func printUsage() {
	cliutil.Writef(os.Stdout, `oasref - $ref resolution for OpenAPI and JSON Schema documents

Usage:
  oasref <command> [options]

Commands:
  resolve     Resolve every reference in a document
  join        Join documents and resolve the result
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  oasref resolve openapi.yaml
  oasref resolve --no-markers --format json -o resolved.json openapi.yaml
  oasref join --strategy rename -o merged.yaml users.yaml orders.yaml

Run 'oasref <command> --help' for more information on a command.
`)
}
