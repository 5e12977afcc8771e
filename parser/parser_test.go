package parser

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/erraggy/oasref"
	"github.com/erraggy/oasref/document"
	"github.com/erraggy/oasref/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstoreYAML = `openapi: 3.1.0
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      responses:
        200:
          $ref: '#/components/responses/PetList'
components:
  responses:
    PetList:
      description: pets
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseFile(t *testing.T) {
	path := writeFile(t, "petstore.yaml", petstoreYAML)

	result, err := New().Parse(path)
	require.NoError(t, err)

	assert.Equal(t, path, result.SourcePath)
	assert.Equal(t, SourceFormatYAML, result.SourceFormat)
	assert.Equal(t, int64(len(petstoreYAML)), result.SourceSize)

	root, ok := document.AsObject(result.Data)
	require.True(t, ok)
	assert.Equal(t, []string{"openapi", "info", "paths", "components"}, root.Keys())
}

func TestParseFormatDetection(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    SourceFormat
	}{
		{"json extension", "api.json", `{"openapi": "3.1.0"}`, SourceFormatJSON},
		{"yml extension", "api.yml", "openapi: 3.1.0\n", SourceFormatYAML},
		{"json content without extension", "api", `{"openapi": "3.1.0"}`, SourceFormatJSON},
		{"yaml content without extension", "api", "openapi: 3.1.0\n", SourceFormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().Parse(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.SourceFormat)
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := New().Parse(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parser: failed to read file")
}

func TestParseSizeLimit(t *testing.T) {
	content := "description: " + strings.Repeat("x", 100) + "\n"
	p := &Parser{MaxFileSize: 32}

	t.Run("file", func(t *testing.T) {
		_, err := p.Parse(writeFile(t, "big.yaml", content))
		assertResourceLimit(t, err, int64(len(content)))
	})
	t.Run("bytes", func(t *testing.T) {
		_, err := p.ParseBytes([]byte(content))
		assertResourceLimit(t, err, int64(len(content)))
	})
	t.Run("reader", func(t *testing.T) {
		_, err := p.ParseReader(strings.NewReader(content))
		// Only limit+1 bytes are read.
		assertResourceLimit(t, err, 33)
	})
	t.Run("within limit", func(t *testing.T) {
		_, err := p.ParseBytes([]byte("a: 1\n"))
		assert.NoError(t, err)
	})
}

func assertResourceLimit(t *testing.T, err error, actual int64) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrResourceLimit))
	var limitErr *oaserrors.ResourceLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, "file_size", limitErr.ResourceType)
	assert.Equal(t, int64(32), limitErr.Limit)
	assert.Equal(t, actual, limitErr.Actual)
}

func TestParseReaderAndBytesSourcePath(t *testing.T) {
	p := New()

	result, err := p.ParseReader(strings.NewReader(`{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, "ParseReader.json", result.SourcePath)

	result, err = p.ParseBytes([]byte("a: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, "ParseBytes.yaml", result.SourcePath)
}

func TestParseBytesReportsSourceName(t *testing.T) {
	_, err := New().ParseBytes([]byte("a: [1\n"))
	var perr *oaserrors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "ParseBytes", perr.Path)
}

func TestParseURL(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/spec":
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = w.Write([]byte(`{"openapi": "3.1.0"}`))
		case "/api.yaml":
			_, _ = w.Write([]byte(petstoreYAML))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Run("content type", func(t *testing.T) {
		result, err := New().Parse(srv.URL + "/spec")
		require.NoError(t, err)
		assert.Equal(t, SourceFormatJSON, result.SourceFormat)
		assert.Equal(t, srv.URL+"/spec", result.SourcePath)
		assert.Equal(t, oasref.UserAgent(), gotAgent)
	})

	t.Run("extension and custom agent", func(t *testing.T) {
		p := &Parser{UserAgent: "custom/1.0", HTTPClient: &http.Client{Timeout: 5 * time.Second}}
		result, err := p.Parse(srv.URL + "/api.yaml")
		require.NoError(t, err)
		assert.Equal(t, SourceFormatYAML, result.SourceFormat)
		assert.Equal(t, "custom/1.0", gotAgent)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := New().Parse(srv.URL + "/missing.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
	})

	t.Run("size limit", func(t *testing.T) {
		p := &Parser{MaxFileSize: 8}
		_, err := p.Parse(srv.URL + "/api.yaml")
		assert.True(t, errors.Is(err, oaserrors.ErrResourceLimit))
	})
}

func TestDetectFormatFromURL(t *testing.T) {
	tests := []struct {
		url         string
		contentType string
		want        SourceFormat
	}{
		{"https://example.com/api.json", "", SourceFormatJSON},
		{"https://example.com/api.yaml?v=2", "application/json", SourceFormatYAML},
		{"https://example.com/api", "text/yaml", SourceFormatYAML},
		{"https://example.com/api", "APPLICATION/JSON; charset=utf-8", SourceFormatJSON},
		{"https://example.com/api", "text/plain", SourceFormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.url+" "+tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, detectFormatFromURL(tt.url, tt.contentType))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{-1, "-1 B"},
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{10 << 20, "10.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.size))
		})
	}
}
