package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	name  string
	limit int
}

func TestApply(t *testing.T) {
	cfg := &testConfig{}
	err := Apply(cfg,
		func(c *testConfig) error { c.name = "a"; return nil },
		nil,
		func(c *testConfig) error { c.limit = 3; return nil },
	)
	require.NoError(t, err)
	assert.Equal(t, testConfig{name: "a", limit: 3}, *cfg)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	cfg := &testConfig{}
	err := Apply(cfg,
		func(c *testConfig) error { return boom },
		func(c *testConfig) error { c.name = "unreachable"; return nil },
	)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, cfg.name)
}

func TestValidateSingleInputSource(t *testing.T) {
	tests := []struct {
		name    string
		sources []bool
		want    string
	}{
		{"none", []bool{false, false, false}, "none set"},
		{"no flags", nil, "none set"},
		{"one", []bool{false, true, false}, ""},
		{"two", []bool{true, true, false}, "too many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSingleInputSource("none set", "too many", tt.sources...)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestCountSet(t *testing.T) {
	assert.Equal(t, 0, CountSet())
	assert.Equal(t, 2, CountSet(true, false, true))
}
