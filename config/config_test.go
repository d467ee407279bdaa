package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/shaunstanislauslau/xls/errors"
	"github.com/shaunstanislauslau/xls/jit"
)

func TestParseFull(t *testing.T) {
	cfg, err := Parse([]byte(`
backend: closure
interpreter: true
max_idle_instances: 3
log:
  level: debug
  format: json
quickcheck:
  seed: 12345
  num_tests: 50
`), "xlsjit.yaml")
	require.NoError(t, err)

	assert.Equal(t, "closure", cfg.Backend)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level())
	assert.Equal(t, FormatJSON, cfg.Log.Format)
	assert.Equal(t, int64(12345), cfg.QuickCheck.Seed)
	assert.Equal(t, int64(50), cfg.QuickCheck.NumTests)

	jc := cfg.JIT()
	assert.Equal(t, jit.BackendClosure, jc.Backend)
	assert.True(t, jc.Interpreter)
	assert.Equal(t, 3, jc.MaxIdleInstances)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("quickcheck:\n  seed: 7\n"), "xlsjit.yaml")
	require.NoError(t, err)

	assert.Equal(t, string(jit.BackendAuto), cfg.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, FormatAuto, cfg.Log.Format)
	assert.Equal(t, int64(DefaultNumTests), cfg.QuickCheck.NumTests)
	assert.Equal(t, int64(7), cfg.QuickCheck.Seed)

	assert.Equal(t, Default().JIT(), (&Config{Backend: "auto"}).JIT())
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"backend", "backend: llvm\n", "backend"},
		{"idle", "max_idle_instances: -1\n", "max_idle_instances"},
		{"level", "log:\n  level: loud\n", "log.level"},
		{"format", "log:\n  format: xml\n", "log.format"},
		{"num_tests", "quickcheck:\n  num_tests: -5\n", "quickcheck.num_tests"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), "xlsjit.yaml")
			require.Error(t, err)

			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.PhaseConfig, e.Phase)
			assert.Equal(t, []string{"xlsjit.yaml", tt.field}, e.Path)
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte("backend: [unterminated\n"), "bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse bad.yaml")
}

func TestLoadAndFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := Find(nested)
	require.NoError(t, err)
	if found != "" {
		// A config above the temp dir would make the search ambiguous.
		t.Skipf("found unrelated config %s", found)
	}

	path := filepath.Join(root, "xlsjit.yml")
	require.NoError(t, os.WriteFile(path, []byte("backend: native\n"), 0o644))

	found, err = Find(nested)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	cfg, err := Load(found)
	require.NoError(t, err)
	assert.Equal(t, "native", cfg.Backend)

	_, err = Load(filepath.Join(root, "missing.yaml"))
	require.Error(t, err)
}

func TestStringRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.QuickCheck.Seed = 99
	again, err := Parse([]byte(cfg.String()), "round.yaml")
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}
