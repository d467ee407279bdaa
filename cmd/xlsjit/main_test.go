package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaunstanislauslau/xls/quickcheck"
)

const adderIR = `
package demo

fn adder(a: bits[8], b: bits[8]) -> bits[8] {
  ret sum: bits[8] = add(a, b)
}
`

const sampleIR = `
fn sample(x: bits[8], t: (bits[4], bits[70])) -> bits[8] {
  lo: bits[4] = tuple_index(t, index=0)
  z: bits[8] = zero_ext(lo, new_bit_count=8)
  ret s: bits[8] = add(x, z)
}
`

const propertyIR = `
package props

fn always(x: bits[32]) -> bits[1] {
  ret eq_value: bits[1] = eq(x, x)
}

top fn adjacent_bits(x: bits[2]) -> bits[1] {
  first_bit: bits[1] = bit_slice(x, start=0, width=1)
  second_bit: bits[1] = bit_slice(x, start=1, width=1)
  ret eq_value: bits[1] = eq(first_bit, second_bit)
}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the CLI with a quiet config and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := writeFile(t, "xlsjit.yaml", "log:\n  level: error\n  format: json\n")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"run", "quickcheck", "replay", "dump", "interactive"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := newRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	for _, name := range []string{"config", "backend", "log-format"} {
		f := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, "", f.DefValue, name)
	}
}

func TestRunPositional(t *testing.T) {
	path := writeFile(t, "adder.ir", adderIR)
	for _, backend := range []string{"native", "closure"} {
		t.Run(backend, func(t *testing.T) {
			out, err := execute(t, "--backend", backend, "run", path, "0x3", "0x4")
			require.NoError(t, err)
			assert.Equal(t, "bits[8]:0x7\n", out)
		})
	}
}

func TestRunNamed(t *testing.T) {
	path := writeFile(t, "adder.ir", adderIR)

	out, err := execute(t, "run", path, "b=0xff", "a=2")
	require.NoError(t, err)
	assert.Equal(t, "bits[8]:0x1\n", out)

	_, err = execute(t, "run", path, "a=1", "c=2")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, exitCode(err))
	assert.Contains(t, err.Error(), "unknown_arg")

	_, err = execute(t, "run", path, "a=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_arg")

	_, err = execute(t, "run", path, "a=1", "0x2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot mix")
}

func TestRunTupleArgument(t *testing.T) {
	path := writeFile(t, "sample.ir", sampleIR)
	out, err := execute(t, "run", path, "0x5", "(0x3, 0x0)")
	require.NoError(t, err)
	assert.Equal(t, "bits[8]:0x8\n", out)
}

func TestRunPacked(t *testing.T) {
	path := writeFile(t, "adder.ir", adderIR)
	out, err := execute(t, "run", "--packed", path, "0x03", "f0")
	require.NoError(t, err)
	assert.Equal(t, "f3\n", out)

	_, err = execute(t, "run", "--packed", path, "0301", "f0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shape")

	_, err = execute(t, "run", "--packed", path, "zz", "f0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax")
}

func TestRunErrors(t *testing.T) {
	path := writeFile(t, "adder.ir", adderIR)

	_, err := execute(t, "run", path, "0x3")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, exitCode(err))
	assert.Contains(t, err.Error(), "arg_count")

	_, err = execute(t, "run", path, "0x3", "(0x1)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type_mismatch")

	_, err = execute(t, "run", filepath.Join(t.TempDir(), "missing.ir"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, exitCode(err))

	_, err = execute(t, "--backend", "llvm", "run", path, "0x1", "0x2")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, exitCode(err))

	_, err = execute(t, "run", "--func", "nope", path, "0x1", "0x2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_found")
}

func TestQuickCheckAndReplay(t *testing.T) {
	path := writeFile(t, "props.ir", propertyIR)
	report := filepath.Join(t.TempDir(), "report.cbor")

	out, err := execute(t, "quickcheck", "--seed", "7", "--report", report, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, exitCode(err))
	assert.Contains(t, out, "adjacent_bits(x: bits[2]) -> bits[1]")
	assert.Contains(t, out, "falsified by x=")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	r, err := quickcheck.UnmarshalReport(data)
	require.NoError(t, err)
	assert.True(t, r.Falsified)
	assert.Equal(t, int64(7), r.Seed)
	assert.Equal(t, "adjacent_bits", r.Function)
	assert.Len(t, r.CounterExample, 1)

	out, err = execute(t, "replay", "--diag", path, report)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, exitCode(err))
	assert.Contains(t, out, `"run_id"`)
	assert.Contains(t, out, "bits[1]:0x0")

	_, err = execute(t, "replay", "--func", "always", path, report)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, exitCode(err))
	assert.Contains(t, err.Error(), "does not match")
}

func TestQuickCheckPasses(t *testing.T) {
	path := writeFile(t, "props.ir", propertyIR)
	out, err := execute(t, "quickcheck", "--func", "always", "-n", "25", path)
	require.NoError(t, err)
	assert.Contains(t, out, ": 25 trials")
	assert.Contains(t, out, "ok\n")
}

func TestQuickCheckUsesConfigBudget(t *testing.T) {
	path := writeFile(t, "props.ir", propertyIR)
	cfg := writeFile(t, "xlsjit.yaml", "log:\n  level: error\n  format: json\nquickcheck:\n  num_tests: 12\n")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfg, "quickcheck", "--func", "always", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), ": 12 trials")
}

func TestQuickCheckRejectsNonBoolean(t *testing.T) {
	path := writeFile(t, "adder.ir", adderIR)
	_, err := execute(t, "quickcheck", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, exitCode(err))
}

func TestDump(t *testing.T) {
	path := writeFile(t, "sample.ir", sampleIR)
	out, err := execute(t, "--backend", "closure", "dump", path)
	require.NoError(t, err)
	assert.Contains(t, out, "fn sample(bits[8], (bits[4], bits[70])) -> bits[8]\n")
	assert.Contains(t, out, "backend closure\n")
	assert.Contains(t, out, "frame 7 limbs")
}

func TestBadConfig(t *testing.T) {
	cfg := writeFile(t, "xlsjit.yaml", "backend: llvm\n")
	path := writeFile(t, "adder.ir", adderIR)

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfg, "run", path, "1", "2"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, exitCode(err))
	assert.Contains(t, err.Error(), "load config")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, exitCode(assert.AnError))
	assert.Equal(t, ExitFailure, exitCode(NewExitError(ExitFailure, "x")))
	assert.Equal(t, ExitCommandError, exitCode(WrapExitError(ExitCommandError, "x", assert.AnError)))
	assert.Equal(t, "x: "+assert.AnError.Error(), WrapExitError(ExitCommandError, "x", assert.AnError).Error())
}
