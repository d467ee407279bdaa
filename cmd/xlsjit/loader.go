package main

import (
	"encoding/hex"
	"os"
	"strconv"
	"strings"

	"github.com/shaunstanislauslau/xls/errors"
	"github.com/shaunstanislauslau/xls/ir"
)

// loadFunction parses an IR file and returns the named function, or the
// top function when name is empty.
func loadFunction(path, name string) (*ir.Function, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "read IR file", err)
	}
	top, err := ir.ParseFunction(string(data))
	if err != nil {
		return nil, err
	}
	if name == "" {
		return top, nil
	}
	return top.Package().Function(name)
}

// parseArgs converts command line values to arguments of fn. Either every
// value is positional or every value is name=value.
func parseArgs(fn *ir.Function, texts []string) ([]ir.Value, error) {
	named := 0
	for _, t := range texts {
		if isNamed(t) {
			named++
		}
	}
	if named > 0 && named != len(texts) {
		return nil, errors.InvalidInput(errors.PhaseInvoke, "cannot mix positional and name=value arguments")
	}
	if named == 0 {
		if len(texts) != fn.ParamCount() {
			return nil, errors.ArgCount(len(texts), fn.ParamCount())
		}
		args := make([]ir.Value, len(texts))
		for i, text := range texts {
			v, err := parseParam(fn.Param(i), text)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return args, nil
	}

	byName := make(map[string]string, len(texts))
	for _, t := range texts {
		k, v, _ := strings.Cut(t, "=")
		byName[strings.TrimSpace(k)] = v
	}
	for k := range byName {
		if _, ok := fn.ParamIndex(k); !ok {
			return nil, errors.UnknownArg(k)
		}
	}
	args := make([]ir.Value, fn.ParamCount())
	for i, p := range fn.Params() {
		text, ok := byName[p.Name()]
		if !ok {
			return nil, errors.MissingArg(p.Name())
		}
		v, err := parseParam(p, text)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// isNamed reports whether t looks like name=value. Value literals never
// contain '=' so the first one splits.
func isNamed(t string) bool {
	k, _, ok := strings.Cut(t, "=")
	if !ok {
		return false
	}
	k = strings.TrimSpace(k)
	if k == "" {
		return false
	}
	for _, r := range k {
		if !(r == '_' || r == '.' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func parseParam(p *ir.Node, text string) (ir.Value, error) {
	v, err := ir.ParseTypedValue(text, p.Type())
	if err != nil {
		return ir.Value{}, errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
			Path(p.Name()).
			Want(p.Type().String()).
			Cause(err).
			Build()
	}
	return v, nil
}

// decodeHex decodes a packed buffer given as hex, byte 0 first. An optional
// 0x prefix and '_' separators are ignored.
func decodeHex(name, text string, size int) ([]byte, error) {
	clean := strings.ReplaceAll(strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X"), "_", "")
	buf, err := hex.DecodeString(clean)
	if err != nil {
		return nil, errors.New(errors.PhasePack, errors.KindSyntax).
			Path(name).
			Cause(err).
			Detail("decode hex buffer").
			Build()
	}
	if len(buf) != size {
		return nil, errors.New(errors.PhasePack, errors.KindShape).
			Path(name).
			Got(strconv.Itoa(len(buf)) + " bytes").
			Want(strconv.Itoa(size) + " bytes").
			Build()
	}
	return buf, nil
}
