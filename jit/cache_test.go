package jit

import (
	"testing"

	"github.com/shaunstanislauslau/xls/errors"
	"github.com/shaunstanislauslau/xls/ir"
)

func TestFingerprint(t *testing.T) {
	a := parseFunction(t, identityIR)
	b := parseFunction(t, identityIR)
	c := parseFunction(t, sampleIR)

	fa := Fingerprint(a)
	if len(fa) != 64 {
		t.Fatalf("fingerprint %q is not 32 hex bytes", fa)
	}
	if fa != Fingerprint(b) {
		t.Error("identical functions have different fingerprints")
	}
	if fa == Fingerprint(c) {
		t.Error("different functions share a fingerprint")
	}
}

func TestCacheReusesArtifacts(t *testing.T) {
	cache := NewCache(&Config{Backend: BackendClosure})
	defer cache.Close()

	first, err := cache.Get(parseFunction(t, identityIR))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := cache.Get(parseFunction(t, identityIR))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first != second {
		t.Error("structurally identical function compiled twice")
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}

	got, err := second.Run([]ir.Value{ubits(3, 8)})
	if err != nil || !got.Equal(ubits(3, 8)) {
		t.Errorf("Run = %v, %v", got, err)
	}

	if err := cache.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() after Close = %d", cache.Len())
	}
	if _, err := first.Run([]ir.Value{ubits(3, 8)}); err == nil {
		t.Error("cached function still runs after cache Close")
	}
}

func TestCacheKeepsFailures(t *testing.T) {
	cache := NewCache(nil)
	defer cache.Close()

	pkg := ir.NewPackage("p")
	b := ir.NewFunctionBuilder("div", pkg)
	x := b.Param("x", pkg.GetBitsType(8))
	b.UDiv(x, x)
	fn, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := cache.Get(fn); !errors.IsCompilation(err) {
			t.Fatalf("Get error = %v, want compilation error", err)
		}
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}
