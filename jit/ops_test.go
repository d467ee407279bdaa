package jit

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/shaunstanislauslau/xls/bits"
	"github.com/shaunstanislauslau/xls/ir"
)

func pow2(w int) *big.Int { return new(big.Int).Lsh(big.NewInt(1), uint(w)) }

func wrap(v *big.Int, w int) *big.Int { return new(big.Int).Mod(v, pow2(w)) }

func signed(v *big.Int, w int) *big.Int {
	if w > 0 && v.Bit(w-1) == 1 {
		return new(big.Int).Sub(v, pow2(w))
	}
	return new(big.Int).Set(v)
}

func flag(v bool) *big.Int {
	if v {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}

func ones(w int) *big.Int { return new(big.Int).Sub(pow2(w), big.NewInt(1)) }

type opCase struct {
	name   string
	node   func(w int) string
	out    func(w int) int
	eval   func(w int, x, y *big.Int) *big.Int
	smallY bool // draw y below the width so shifts stay in range
}

func same(w int) int { return w }
func single(int) int { return 1 }
func fixed(s string) func(int) string { return func(int) string { return s } }

func shiftOracle(kind ShiftKind) func(w int, x, y *big.Int) *big.Int {
	return func(w int, x, y *big.Int) *big.Int {
		over := y.Cmp(big.NewInt(int64(w))) >= 0
		switch {
		case kind == ShiftRightArith && over:
			if signed(x, w).Sign() < 0 {
				return ones(w)
			}
			return big.NewInt(0)
		case over:
			return big.NewInt(0)
		}
		amt := uint(y.Uint64())
		switch kind {
		case ShiftLeft:
			return wrap(new(big.Int).Lsh(x, amt), w)
		case ShiftRightLogical:
			return new(big.Int).Rsh(x, amt)
		}
		return wrap(new(big.Int).Rsh(signed(x, w), amt), w)
	}
}

var opCases = []opCase{
	{name: "identity", node: fixed("identity(x)"), out: same,
		eval: func(w int, x, _ *big.Int) *big.Int { return x }},
	{name: "add", node: fixed("add(x, y)"), out: same,
		eval: func(w int, x, y *big.Int) *big.Int { return wrap(new(big.Int).Add(x, y), w) }},
	{name: "sub", node: fixed("sub(x, y)"), out: same,
		eval: func(w int, x, y *big.Int) *big.Int { return wrap(new(big.Int).Sub(x, y), w) }},
	{name: "neg", node: fixed("neg(x)"), out: same,
		eval: func(w int, x, _ *big.Int) *big.Int { return wrap(new(big.Int).Neg(x), w) }},
	{name: "not", node: fixed("not(x)"), out: same,
		eval: func(w int, x, _ *big.Int) *big.Int { return new(big.Int).Xor(x, ones(w)) }},
	{name: "and", node: fixed("and(x, y)"), out: same,
		eval: func(w int, x, y *big.Int) *big.Int { return new(big.Int).And(x, y) }},
	{name: "or", node: fixed("or(x, y, x)"), out: same,
		eval: func(w int, x, y *big.Int) *big.Int { return new(big.Int).Or(x, y) }},
	{name: "xor", node: fixed("xor(x, y, y)"), out: same,
		eval: func(w int, x, y *big.Int) *big.Int { return x }},
	{name: "nand", node: fixed("nand(x, y)"), out: same,
		eval: func(w int, x, y *big.Int) *big.Int { return new(big.Int).Xor(new(big.Int).And(x, y), ones(w)) }},
	{name: "nor", node: fixed("nor(x, y)"), out: same,
		eval: func(w int, x, y *big.Int) *big.Int { return new(big.Int).Xor(new(big.Int).Or(x, y), ones(w)) }},
	{name: "eq", node: fixed("eq(x, y)"), out: single,
		eval: func(w int, x, y *big.Int) *big.Int { return flag(x.Cmp(y) == 0) }},
	{name: "eq_self", node: fixed("eq(x, x)"), out: single,
		eval: func(int, *big.Int, *big.Int) *big.Int { return big.NewInt(1) }},
	{name: "ne", node: fixed("ne(x, y)"), out: single,
		eval: func(w int, x, y *big.Int) *big.Int { return flag(x.Cmp(y) != 0) }},
	{name: "ult", node: fixed("ult(x, y)"), out: single,
		eval: func(w int, x, y *big.Int) *big.Int { return flag(x.Cmp(y) < 0) }},
	{name: "ule", node: fixed("ule(x, y)"), out: single,
		eval: func(w int, x, y *big.Int) *big.Int { return flag(x.Cmp(y) <= 0) }},
	{name: "ugt", node: fixed("ugt(x, y)"), out: single,
		eval: func(w int, x, y *big.Int) *big.Int { return flag(x.Cmp(y) > 0) }},
	{name: "uge", node: fixed("uge(x, y)"), out: single,
		eval: func(w int, x, y *big.Int) *big.Int { return flag(x.Cmp(y) >= 0) }},
	{name: "slt", node: fixed("slt(x, y)"), out: single,
		eval: func(w int, x, y *big.Int) *big.Int { return flag(signed(x, w).Cmp(signed(y, w)) < 0) }},
	{name: "sle", node: fixed("sle(x, y)"), out: single,
		eval: func(w int, x, y *big.Int) *big.Int { return flag(signed(x, w).Cmp(signed(y, w)) <= 0) }},
	{name: "sgt", node: fixed("sgt(x, y)"), out: single,
		eval: func(w int, x, y *big.Int) *big.Int { return flag(signed(x, w).Cmp(signed(y, w)) > 0) }},
	{name: "sge", node: fixed("sge(x, y)"), out: single,
		eval: func(w int, x, y *big.Int) *big.Int { return flag(signed(x, w).Cmp(signed(y, w)) >= 0) }},
	{name: "shll", node: fixed("shll(x, y)"), out: same, smallY: true, eval: shiftOracle(ShiftLeft)},
	{name: "shrl", node: fixed("shrl(x, y)"), out: same, smallY: true, eval: shiftOracle(ShiftRightLogical)},
	{name: "shra", node: fixed("shra(x, y)"), out: same, smallY: true, eval: shiftOracle(ShiftRightArith)},
	{name: "shra_wide", node: fixed("shra(x, y)"), out: same, eval: shiftOracle(ShiftRightArith)},
	{name: "and_reduce", node: fixed("and_reduce(x)"), out: single,
		eval: func(w int, x, _ *big.Int) *big.Int { return flag(x.Cmp(ones(w)) == 0) }},
	{name: "or_reduce", node: fixed("or_reduce(x)"), out: single,
		eval: func(w int, x, _ *big.Int) *big.Int { return flag(x.Sign() != 0) }},
	{name: "xor_reduce", node: fixed("xor_reduce(x)"), out: single,
		eval: func(w int, x, _ *big.Int) *big.Int {
			n := 0
			for i := 0; i < w; i++ {
				n += int(x.Bit(i))
			}
			return big.NewInt(int64(n & 1))
		}},
	{name: "concat", node: fixed("concat(x, y)"), out: func(w int) int { return 2 * w },
		eval: func(w int, x, y *big.Int) *big.Int { return new(big.Int).Or(new(big.Int).Lsh(x, uint(w)), y) }},
	{name: "bit_slice",
		node: func(w int) string { return fmt.Sprintf("bit_slice(x, start=%d, width=%d)", w/3, w-w/3) },
		out:  func(w int) int { return w - w/3 },
		eval: func(w int, x, _ *big.Int) *big.Int { return new(big.Int).Rsh(x, uint(w/3)) }},
	{name: "zero_ext",
		node: func(w int) string { return fmt.Sprintf("zero_ext(x, new_bit_count=%d)", w+9) },
		out:  func(w int) int { return w + 9 },
		eval: func(w int, x, _ *big.Int) *big.Int { return x }},
	{name: "sign_ext",
		node: func(w int) string { return fmt.Sprintf("sign_ext(x, new_bit_count=%d)", w+70) },
		out:  func(w int) int { return w + 70 },
		eval: func(w int, x, _ *big.Int) *big.Int { return wrap(signed(x, w), w+70) }},
}

func TestOperationsAgainstBigInt(t *testing.T) {
	r := newRand()
	for _, oc := range opCases {
		for _, w := range []int{1, 7, 64, 65, 130} {
			out := oc.out(w)
			text := fmt.Sprintf("fn %s(x: bits[%d], y: bits[%d]) -> bits[%d] {\n  ret r: bits[%d] = %s\n}\n",
				oc.name, w, w, out, out, oc.node(w))
			t.Run(fmt.Sprintf("%s/bits%d", oc.name, w), func(t *testing.T) {
				fn := parseFunction(t, text)
				ty := ir.BitsType(w)
				forBackends(t, fn, func(t *testing.T, f *Function) {
					for trial := 0; trial < 64; trial++ {
						x := ir.RandomValue(ty, r).Bits()
						y := ir.RandomValue(ty, r).Bits()
						if oc.smallY {
							y = bits.FromBig(big.NewInt(int64(r.IntN(w+2))), w)
						}
						got, err := f.Run([]ir.Value{ir.BitsValue(x), ir.BitsValue(y)})
						if err != nil {
							t.Fatalf("Run: %v", err)
						}
						want := bits.FromBig(oc.eval(w, x.Big(), y.Big()), out)
						if !got.Bits().Equal(want) {
							t.Fatalf("%s(%v, %v) = %v, want %v", oc.name, x, y, got, want)
						}
					}
				})
			})
		}
	}
}

func TestZeroWidthBits(t *testing.T) {
	fn := parseFunction(t, `
fn zw(x: bits[0], y: bits[0]) -> (bits[0], bits[1], bits[1], bits[1], bits[1], bits[1], bits[8]) {
  s: bits[0] = add(x, y)
  e: bits[1] = eq(x, y)
  l: bits[1] = ult(x, y)
  a: bits[1] = and_reduce(x)
  o: bits[1] = or_reduce(x)
  q: bits[1] = xor_reduce(x)
  z: bits[8] = zero_ext(x, new_bit_count=8)
  ret r: (bits[0], bits[1], bits[1], bits[1], bits[1], bits[1], bits[8]) = tuple(s, e, l, a, o, q, z)
}
`)
	want := ir.TupleValue(ubits(0, 0), ubits(1, 1), ubits(0, 1), ubits(1, 1), ubits(0, 1), ubits(0, 1), ubits(0, 8))
	forBackends(t, fn, func(t *testing.T, f *Function) {
		got, err := f.Run([]ir.Value{ubits(0, 0), ubits(0, 0)})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

func TestArrayAndSelectEdges(t *testing.T) {
	fn := parseFunction(t, `
fn edges(a: bits[8][3], i: bits[70], v: bits[8], s: bits[2]) -> (bits[8], bits[8][3], bits[8], bits[8]) {
  e: bits[8] = array_index(a, i)
  u: bits[8][3] = array_update(a, i, v)
  d: bits[8] = sel(s, cases=[v, e], default=v)
  lit: bits[8][2] = literal(value=[0x11, 0x22])
  f: bits[8] = array_index(lit, s)
  ret r: (bits[8], bits[8][3], bits[8], bits[8]) = tuple(e, u, d, f)
}
`)
	arr := ir.MustArrayValue(ubits(1, 8), ubits(2, 8), ubits(3, 8))
	big70 := ir.BitsValue(bits.FromBig(new(big.Int).Lsh(big.NewInt(1), 66), 70))

	tests := []struct {
		name string
		args []ir.Value
		want ir.Value
	}{
		{
			name: "in range",
			args: []ir.Value{arr, ubits(1, 70), ubits(9, 8), ubits(1, 2)},
			want: ir.TupleValue(ubits(2, 8), ir.MustArrayValue(ubits(1, 8), ubits(9, 8), ubits(3, 8)), ubits(2, 8), ubits(0x22, 8)),
		},
		{
			name: "index clamps",
			args: []ir.Value{arr, ubits(7, 70), ubits(9, 8), ubits(0, 2)},
			want: ir.TupleValue(ubits(3, 8), arr, ubits(9, 8), ubits(0x11, 8)),
		},
		{
			name: "high limb out of range",
			args: []ir.Value{arr, big70, ubits(9, 8), ubits(3, 2)},
			want: ir.TupleValue(ubits(3, 8), arr, ubits(9, 8), ubits(0x22, 8)),
		},
	}
	forBackends(t, fn, func(t *testing.T, f *Function) {
		for _, tt := range tests {
			got, err := f.Run(tt.args)
			if err != nil {
				t.Fatalf("%s: Run: %v", tt.name, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
			}
		}
	})
}
