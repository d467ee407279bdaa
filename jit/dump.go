package jit

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the ABI layout and the lowered program listing.
func (f *Function) Dump(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fn %s%s\n", f.fn.Name(), f.fn.Signature())
	fmt.Fprintf(&sb, "backend %s\n", f.exec.backend())
	for i := range f.abi.Params {
		writeParamABI(&sb, "param", &f.abi.Params[i])
	}
	writeParamABI(&sb, "ret", &f.abi.Return)
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}
	_, err := f.prog.WriteTo(w)
	return err
}

func writeParamABI(sb *strings.Builder, kind string, pa *ParamABI) {
	fmt.Fprintf(sb, "%s %s: %s limbs [%d, %d) flat %d\n",
		kind, pa.Name, pa.Type, pa.Offset, pa.Offset+pa.Limbs, pa.FlatBits)
	if len(pa.Leaves) < 2 {
		return
	}
	for _, l := range pa.Leaves {
		fmt.Fprintf(sb, "  leaf r%d x%d width %d at bit %d\n", l.Limb, l.Limbs, l.Width, l.BitOffset)
	}
}
