// Command xlsjit compiles and runs IR functions from the command line.
//
//	xlsjit run adder.ir 0x3 0x4
//	xlsjit run adder.ir b=0x4 a=0x3
//	xlsjit run --packed adder.ir 03 04
//	xlsjit quickcheck --seed 7 --num-tests 5000 --report prop.cbor prop.ir
//	xlsjit replay prop.ir prop.cbor
//	xlsjit dump adder.ir
//	xlsjit interactive adder.ir
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
