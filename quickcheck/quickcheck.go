package quickcheck

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/shaunstanislauslau/xls/errors"
	"github.com/shaunstanislauslau/xls/ir"
	"github.com/shaunstanislauslau/xls/jit"
)

// seedMix is xored into the seed to form the second PCG word.
const seedMix = 0x9e3779b97f4a7c15

// Result holds every argument set tried and the result each produced, in
// trial order. When a counter-example was found it is the last entry.
type Result struct {
	ArgSets [][]ir.Value
	Results []ir.Value
}

// Trials returns the number of trials run.
func (r *Result) Trials() int { return len(r.Results) }

// Falsified reports whether the last trial returned false.
func (r *Result) Falsified() bool {
	if len(r.Results) == 0 {
		return false
	}
	return r.Results[len(r.Results)-1].Bits().IsZero()
}

// CounterExample returns the falsifying argument set, if any.
func (r *Result) CounterExample() ([]ir.Value, bool) {
	if !r.Falsified() {
		return nil, false
	}
	return r.ArgSets[len(r.ArgSets)-1], true
}

// CreateAndQuickCheck compiles fn and checks it against numTests generated
// argument sets drawn from a generator seeded with seed. fn must return
// bits[1]. The search stops right after the first false result.
func CreateAndQuickCheck(fn *ir.Function, seed, numTests int64) (*Result, error) {
	return CreateAndQuickCheckWithConfig(fn, seed, numTests, nil)
}

// CreateAndQuickCheckWithConfig is CreateAndQuickCheck with an explicit
// compile configuration.
func CreateAndQuickCheckWithConfig(fn *ir.Function, seed, numTests int64, cfg *jit.Config) (*Result, error) {
	if err := checkProperty(fn); err != nil {
		return nil, err
	}
	f, err := jit.CompileWithConfig(fn, cfg)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Check(f, seed, numTests)
}

// Check runs the property search on an already compiled function.
func Check(f *jit.Function, seed, numTests int64) (*Result, error) {
	fn := f.IR()
	if err := checkProperty(fn); err != nil {
		return nil, err
	}
	if numTests < 0 {
		return nil, errors.New(errors.PhaseQuickCheck, errors.KindInvalidInput).
			Path(fn.Name()).
			Detail("negative number of tests %d", numTests).
			Build()
	}

	start := time.Now()
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^seedMix))
	res := &Result{}
	params := fn.Params()

	for trial := int64(0); trial < numTests; trial++ {
		args := make([]ir.Value, len(params))
		for i, p := range params {
			args[i] = ir.RandomValue(p.Type(), r)
		}
		out, err := f.Run(args)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseQuickCheck, errors.KindInvalidInput, err, "trial failed")
		}
		res.ArgSets = append(res.ArgSets, args)
		res.Results = append(res.Results, out)
		if out.Bits().IsZero() {
			break
		}
	}

	Logger().Debug("quickcheck finished",
		zap.String("function", fn.Name()),
		zap.Int64("seed", seed),
		zap.Int64("num_tests", numTests),
		zap.Int("trials", res.Trials()),
		zap.Bool("falsified", res.Falsified()),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

func checkProperty(fn *ir.Function) error {
	if fn == nil {
		return errors.InvalidInput(errors.PhaseCompile, "nil function")
	}
	rt := fn.ReturnType()
	if !rt.IsBits() || rt.BitCount() != 1 {
		return errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
			Path(fn.Name()).
			Got(rt.String()).
			Want("bits[1]").
			Detail("quickcheck properties must return a single bit").
			Build()
	}
	return nil
}
