package quickcheck

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/shaunstanislauslau/xls/errors"
	"github.com/shaunstanislauslau/xls/internal/codec"
	"github.com/shaunstanislauslau/xls/ir"
	"github.com/shaunstanislauslau/xls/jit"
)

// runNamespace scopes report run ids.
var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/shaunstanislauslau/xls/quickcheck"))

// Report summarizes one quickcheck run in a form that can be stored and
// replayed later. Equal runs produce byte-identical encodings.
type Report struct {
	RunID          string   `cbor:"run_id"`
	Function       string   `cbor:"function"`
	Fingerprint    string   `cbor:"fingerprint"`
	Params         []string `cbor:"params"`
	CounterExample []string `cbor:"counter_example,omitempty"`
	Seed           int64    `cbor:"seed"`
	NumTests       int64    `cbor:"num_tests"`
	Trials         int64    `cbor:"trials"`
	Falsified      bool     `cbor:"falsified"`
}

// NewReport describes res, a run of fn with the given seed and budget. The
// run id is derived from the function fingerprint, seed and budget.
func NewReport(fn *ir.Function, seed, numTests int64, res *Result) *Report {
	fp := jit.Fingerprint(fn)
	r := &Report{
		RunID:       RunID(fp, seed, numTests),
		Function:    fn.Name(),
		Fingerprint: fp,
		Seed:        seed,
		NumTests:    numTests,
		Trials:      int64(res.Trials()),
		Falsified:   res.Falsified(),
	}
	for _, p := range fn.Params() {
		r.Params = append(r.Params, p.Name()+": "+p.Type().String())
	}
	if args, ok := res.CounterExample(); ok {
		for _, a := range args {
			r.CounterExample = append(r.CounterExample, ir.ValueText(a))
		}
	}
	return r
}

// RunID returns the deterministic id of a run.
func RunID(fingerprint string, seed, numTests int64) string {
	name := fingerprint + "/" + strconv.FormatInt(seed, 10) + "/" + strconv.FormatInt(numTests, 10)
	return uuid.NewSHA1(runNamespace, []byte(name)).String()
}

// Marshal encodes the report as deterministic CBOR.
func (r *Report) Marshal() ([]byte, error) {
	return codec.Marshal(r)
}

// UnmarshalReport decodes a report produced by Marshal.
func UnmarshalReport(data []byte) (*Report, error) {
	var r Report
	if err := codec.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(errors.PhaseQuickCheck, errors.KindInvalidInput, err, "decode report")
	}
	return &r, nil
}

// Arguments parses the counter-example against the parameters of fn.
func (r *Report) Arguments(fn *ir.Function) ([]ir.Value, error) {
	if !r.Falsified {
		return nil, errors.New(errors.PhaseQuickCheck, errors.KindNotFound).
			Path(r.Function).
			Detail("report has no counter-example").
			Build()
	}
	if len(r.CounterExample) != fn.ParamCount() {
		return nil, errors.New(errors.PhaseQuickCheck, errors.KindShape).
			Path(r.Function).
			Detail("counter-example has %d values for %d parameters", len(r.CounterExample), fn.ParamCount()).
			Build()
	}
	args := make([]ir.Value, len(r.CounterExample))
	for i, text := range r.CounterExample {
		p := fn.Param(i)
		v, err := ir.ParseTypedValue(text, p.Type())
		if err != nil {
			return nil, errors.New(errors.PhaseQuickCheck, errors.KindInvalidInput).
				Path(r.Function, p.Name()).
				Cause(err).
				Detail("parse counter-example value").
				Build()
		}
		args[i] = v
	}
	return args, nil
}

// Replay runs the counter-example of r against fn and returns the result.
// fn must have the fingerprint recorded in the report.
func Replay(fn *ir.Function, r *Report) (ir.Value, error) {
	return ReplayWithConfig(fn, r, nil)
}

// ReplayWithConfig is Replay with an explicit compile configuration.
func ReplayWithConfig(fn *ir.Function, r *Report, cfg *jit.Config) (ir.Value, error) {
	if fp := jit.Fingerprint(fn); fp != r.Fingerprint {
		return ir.Value{}, errors.New(errors.PhaseQuickCheck, errors.KindInvalidInput).
			Path(r.Function).
			Got(shortFingerprint(fp)).
			Want(shortFingerprint(r.Fingerprint)).
			Detail("function does not match the report").
			Build()
	}
	args, err := r.Arguments(fn)
	if err != nil {
		return ir.Value{}, err
	}
	f, err := jit.CompileWithConfig(fn, cfg)
	if err != nil {
		return ir.Value{}, err
	}
	defer f.Close()
	return f.Run(args)
}

func shortFingerprint(fp string) string {
	if len(fp) > 16 {
		return fp[:16]
	}
	return fp
}
