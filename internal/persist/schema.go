package persist

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE string

// recordSchema holds the compiled #Account definition.
// CUE values are not safe for concurrent use, so checks are serialized.
type recordSchema struct {
	mu  sync.Mutex
	ctx *cue.Context
	def cue.Value
}

var loadSchema = sync.OnceValues(func() (*recordSchema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile record schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#Account"))
	if !def.Exists() {
		return nil, fmt.Errorf("record schema: #Account not defined")
	}
	return &recordSchema{ctx: ctx, def: def}, nil
})

// checkRecord validates one raw JSON record against #Account.
func checkRecord(raw []byte) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.ctx.CompileBytes(raw, cue.Filename("record.json"))
	if err := data.Err(); err != nil {
		return fmt.Errorf("record is not valid JSON: %s", cueerrors.Details(err, nil))
	}
	if err := s.def.Unify(data).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("record does not match schema: %s", cueerrors.Details(err, nil))
	}
	return nil
}
