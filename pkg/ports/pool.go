package ports

import (
	"context"

	"github.com/aretw0/sluice/pkg/domain"
)

// VariablePool exposes the key/value store holding resolved runtime values.
// The coordinator only reads from it; the execution engine writes to it as
// nodes produce outputs.
type VariablePool interface {
	// Get resolves a selector. It returns domain.ErrValueAbsent when the
	// value has not been produced yet; the coordinator treats that (and any
	// other error) as "retry later", never as a failure.
	Get(ctx context.Context, sel domain.Selector) (domain.Value, error)
}
