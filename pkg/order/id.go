package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces order identifiers. Generation must be side-effect free
// (no store or queue round trip) so an ID is always available even when the
// collaborators are down.
type IDGenerator interface {
	NewOrderID() string
}

// IDGeneratorFunc adapts a plain function to the IDGenerator interface.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewOrderID() string { return f() }

// NewDefaultIDGenerator returns the production generator: a millisecond
// wall-clock timestamp plus a UUID-derived random suffix. Collisions would
// require two IDs in the same millisecond sharing 12 random hex characters,
// which is negligible at any realistic volume.
func NewDefaultIDGenerator() IDGenerator {
	return IDGeneratorFunc(func() string {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		return fmt.Sprintf("ord_%d_%s", time.Now().UnixMilli(), suffix)
	})
}
