package structure

import "errors"

// ErrInvalidLayer is returned for a layer request that names neither
// distribution targets nor a pool pull count.
var ErrInvalidLayer = errors.New("structure: invalid layer")
