package registry

import "errors"

// ErrAlreadyRegistered is returned by Register when an entry with the same
// name already exists.
var ErrAlreadyRegistered = errors.New("registry: entity already registered")

// ErrNotRegistered is returned by Lookup and Heartbeat for an entity that
// has no corresponding row. Unregister of such a name is not an error.
var ErrNotRegistered = errors.New("registry: entity not registered")
