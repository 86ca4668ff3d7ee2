package memory

import "errors"

var errReadOnly = errors.New("transaction is read-only")
