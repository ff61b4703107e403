package export

import "errors"

// ErrUnsupportedFormat is returned for an export format other than xlsx or csv.
var ErrUnsupportedFormat = errors.New("unsupported export format")
