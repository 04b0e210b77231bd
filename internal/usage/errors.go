package usage

import "errors"

// ErrLimitReached indicates the client exceeded the daily request limit.
var ErrLimitReached = errors.New("limit reached")
