package simulation

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrRangeTooLong    = fmt.Errorf("%w: date range exceeds the allowed number of days", ErrInvalidRequest)
	ErrInvalidDaylight = errors.New("invalid daylight mode")
	ErrNoSource        = errors.New("no weather source configured")
)
