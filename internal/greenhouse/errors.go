package greenhouse

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMalformedInput       = errors.New("malformed input")
	ErrNumericDegeneracy    = errors.New("numeric degeneracy")
)

var (
	ErrNonPositiveThermalMass = fmt.Errorf("%w: thermal mass must be strictly positive", ErrInvalidConfiguration)
	ErrNegativeArea           = fmt.Errorf("%w: area must be greater or equal to zero", ErrInvalidConfiguration)
	ErrNegativeUValue         = fmt.Errorf("%w: U-values must be greater or equal to zero", ErrInvalidConfiguration)
	ErrNegativeHeatingPower   = fmt.Errorf("%w: heating power must be greater or equal to zero", ErrInvalidConfiguration)
	ErrNegativeSolarGain      = fmt.Errorf("%w: peak solar gain must be greater or equal to zero", ErrInvalidConfiguration)
	ErrInvalidStep            = fmt.Errorf("%w: step must be strictly positive", ErrInvalidConfiguration)
	ErrInvalidBounds          = fmt.Errorf("%w: clamp bounds must be finite with min < max", ErrInvalidConfiguration)
	ErrInvalidDaylightWindow  = fmt.Errorf("%w: daylight window must satisfy 0 <= start < end <= 24", ErrInvalidConfiguration)
	ErrUnknownMaterial        = fmt.Errorf("%w: unknown material", ErrInvalidConfiguration)

	ErrMissingTimestamp          = fmt.Errorf("%w: missing timestamp", ErrMalformedInput)
	ErrNonFiniteTemperature      = fmt.Errorf("%w: external temperature is not a finite number", ErrMalformedInput)
	ErrNonChronological          = fmt.Errorf("%w: timestamps are not chronological", ErrMalformedInput)
	ErrDuplicateTimestamp        = fmt.Errorf("%w: duplicate timestamp", ErrMalformedInput)
	ErrInvalidInitialTemperature = fmt.Errorf("%w: initial temperature is not a finite number", ErrMalformedInput)
	ErrInvalidMode               = fmt.Errorf("%w: invalid mode", ErrMalformedInput)
)

// SampleError ties a malformed-input error to the offending sample.
type SampleError struct {
	Index int
	Err   error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample %d: %v", e.Index, e.Err)
}

func (e *SampleError) Unwrap() error {
	return e.Err
}
