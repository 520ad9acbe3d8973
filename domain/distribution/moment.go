package distribution

import (
	"encoding/json"
	"math"
	"strconv"

	"distlab/domain/core"
)

const undefinedLabel = "undefined"

// Moment is a theoretical or empirical statistic that may not exist.
// An undefined moment is never represented as NaN.
type Moment struct {
	value   float64
	defined bool
}

// Defined wraps a finite value. Non-finite input collapses to Undefined.
func Defined(v float64) Moment {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined()
	}
	return Moment{value: v, defined: true}
}

// Undefined returns the distinguished "undefined" moment
func Undefined() Moment {
	return Moment{}
}

// IsDefined reports whether the moment carries a value
func (m Moment) IsDefined() bool {
	return m.defined
}

// Float returns the value, or ErrUndefinedMoment
func (m Moment) Float() (float64, error) {
	if !m.defined {
		return 0, core.ErrUndefinedMoment
	}
	return m.value, nil
}

// Or returns the value, or fallback when undefined
func (m Moment) Or(fallback float64) float64 {
	if !m.defined {
		return fallback
	}
	return m.value
}

func (m Moment) String() string {
	if !m.defined {
		return undefinedLabel
	}
	return strconv.FormatFloat(m.value, 'g', 6, 64)
}

func (m Moment) MarshalJSON() ([]byte, error) {
	if !m.defined {
		return json.Marshal(undefinedLabel)
	}
	return json.Marshal(m.value)
}

func (m *Moment) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != undefinedLabel {
			return core.NewValidationError("moment", "", "unexpected label "+strconv.Quote(s))
		}
		*m = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Defined(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (m Moment) MarshalYAML() (interface{}, error) {
	if !m.defined {
		return undefinedLabel, nil
	}
	return m.value, nil
}
