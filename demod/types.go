package demod

import (
	"fmt"
	"strings"
)

type SampleType int

// Values match the Airspy host library sample type identifiers.
const (
	Float32IQ SampleType = iota
	Float32Real
	Int16IQ
	Int16Real
	Uint16Real
)

var sampleTypeNames = map[SampleType]string{
	Float32IQ:   "float32_iq",
	Float32Real: "float32_real",
	Int16IQ:     "int16_iq",
	Int16Real:   "int16_real",
	Uint16Real:  "uint16_real",
}

func (s SampleType) String() string {
	if name, ok := sampleTypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SampleType(%d)", int(s))
}

func (s SampleType) Valid() bool {
	_, ok := sampleTypeNames[s]
	return ok
}

// IsFloat reports whether converted samples are float32.
func (s SampleType) IsFloat() bool {
	return s == Float32IQ || s == Float32Real
}

// IsIQ reports whether the QSD chain runs for this type.
func (s SampleType) IsIQ() bool {
	return s == Float32IQ || s == Int16IQ
}

// ParseSampleType accepts the names printed by String, case-insensitively.
func ParseSampleType(name string) (SampleType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for st, n := range sampleTypeNames {
		if n == name {
			return st, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrSampleType, name)
}

func SampleTypes() []SampleType {
	return []SampleType{Float32IQ, Float32Real, Int16IQ, Int16Real, Uint16Real}
}
