package tdms

import (
	"time"

	"github.com/robert-malhotra/go-tdms/internal/dtype"
)

// DataType is a TDMS type code.
type DataType = dtype.DataType

// Timestamp is a TDMS timestamp: seconds since 1904-01-01 UTC plus a
// fraction in units of 2^-64 seconds.
type Timestamp = dtype.Timestamp

// TDMS type codes.
const (
	Void                = dtype.Void
	Int8                = dtype.Int8
	Int16               = dtype.Int16
	Int32               = dtype.Int32
	Int64               = dtype.Int64
	Uint8               = dtype.Uint8
	Uint16              = dtype.Uint16
	Uint32              = dtype.Uint32
	Uint64              = dtype.Uint64
	SingleFloat         = dtype.SingleFloat
	DoubleFloat         = dtype.DoubleFloat
	ExtendedFloat       = dtype.ExtendedFloat
	SingleFloatWithUnit = dtype.SingleFloatWithUnit
	DoubleFloatWithUnit = dtype.DoubleFloatWithUnit
	String              = dtype.String
	Boolean             = dtype.Boolean
	TimeStamp           = dtype.TimeStamp
	FixedPoint          = dtype.FixedPoint
	ComplexSingleFloat  = dtype.ComplexSingleFloat
	ComplexDoubleFloat  = dtype.ComplexDoubleFloat
	DAQmxRawData        = dtype.DAQmxRawData
)

// Property is a named, typed value attached to the file, a group or a
// channel. Value holds the Go type given by the type code: int8 through
// uint64, float32, float64, string, bool, Timestamp, complex64 or complex128.
type Property struct {
	Name  string
	Type  DataType
	Value any
}

// Properties is an ordered property set. Names keep the order in which they
// first appeared in the file; a later write of the same name replaces the
// value in place.
type Properties struct {
	names []string
	props map[string]Property
}

func newProperties() *Properties {
	return &Properties{props: make(map[string]Property)}
}

func (p *Properties) set(prop Property) {
	if _, ok := p.props[prop.Name]; !ok {
		p.names = append(p.names, prop.Name)
	}
	p.props[prop.Name] = prop
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	return len(p.names)
}

// Names returns the property names in first-appearance order.
func (p *Properties) Names() []string {
	return append([]string(nil), p.names...)
}

// Get returns the named property.
func (p *Properties) Get(name string) (Property, bool) {
	prop, ok := p.props[name]
	return prop, ok
}

// Value returns the named property's value.
func (p *Properties) Value(name string) (any, bool) {
	prop, ok := p.props[name]
	return prop.Value, ok
}

// All returns every property in first-appearance order.
func (p *Properties) All() []Property {
	out := make([]Property, len(p.names))
	for i, n := range p.names {
		out[i] = p.props[n]
	}
	return out
}

// StringValue returns a string property.
func (p *Properties) StringValue(name string) (string, bool) {
	v, ok := p.props[name].Value.(string)
	return v, ok
}

// Float64 returns a numeric property converted to float64.
func (p *Properties) Float64(name string) (float64, bool) {
	switch v := p.props[name].Value.(type) {
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// Time returns a timestamp property as a time.Time.
func (p *Properties) Time(name string) (time.Time, bool) {
	ts, ok := p.props[name].Value.(Timestamp)
	if !ok {
		return time.Time{}, false
	}
	return ts.Time(), true
}
