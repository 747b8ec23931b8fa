package configuration

import (
	"fmt"
	"github.com/mitchellh/mapstructure"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Optional is a generic container for optional configuration values.
type Optional[T any] struct {
	// Value holds the actual as unmarshalled.
	Value T
	// Present indicates if the value was present in the configuration.
	Present bool
}

// Get returns the value, which is the zero value of T if it was not present.
func (o Optional[T]) Get() T {
	return o.Value
}

// Some returns an Optional holding the given value.
func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: value, Present: true}
}

// OptionalFloatHookFunc returns a mapstructure decode hook function for Optional[float64].
// Unlike plain float fields, a value that cannot be parsed is reported instead of silently ignored.
func OptionalFloatHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{}) (interface{}, error) {

		// Only target our specific named type
		if t != reflect.TypeOf(Optional[float64]{}) {
			return data, nil
		}

		value, err := toFloat(data)
		if err != nil {
			return nil, err
		}

		return Some(value), nil
	}
}

// SecondsToDurationHookFunc returns a mapstructure decode hook function which interprets
// plain numbers as seconds when decoding into a time.Duration.
// Strings with a unit (e.g. "1500ms") are left for mapstructure.StringToTimeDurationHookFunc.
func SecondsToDurationHookFunc() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{}) (interface{}, error) {

		if t != durationType || f == durationType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			seconds, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return data, nil
			}
			return time.Duration(seconds * float64(time.Second)), nil
		case int, int32, int64, float32, float64:
			seconds, err := toFloat(v)
			if err != nil {
				return data, nil
			}
			return time.Duration(seconds * float64(time.Second)), nil
		default:
			return data, nil
		}
	}
}

func toFloat(data interface{}) (float64, error) {
	switch v := data.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse '%s' as a number", v)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float", v)
	}
}
