// Copyright (c) 2026 Canopy Authors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package canopy

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// Decode converts the mapping backing this Node into the target value
// using mapstructure. Struct fields are matched by name or by a "config"
// tag. Scalar coercion is permissive; see [Node.GetBool] for the accepted
// boolean spellings.
func (n Node) Decode(target any) error {
	return decodeValue(n.data, target)
}

// To converts a configuration value into T through the same decode
// pipeline as [Node.Decode]. T may be a struct, a map[string]T2 or []T2
// of structs, or any scalar type.
func To[T any](v any) (T, error) {
	var out T
	err := decodeValue(v, &out)
	return out, err
}

func decodeValue(v any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook: composeDecodeHooks(
			boolCoercionHookFunc(),
			textUnmarshalerHookFunc(),
			timeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(unwrapValue(v))
}

var errInvalidDecodeCondition = errors.New("invalid decode condition")

// TypeCoercionError occurs when a config value cannot be coerced to the
// target field's type.
type TypeCoercionError struct {
	from  reflect.Value
	to    reflect.Value
	Cause error
}

// Error implements the error interface.
func (e TypeCoercionError) Error() string {
	return fmt.Sprintf("failed to coerce value from %s to %s: %s", e.from.Type(), e.to.Type(), e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e TypeCoercionError) Unwrap() error {
	return e.Cause
}

func composeDecodeHooks(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if err == errInvalidDecodeCondition {
				continue
			}
			return nil, TypeCoercionError{
				from:  f,
				to:    t,
				Cause: err,
			}
		}
		return f.Interface(), nil
	}
}

// boolCoercionHookFunc coerces scalar values into bool fields. Numbers are
// true when non-zero; strings accept "yes", "y" and "on" alongside the
// strconv spellings.
func boolCoercionHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t.Kind() != reflect.Bool || f.Kind() == reflect.Bool {
			return nil, errInvalidDecodeCondition
		}
		return coerceBool(data)
	}
}

func coerceBool(v any) (bool, error) {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "t", "true", "yes", "y", "on":
			return true, nil
		case "0", "f", "false", "no", "n", "off", "":
			return false, nil
		}
		return false, fmt.Errorf("cannot coerce %q to bool", s)
	}
	return cast.ToBoolE(v)
}

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		result := reflect.New(t).Interface()
		u, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return nil, errInvalidDecodeCondition
		}
		err := u.UnmarshalText([]byte(data.(string)))
		if err != nil {
			return nil, err
		}
		return result, nil
	}
}

func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return nil, errInvalidDecodeCondition
		}

		switch f.Kind() {
		case reflect.String:
			return time.ParseDuration(data.(string))
		case reflect.Int:
			return time.Duration(int64(data.(int))), nil
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}
