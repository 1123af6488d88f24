// Package codec renders request parameters into the canonical query string the exchange signs.
package codec

import (
	"encoding"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/shopspring/decimal"

	"kurir/pkg/core"
)

const tagName = "url"

// Encode renders params as key=value pairs joined by '&', in input order.
// Nil values and nil pointers are omitted.
func Encode(params core.Params) (string, error) {
	var b strings.Builder
	for _, p := range params {
		value, ok, err := FormatValue(p.Value)
		if err != nil {
			return "", encodingError(p.Key, err)
		}
		if !ok {
			continue
		}
		appendPair(&b, p.Key, value)
	}
	return b.String(), nil
}

// EncodeStruct renders the exported fields of v in declaration order.
// The field name comes from the url tag; "-" skips the field and "omitempty" drops zero values.
// Nil pointers are always omitted. A nil v encodes to the empty string.
func EncodeStruct(v any) (string, error) {
	params, err := StructParams(v)
	if err != nil {
		return "", err
	}
	return Encode(params)
}

// Join encodes params followed by the fields of payload.
func Join(params core.Params, payload any) (string, error) {
	extra, err := StructParams(payload)
	if err != nil {
		return "", err
	}
	all := make(core.Params, 0, len(params)+len(extra))
	all = append(all, params...)
	all = append(all, extra...)
	return Encode(all)
}

// StructParams flattens a tagged struct into ordered Params.
func StructParams(v any) (core.Params, error) {
	if v == nil {
		return nil, nil
	}
	if p, ok := v.(core.Params); ok {
		return p, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, core.NewError(core.KindEncoding, fmt.Errorf("payload must be a struct, got %s", rv.Kind()))
	}

	var params core.Params
	appendStruct(&params, rv)
	return params, nil
}

func appendStruct(params *core.Params, rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get(tagName)
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		fv := rv.Field(i)

		if field.Anonymous && name == "" {
			inner := fv
			if inner.Kind() == reflect.Pointer {
				if inner.IsNil() {
					continue
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct && !isScalarStruct(inner) {
				appendStruct(params, inner)
				continue
			}
		}

		if name == "" {
			name = lowerFirst(field.Name)
		}
		if strings.Contains(opts, "omitempty") && fv.IsZero() {
			continue
		}
		*params = params.Add(name, fv.Interface())
	}
}

// isScalarStruct reports struct types the codec renders as a single value.
func isScalarStruct(rv reflect.Value) bool {
	switch rv.Interface().(type) {
	case apd.Decimal, decimal.Decimal, time.Time:
		return true
	}
	return false
}

// FormatValue renders one parameter value. ok is false when the value is absent.
func FormatValue(v any) (s string, ok bool, err error) {
	switch val := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return val, true, nil
	case bool:
		return strconv.FormatBool(val), true, nil
	case int:
		return strconv.Itoa(val), true, nil
	case int8:
		return strconv.FormatInt(int64(val), 10), true, nil
	case int16:
		return strconv.FormatInt(int64(val), 10), true, nil
	case int32:
		return strconv.FormatInt(int64(val), 10), true, nil
	case int64:
		return strconv.FormatInt(val, 10), true, nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), true, nil
	case uint8:
		return strconv.FormatUint(uint64(val), 10), true, nil
	case uint16:
		return strconv.FormatUint(uint64(val), 10), true, nil
	case uint32:
		return strconv.FormatUint(uint64(val), 10), true, nil
	case uint64:
		return strconv.FormatUint(val, 10), true, nil
	case float32:
		return formatFloat(float64(val), 32)
	case float64:
		return formatFloat(val, 64)
	case apd.Decimal:
		return formatApd(&val)
	case *apd.Decimal:
		if val == nil {
			return "", false, nil
		}
		return formatApd(val)
	case decimal.Decimal:
		return val.String(), true, nil
	case *decimal.Decimal:
		if val == nil {
			return "", false, nil
		}
		return val.String(), true, nil
	case time.Time:
		return strconv.FormatInt(val.UnixMilli(), 10), true, nil
	case *time.Time:
		if val == nil {
			return "", false, nil
		}
		return strconv.FormatInt(val.UnixMilli(), 10), true, nil
	case encoding.TextMarshaler:
		if isNilPointer(v) {
			return "", false, nil
		}
		text, err := val.MarshalText()
		if err != nil {
			return "", false, err
		}
		return string(text), true, nil
	case fmt.Stringer:
		if isNilPointer(v) {
			return "", false, nil
		}
		return val.String(), true, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "", false, nil
		}
		return FormatValue(rv.Elem().Interface())
	case reflect.String:
		return rv.String(), true, nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true, nil
	case reflect.Float32:
		return formatFloat(rv.Float(), 32)
	case reflect.Float64:
		return formatFloat(rv.Float(), 64)
	}
	return "", false, fmt.Errorf("unsupported parameter type %T", v)
}

func formatFloat(f float64, bits int) (string, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false, fmt.Errorf("%w: %v", core.ErrNonFinite, f)
	}
	return strconv.FormatFloat(f, 'f', -1, bits), true, nil
}

func formatApd(d *apd.Decimal) (string, bool, error) {
	if d.Form != apd.Finite {
		return "", false, fmt.Errorf("%w: %s", core.ErrNonFinite, d.String())
	}
	return d.Text('f'), true, nil
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func appendPair(b *strings.Builder, key, value string) {
	if b.Len() > 0 {
		b.WriteByte('&')
	}
	b.WriteString(url.QueryEscape(key))
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
}

func encodingError(key string, err error) *core.Error {
	return &core.Error{
		Kind:    core.KindEncoding,
		Message: fmt.Sprintf("parameter %s", key),
		Err:     err,
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
