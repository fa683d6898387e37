// Package env loads configuration values from environment variables.
//
// A struct can describe its own configuration with field tags:
//
//	type Config struct {
//		Column string        `env:"COLUMN" default:"column"`
//		Sort   bool          `env:"SORT"`
//		Match  []string      `env:"MATCH" separator:";"`
//		Wait   time.Duration `env:"WAIT" required:"true"`
//	}
package env

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/patternkit/multicsv/pkg/errorkit"
)

const (
	ErrLoadInvalidData errorkit.Error = "ErrLoadInvalidData"
	ErrMissing         errorkit.Error = "missing environment variable"
)

const envTagKey = "env"

// Lookup reads a single environment variable and parses it into T.
// The boolean result reports whether a value (or a default value) was found.
func Lookup[T any](key string, opts ...LookupOption) (T, bool, error) {
	var (
		zero T
		conf lookupOptions
	)
	for _, opt := range opts {
		opt.configure(&conf)
	}
	rv, ok, err := lookup(reflect.TypeOf(&zero).Elem(), key, conf)
	if err != nil || !ok {
		return zero, ok, err
	}
	return rv.Interface().(T), true, nil
}

type LookupOption interface{ configure(*lookupOptions) }

type lookupOptionFunc func(*lookupOptions)

func (fn lookupOptionFunc) configure(o *lookupOptions) { fn(o) }

func DefaultValue(val string) LookupOption {
	return lookupOptionFunc(func(o *lookupOptions) { o.DefaultValue = &val })
}

func ListSeparator(sep string) LookupOption {
	return lookupOptionFunc(func(o *lookupOptions) { o.Separator = sep })
}

func Required() LookupOption {
	return lookupOptionFunc(func(o *lookupOptions) { o.Required = true })
}

type lookupOptions struct {
	DefaultValue *string
	Separator    string
	Required     bool
}

// Load populates every exported field of the struct behind ptr that carries an `env` tag.
// Nested structs are visited recursively.
func Load[T any](ptr *T) error {
	if ptr == nil {
		return ErrLoadInvalidData.F("nil value received")
	}
	rv := reflect.ValueOf(ptr).Elem()
	if rv.Kind() != reflect.Struct {
		return ErrLoadInvalidData.F("non-struct type received: %s", rv.Type())
	}
	return loadStruct(rv)
}

func loadStruct(rStruct reflect.Value) error {
	var errs []error
	for i, n := 0, rStruct.NumField(); i < n; i++ {
		sf := rStruct.Type().Field(i)
		if !sf.IsExported() {
			continue
		}
		field := rStruct.Field(i)
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Time{}) {
			errs = append(errs, loadStruct(field))
			continue
		}
		key, ok := sf.Tag.Lookup(envTagKey)
		if !ok {
			continue
		}
		opts, err := tagOptions(sf.Tag)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid tags on %s: %w", sf.Name, err))
			continue
		}
		val, ok, err := lookup(field.Type(), key, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("error parsing the value for %s: %w", sf.Name, err))
			continue
		}
		if ok {
			field.Set(val)
		}
	}
	return errorkit.Merge(errs...)
}

func tagOptions(tag reflect.StructTag) (lookupOptions, error) {
	var opts lookupOptions
	if v, ok := tag.Lookup("default"); ok {
		opts.DefaultValue = &v
	}
	if v, ok := tag.Lookup("separator"); ok {
		opts.Separator = v
	}
	if v, ok := tag.Lookup("required"); ok {
		required, err := strconv.ParseBool(v)
		if err != nil {
			return opts, err
		}
		opts.Required = required
	}
	return opts, nil
}

func lookup(typ reflect.Type, key string, opts lookupOptions) (reflect.Value, bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok && opts.DefaultValue != nil {
		raw, ok = *opts.DefaultValue, true
	}
	if !ok {
		if opts.Required {
			return reflect.Value{}, false, ErrMissing.F("%s", key)
		}
		return reflect.Value{}, false, nil
	}
	rv, err := parse(typ, raw, opts)
	if err != nil {
		return reflect.Value{}, false, ErrLoadInvalidData.F("%s: %w", key, err)
	}
	return rv, true, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

func parse(typ reflect.Type, raw string, opts lookupOptions) (reflect.Value, error) {
	if typ == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	}
	rv := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.String:
		rv.SetString(raw)
	case reflect.Bool:
		if raw == "" {
			return rv, nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		rv.SetFloat(f)
	case reflect.Slice:
		sep := opts.Separator
		if sep == "" {
			sep = ","
		}
		if raw == "" {
			return rv, nil
		}
		for _, part := range strings.Split(raw, sep) {
			elem, err := parse(typ.Elem(), strings.TrimSpace(part), opts)
			if err != nil {
				return reflect.Value{}, err
			}
			rv = reflect.Append(rv, elem)
		}
	default:
		return reflect.Value{}, ErrLoadInvalidData.F("unsupported type: %s", typ)
	}
	return rv, nil
}
