package utils

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// AttributeMap is a convenience wrapper for pulling out typed information from a raw JSON object.
type AttributeMap map[string]interface{}

// TransformAttributeMapToStruct uses an attribute map to transform attributes to the prescribed
// format. Field names come from `json` struct tags. Integer fields also accept strings with a base
// prefix, so a register value can be written as "0x40".
func TransformAttributeMapToStruct(to interface{}, attributes AttributeMap) (interface{}, error) {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     to,
		DecodeHook: hexStringToIntHook,
		Squash:     true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "error decoding attributes")
	}
	return to, nil
}

func hexStringToIntHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseUint(strings.TrimSpace(data.(string)), 0, to.Bits())
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse %q as %s", data, to.Kind())
		}
		return parsed, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(strings.TrimSpace(data.(string)), 0, to.Bits())
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse %q as %s", data, to.Kind())
		}
		return parsed, nil
	default:
		return data, nil
	}
}
