package cfg

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// byteSizeType is cached once for the type switch in hookFunc.
var byteSizeType = reflect.TypeOf(ByteSize(0))

// hookFunc parses human-friendly byte sizes ("4096", "4Ki", "1Mi") into
// ByteSize fields, adapted from the teacher's cfg/decode_hook.go switch over
// reflect.Type-keyed string conversions.
func hookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != byteSizeType {
			return data, nil
		}
		return parseByteSize(data.(string))
	}
}

func parseByteSize(s string) (ByteSize, error) {
	s = strings.TrimSpace(s)
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "Ki"):
		mult, s = 1024, strings.TrimSuffix(s, "Ki")
	case strings.HasSuffix(s, "Mi"):
		mult, s = 1024*1024, strings.TrimSuffix(s, "Mi")
	case strings.HasSuffix(s, "Gi"):
		mult, s = 1024*1024*1024, strings.TrimSuffix(s, "Gi")
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cfg: invalid byte size %q: %w", s, err)
	}
	return ByteSize(n * mult), nil
}

// DecodeHook composes the byte-size hook with mapstructure's standard
// hooks, the same composition style as the teacher's cfg.DecodeHook.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		hookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}
