package main

import (
	"reflect"
	"strconv"

	"github.com/alecthomas/kong"
)

// hexMapper parses integer arguments with a 0x prefix or plain decimal, for
// addresses and register values.
type hexMapper struct{}

func (h hexMapper) Decode(ctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	if err := ctx.Scan.PopValueInto("hex", &value); err != nil {
		return err
	}

	switch target.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return err
		}
		target.SetUint(v)
	default:
		v, err := strconv.ParseInt(value, 0, 64)
		if err != nil {
			return err
		}
		target.SetInt(v)
	}
	return nil
}
