package engine

import (
	"math"
	"math/big"
	"reflect"
	"strconv"
	"time"

	"github.com/dop251/goja"
)

const (
	maxExportDepth = 64
	isoMillis      = "2006-01-02T15:04:05.000Z"
)

// goja reports class "Object" for Map, Set and Promise instances; their
// export types tell them apart from plain objects.
var (
	promiseExportType = reflect.TypeOf((*goja.Promise)(nil))
	mapExportType     = reflect.TypeOf([][2]interface{}{})
	setExportType     = reflect.TypeOf([]interface{}{})
	bigIntExportType  = reflect.TypeOf((*big.Int)(nil))
)

// Export converts a JS value into a JSON-safe Go value.
//
// Finite numbers, strings, booleans and null map to themselves and
// undefined maps to nil. Values JSON cannot carry are coerced to strings:
// NaN and the infinities by name, BigInt in decimal, symbols as
// Symbol(desc), functions as [Function: name], dates as ISO-8601 and errors
// as "Name: message". Boxed primitives are unwrapped, maps become
// [key, value] pairs, sets become arrays and pending promises "[Promise]".
// Cycles become "[Circular]" and nesting past 64 levels becomes "[MaxDepth]".
// Arrays are exported in full; the memory bound already caps their size.
func Export(vm *goja.Runtime, v goja.Value) any {
	x := exporter{vm: vm, seen: make(map[*goja.Object]struct{})}
	return x.value(v, 0)
}

type exporter struct {
	vm   *goja.Runtime
	seen map[*goja.Object]struct{} // objects on the current path
}

func (x *exporter) value(v goja.Value, depth int) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}

	obj, ok := v.(*goja.Object)
	if !ok {
		if sym, ok := v.(*goja.Symbol); ok {
			return "Symbol(" + sym.String() + ")"
		}
		return primitive(v.Export(), v.String())
	}
	if _, callable := goja.AssertFunction(obj); callable {
		return functionLabel(obj)
	}
	if depth >= maxExportDepth {
		return "[MaxDepth]"
	}
	if _, cycle := x.seen[obj]; cycle {
		return "[Circular]"
	}
	x.seen[obj] = struct{}{}
	defer delete(x.seen, obj)

	switch obj.ClassName() {
	case "Array":
		return x.array(obj, depth)
	case "Date":
		return dateLabel(obj)
	case "Error":
		return errorLabel(obj)
	case "RegExp":
		return obj.String()
	case "Number", "String", "Boolean":
		return primitive(obj.Export(), obj.String())
	}

	switch obj.ExportType() {
	case promiseExportType:
		return "[Promise]"
	case mapExportType:
		return x.collection(obj, depth, true)
	case setExportType:
		return x.collection(obj, depth, false)
	case bigIntExportType:
		return primitive(obj.Export(), obj.String())
	default:
		return x.object(obj, depth)
	}
}

// primitive coerces an exported primitive. fallback is used for anything
// JSON cannot carry as-is.
func primitive(exported any, fallback string) any {
	switch exported := exported.(type) {
	case int64:
		return exported
	case float64:
		switch {
		case math.IsNaN(exported):
			return "NaN"
		case math.IsInf(exported, 1):
			return "Infinity"
		case math.IsInf(exported, -1):
			return "-Infinity"
		}
		return exported
	case string:
		return exported
	case bool:
		return exported
	case *big.Int:
		return exported.String()
	default:
		return fallback
	}
}

func (x *exporter) array(obj *goja.Object, depth int) []any {
	length := obj.Get("length").ToInteger()

	items := make([]any, 0, length)
	for i := int64(0); i < length; i++ {
		items = append(items, x.value(obj.Get(strconv.FormatInt(i, 10)), depth+1))
	}
	return items
}

func (x *exporter) object(obj *goja.Object, depth int) map[string]any {
	keys := obj.Keys()
	out := make(map[string]any, len(keys))
	for _, key := range keys {
		out[key] = x.value(obj.Get(key), depth+1)
	}
	return out
}

// collection walks a Map or Set through its own forEach
func (x *exporter) collection(obj *goja.Object, depth int, pairs bool) []any {
	items := []any{}

	forEach, ok := goja.AssertFunction(obj.Get("forEach"))
	if !ok {
		return items
	}

	visit := x.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if pairs {
			items = append(items, []any{x.value(call.Argument(1), depth+1), x.value(call.Argument(0), depth+1)})
		} else {
			items = append(items, x.value(call.Argument(0), depth+1))
		}
		return goja.Undefined()
	})

	if _, err := forEach(obj, visit); err != nil {
		panic(err)
	}
	return items
}

func functionLabel(obj *goja.Object) string {
	name := ""
	if v := obj.Get("name"); v != nil && !goja.IsUndefined(v) {
		name = v.String()
	}
	if name == "" {
		name = "anonymous"
	}
	return "[Function: " + name + "]"
}

func dateLabel(obj *goja.Object) string {
	t, ok := obj.Export().(time.Time)
	if !ok {
		return "Invalid Date"
	}
	return t.UTC().Format(isoMillis)
}

func errorLabel(obj *goja.Object) string {
	name := "Error"
	if v := obj.Get("name"); v != nil && !goja.IsUndefined(v) {
		name = v.String()
	}
	message := ""
	if v := obj.Get("message"); v != nil && !goja.IsUndefined(v) {
		message = v.String()
	}
	if message == "" {
		return name
	}
	return name + ": " + message
}
