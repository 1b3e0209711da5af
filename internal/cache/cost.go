package cache

import (
	"image"
	"reflect"
	"sync/atomic"
	"time"
)

// entryOverhead approximates the bookkeeping cost of one entry: map slot,
// entry struct and interface headers.
const entryOverhead = 96

// EstimateCost returns the approximate in-memory size of a value in bytes.
// This is a heuristic for eviction accounting, not a precise measurement:
// collections are costed as length times a flat element-size estimate and
// decoded images as width*height*4 for a raw RGBA pixel buffer.
func EstimateCost(v any) int64 {
	switch val := v.(type) {
	case nil:
		return entryOverhead
	case []byte:
		return entryOverhead + int64(len(val))
	case string:
		return entryOverhead + int64(len(val))
	case image.Image:
		bounds := val.Bounds()
		return entryOverhead + int64(bounds.Dx())*int64(bounds.Dy())*4
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return entryOverhead + int64(rv.Len())*elementCost(rv.Type().Elem())
	case reflect.Map:
		// Key and value both contribute.
		t := rv.Type()
		per := elementCost(t.Key()) + elementCost(t.Elem())
		return entryOverhead + int64(rv.Len())*per
	case reflect.Ptr:
		if rv.IsNil() {
			return entryOverhead
		}
		return EstimateCost(rv.Elem().Interface())
	default:
		return entryOverhead + int64(rv.Type().Size())
	}
}

// elementCost estimates the per-element footprint of a collection. Strings
// and nested references get a flat estimate; there is no point chasing
// pointers for an advisory number.
func elementCost(t reflect.Type) int64 {
	switch t.Kind() {
	case reflect.String:
		return 32
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		return 64
	default:
		return int64(t.Size())
	}
}

func storeAccessTime(e *entry, t time.Time) {
	atomic.StoreInt64(&e.lastAccess, t.UnixNano())
}

func loadAccessTime(e *entry) time.Time {
	return time.Unix(0, atomic.LoadInt64(&e.lastAccess))
}
