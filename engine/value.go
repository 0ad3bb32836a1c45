package engine

import (
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"

	"github.com/aaronlmathis/arrowmetrics/core"
)

// accumulator folds one aggregate over the non-null values of a column
// within a single group.
type accumulator interface {
	add(v interface{}) error
	result() interface{}
}

func newAccumulator(kind core.AggregateType) accumulator {
	switch kind {
	case core.AggregateCount:
		return &countAccumulator{}
	case core.AggregateAvg:
		return &avgAccumulator{}
	case core.AggregateMin:
		return &minAccumulator{}
	case core.AggregateMax:
		return &maxAccumulator{}
	default:
		return &sumAccumulator{}
	}
}

// sumAccumulator sums numeric values. An all-null group yields null.
type sumAccumulator struct {
	sum  float64
	seen bool
}

func (s *sumAccumulator) add(v interface{}) error {
	num, err := convertToFloat64(v)
	if err != nil {
		return err
	}
	s.sum += num
	s.seen = true
	return nil
}

func (s *sumAccumulator) result() interface{} {
	if !s.seen {
		return nil
	}
	return s.sum
}

// countAccumulator counts non-null values.
type countAccumulator struct {
	count int64
}

func (c *countAccumulator) add(v interface{}) error {
	c.count++
	return nil
}

func (c *countAccumulator) result() interface{} {
	return c.count
}

// avgAccumulator averages numeric values. An all-null group yields null.
type avgAccumulator struct {
	sum   float64
	count int64
}

func (a *avgAccumulator) add(v interface{}) error {
	num, err := convertToFloat64(v)
	if err != nil {
		return err
	}
	a.sum += num
	a.count++
	return nil
}

func (a *avgAccumulator) result() interface{} {
	if a.count == 0 {
		return nil
	}
	return a.sum / float64(a.count)
}

// minAccumulator keeps the smallest value seen.
type minAccumulator struct {
	best interface{}
	set  bool
}

func (m *minAccumulator) add(v interface{}) error {
	if !m.set || compareValues(v, m.best) < 0 {
		m.best = v
		m.set = true
	}
	return nil
}

func (m *minAccumulator) result() interface{} {
	return m.best
}

// maxAccumulator keeps the largest value seen.
type maxAccumulator struct {
	best interface{}
	set  bool
}

func (m *maxAccumulator) add(v interface{}) error {
	if !m.set || compareValues(v, m.best) > 0 {
		m.best = v
		m.set = true
	}
	return nil
}

func (m *maxAccumulator) result() interface{} {
	return m.best
}

// extractValue returns the Go value at the given row, or nil when the
// slot is null or the column type is not supported.
func extractValue(col arrow.Array, row int) interface{} {
	if col.IsNull(row) {
		return nil
	}
	switch c := col.(type) {
	case *array.Boolean:
		return c.Value(row)
	case *array.Int8:
		return c.Value(row)
	case *array.Int16:
		return c.Value(row)
	case *array.Int32:
		return c.Value(row)
	case *array.Int64:
		return c.Value(row)
	case *array.Uint8:
		return c.Value(row)
	case *array.Uint16:
		return c.Value(row)
	case *array.Uint32:
		return c.Value(row)
	case *array.Uint64:
		return c.Value(row)
	case *array.Float32:
		return c.Value(row)
	case *array.Float64:
		return c.Value(row)
	case *array.String:
		return c.Value(row)
	default:
		return nil
	}
}

// appendValue appends a Go value to an Arrow array builder, converting
// numeric types where the builder requires it. A nil value appends null.
func appendValue(b array.Builder, v interface{}) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch builder := b.(type) {
	case *array.BooleanBuilder:
		val, ok := v.(bool)
		if !ok {
			return fmt.Errorf("cannot append %T as boolean", v)
		}
		builder.Append(val)
	case *array.Int32Builder:
		num, err := convertToFloat64(v)
		if err != nil {
			return err
		}
		builder.Append(int32(num))
	case *array.Int64Builder:
		num, err := convertToFloat64(v)
		if err != nil {
			return err
		}
		builder.Append(int64(num))
	case *array.Float32Builder:
		num, err := convertToFloat64(v)
		if err != nil {
			return err
		}
		builder.Append(float32(num))
	case *array.Float64Builder:
		num, err := convertToFloat64(v)
		if err != nil {
			return err
		}
		builder.Append(num)
	case *array.StringBuilder:
		if s, ok := v.(string); ok {
			builder.Append(s)
		} else {
			builder.Append(fmt.Sprintf("%v", v))
		}
	default:
		return fmt.Errorf("unsupported output column type %T", b)
	}
	return nil
}

// convertToFloat64 widens any supported numeric value to float64.
func convertToFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", value)
	}
}

// compareValues orders two extracted values: numerically when both are
// numeric, lexicographically otherwise.
func compareValues(a, b interface{}) int {
	fa, errA := convertToFloat64(a)
	fb, errB := convertToFloat64(b)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

// valueKey renders a value as a grouping key component. The type prefix
// keeps equal renderings of different types (1 vs "1") in distinct groups.
func valueKey(v interface{}) string {
	if v == nil {
		return "\x00"
	}
	return fmt.Sprintf("%T:%v", v, v)
}
