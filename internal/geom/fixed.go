package geom

import (
	"fmt"
	"strconv"
)

// Fixed is a signed 24.8 fixed-point number, the coordinate format the
// Wayland wire protocol uses for pointer positions and axis values.
type Fixed int32

// FixedFromInt converts an integer to fixed point.
func FixedFromInt(i int32) Fixed {
	return Fixed(i << 8)
}

// FixedFromFloat converts a float to fixed point, truncating toward zero.
func FixedFromFloat(f float64) Fixed {
	return Fixed(f * 256)
}

// Int converts back to an integer, truncating toward zero.
func (f Fixed) Int() int32 {
	return int32(f) / 256
}

// Float64 returns the value as a float.
func (f Fixed) Float64() float64 {
	return float64(f) / 256
}

// Mul returns f scaled by the integer factor n.
func (f Fixed) Mul(n int32) Fixed {
	return Fixed(int32(f) * n)
}

// String formats the value in decimal for logs.
func (f Fixed) String() string {
	return fmt.Sprintf("%sf", strconv.FormatFloat(f.Float64(), 'g', -1, 64))
}
