// Package units converts provider units into display units and formats
// rounded display strings.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// System is the unit system the provider was asked to report in.
type System string

const (
	Standard System = "standard"
	Metric   System = "metric"
	Imperial System = "imperial"
)

// PrecipitationUnit is the display unit for rain and snow depth.
type PrecipitationUnit string

const (
	Millimetre PrecipitationUnit = "mm"
	Inch       PrecipitationUnit = "inch"
)

// WindUnit is the display unit for wind speed.
type WindUnit string

const (
	WindAuto  WindUnit = "auto"
	WindMph   WindUnit = "mph"
	WindKmh   WindUnit = "km/h"
	WindKnots WindUnit = "knots"
	WindMs    WindUnit = "m/s"
)

const (
	mmPerInch   = 25.4
	inHgPerHpa  = 0.029529983071445
	compassStep = 22.5
)

// windFactors maps a target unit to its multiplier for a mph source
// (imperial) and a m/s source (metric, standard).
var windFactors = map[WindUnit]struct{ fromMph, fromMs float64 }{
	WindMph:   {1, 2.237},
	WindKmh:   {1.609, 3.6},
	WindKnots: {0.868, 1.944},
	WindMs:    {0.447, 1},
}

var compass = [16]string{
	"↑", "↗", "↗", "↗", "→", "↘", "↘", "↘",
	"↓", "↙", "↙", "↙", "←", "↖", "↖", "↖",
}

// ParseSystem validates a unit system name.
func ParseSystem(s string) (System, error) {
	switch sys := System(strings.ToLower(s)); sys {
	case Standard, Metric, Imperial:
		return sys, nil
	}
	return "", fmt.Errorf("unknown unit system %q", s)
}

// ConvertPrecipitation converts a depth in millimetres.
func ConvertPrecipitation(amount float64, unit PrecipitationUnit) float64 {
	if unit == Inch {
		return amount / mmPerInch
	}
	return amount
}

// ConvertWindSpeed converts speed reported in source's native unit.
// Unknown targets are treated as auto.
func ConvertWindSpeed(speed float64, source System, target WindUnit) float64 {
	f, ok := windFactors[target]
	if !ok {
		if source == Metric {
			return speed * 3.6
		}
		return speed
	}
	if source == Imperial {
		return speed * f.fromMph
	}
	return speed * f.fromMs
}

// WindSpeedUnit names the unit ConvertWindSpeed produces.
func WindSpeedUnit(source System, target WindUnit) WindUnit {
	if _, ok := windFactors[target]; ok {
		return target
	}
	switch source {
	case Imperial:
		return WindMph
	case Metric:
		return WindKmh
	default:
		return WindMs
	}
}

// CompassDirection maps a bearing to one of 16 arrows, 0° being north.
func CompassDirection(degrees float64) string {
	idx := int(math.Floor(degrees/compassStep+0.5)) % len(compass)
	if idx < 0 {
		idx += len(compass)
	}
	return compass[idx]
}

// ConvertPressure converts hPa to inHg for the imperial system.
func ConvertPressure(hPa float64, system System) float64 {
	if system == Imperial {
		return hPa * inHgPerHpa
	}
	return hPa
}

// Round rounds half up at the given number of decimal places.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}

// Format rounds v and renders it without trailing zeros.
func Format(v float64, places int) string {
	r := Round(v, places)
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// FormatWind renders "speed arrow", or the speed alone when the direction
// is unknown.
func FormatWind(speed float64, degrees *float64, places int) string {
	s := Format(speed, places)
	if degrees == nil {
		return s
	}
	return s + " " + CompassDirection(*degrees)
}
