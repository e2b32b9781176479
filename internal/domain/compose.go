package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects one of the two formatting strategies.
type Mode int

const (
	// ModeFull renders the diagnostic two-block layout. Sentinel values
	// print verbatim so a missing upstream field is visible on air.
	ModeFull Mode = iota
	// ModeConcise renders a single natural-language sentence. Sentinel
	// values are omitted rather than read out loud.
	ModeConcise
)

// ParseMode maps a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "full":
		return ModeFull, nil
	case "concise":
		return ModeConcise, nil
	default:
		return ModeFull, fmt.Errorf("unknown message mode %q (want full or concise)", s)
	}
}

func (m Mode) String() string {
	if m == ModeConcise {
		return "concise"
	}
	return "full"
}

// UnavailableMessage is broadcast when the report has no current
// conditions to format.
const UnavailableMessage = "Weather data unavailable"

// humidityNoteworthy is the lowest humidity percentage the concise
// sentence bothers to mention.
const humidityNoteworthy = 70

// Compose renders fields into ordered text blocks. Full mode always
// yields two blocks (identity/temperature/condition first, wind/sun/
// observation time second); concise mode yields exactly one. The field
// order and labels of the full layout are part of the wire contract.
// Compose is pure: same fields and mode, same blocks.
func Compose(f Fields, mode Mode) []string {
	if !f.HasObservation {
		return []string{UnavailableMessage}
	}
	if mode == ModeConcise {
		return []string{composeConcise(f)}
	}
	return []string{composePrimary(f), composeSecondary(f)}
}

// locationLine joins area and region, dropping the region when unknown.
func locationLine(f Fields) string {
	if f.Region != "" {
		return f.Area + ", " + f.Region
	}
	return f.Area
}

func composePrimary(f Fields) string {
	return fmt.Sprintf("Weather in %s:\nTime: %s\nTemp: %s°C (%s°F)\nRealFeel: %s°C (%s°F)\nConditions: %s\nHumidity: %s%%",
		locationLine(f), f.LocalTime, f.TempC, f.TempF, f.FeelsLikeC, f.FeelsLikeF, f.Condition, f.Humidity)
}

func composeSecondary(f Fields) string {
	return fmt.Sprintf("Wind: %skm/h %s\nSunrise: %s\nSunset: %s\nLast Obs UTC: %s",
		f.WindSpeed, f.WindDir, f.Sunrise, f.Sunset, f.ObsTime)
}

// composeConcise builds one sentence, attaching each clause only when
// its data is present and worth saying: feels-like only when it differs
// from the plain temperature, wind only when non-calm, humidity only
// when at or above humidityNoteworthy.
func composeConcise(f Fields) string {
	var b strings.Builder
	b.WriteString("Weather in ")
	b.WriteString(locationLine(f))
	if f.Condition != NotAvailable {
		b.WriteString(" is ")
		b.WriteString(strings.ToLower(f.Condition))
	}
	b.WriteString(" today")

	if f.TempC != NotAvailable {
		b.WriteString(" with ")
		b.WriteString(f.TempC)
		b.WriteString("°C")
		if f.FeelsLikeC != NotAvailable && f.FeelsLikeC != f.TempC {
			b.WriteString(" (feels like ")
			b.WriteString(f.FeelsLikeC)
			b.WriteString("°C)")
		}
	}

	if windNonCalm(f.WindSpeed) {
		b.WriteString(" and winds at ")
		b.WriteString(f.WindSpeed)
		b.WriteString("km/h")
		if f.WindDir != NotAvailable {
			b.WriteString(" ")
			b.WriteString(f.WindDir)
		}
	}

	if h, err := strconv.Atoi(f.Humidity); err == nil && h >= humidityNoteworthy {
		fmt.Fprintf(&b, ". Humidity %d%%", h)
	}

	return b.String()
}

// windNonCalm reports whether the wind clause should appear: the speed
// must be present and numerically non-zero. Parsing the value catches
// "0", "0.0", and junk alike.
func windNonCalm(speed string) bool {
	if speed == NotAvailable {
		return false
	}
	v, err := strconv.ParseFloat(speed, 64)
	return err == nil && v != 0
}
