package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func observedFields() Fields {
	return Fields{
		Area:           "Dunlap",
		Region:         "Tennessee",
		LocalTime:      "2026-08-28 07:15 AM",
		ObsTime:        "12:15 PM",
		TempC:          "21",
		TempF:          "70",
		FeelsLikeC:     "18",
		FeelsLikeF:     "64",
		Condition:      "Partly cloudy",
		Humidity:       "72",
		WindSpeed:      "13",
		WindDir:        "SSW",
		Sunrise:        "06:18 AM",
		Sunset:         "07:31 PM",
		HasObservation: true,
	}
}

func TestCompose_FullLayout(t *testing.T) {
	blocks := Compose(observedFields(), ModeFull)
	require.Len(t, blocks, 2)

	assert.Equal(t, "Weather in Dunlap, Tennessee:\n"+
		"Time: 2026-08-28 07:15 AM\n"+
		"Temp: 21°C (70°F)\n"+
		"RealFeel: 18°C (64°F)\n"+
		"Conditions: Partly cloudy\n"+
		"Humidity: 72%", blocks[0])

	assert.Equal(t, "Wind: 13km/h SSW\n"+
		"Sunrise: 06:18 AM\n"+
		"Sunset: 07:31 PM\n"+
		"Last Obs UTC: 12:15 PM", blocks[1])
}

func TestCompose_FullPrintsSentinelsVerbatim(t *testing.T) {
	// Full mode is diagnostic: missing upstream data should be visible.
	f := Fields{
		Area: UnknownArea, LocalTime: NotAvailable, ObsTime: NotAvailable,
		TempC: NotAvailable, TempF: NotAvailable,
		FeelsLikeC: NotAvailable, FeelsLikeF: NotAvailable,
		Condition: NotAvailable, Humidity: NotAvailable,
		WindSpeed: NotAvailable, WindDir: NotAvailable,
		Sunrise: NotAvailable, Sunset: NotAvailable,
		HasObservation: true,
	}
	blocks := Compose(f, ModeFull)
	require.Len(t, blocks, 2)

	assert.Contains(t, blocks[0], "Weather in Unknown Location:")
	assert.Contains(t, blocks[0], "Temp: N/A°C (N/A°F)")
	assert.Contains(t, blocks[1], "Wind: N/Akm/h N/A")
}

func TestCompose_Unavailable(t *testing.T) {
	for _, mode := range []Mode{ModeFull, ModeConcise} {
		blocks := Compose(Fields{Area: UnknownArea}, mode)
		assert.Equal(t, []string{UnavailableMessage}, blocks, "mode %s", mode)
	}
}

func TestCompose_Concise(t *testing.T) {
	t.Run("quiet day omits every optional clause", func(t *testing.T) {
		f := observedFields()
		f.Area = UnknownArea
		f.Region = ""
		f.Condition = "Clear"
		f.TempC = "20"
		f.FeelsLikeC = "20"
		f.WindSpeed = "0"
		f.Humidity = "50"

		blocks := Compose(f, ModeConcise)
		require.Len(t, blocks, 1)
		assert.Equal(t, "Weather in Unknown Location is clear today with 20°C", blocks[0])
	})

	t.Run("everything noteworthy", func(t *testing.T) {
		blocks := Compose(observedFields(), ModeConcise)
		require.Len(t, blocks, 1)
		assert.Equal(t, "Weather in Dunlap, Tennessee is partly cloudy today "+
			"with 21°C (feels like 18°C) and winds at 13km/h SSW. Humidity 72%", blocks[0])
	})

	t.Run("wind direction missing", func(t *testing.T) {
		f := observedFields()
		f.WindDir = NotAvailable
		f.Humidity = "50"
		msg := Compose(f, ModeConcise)[0]
		assert.Contains(t, msg, "and winds at 13km/h")
		assert.NotContains(t, msg, "N/A")
		// No trailing space where the direction would have gone.
		assert.Equal(t, msg, "Weather in Dunlap, Tennessee is partly cloudy today with 21°C (feels like 18°C) and winds at 13km/h")
	})

	t.Run("decimal zero wind is calm", func(t *testing.T) {
		f := observedFields()
		f.WindSpeed = "0.0"
		assert.NotContains(t, Compose(f, ModeConcise)[0], "winds")
	})

	t.Run("sentinel temperature drops the clause", func(t *testing.T) {
		f := observedFields()
		f.TempC = NotAvailable
		msg := Compose(f, ModeConcise)[0]
		assert.NotContains(t, msg, "with")
		assert.NotContains(t, msg, "feels like")
	})

	t.Run("sentinel condition drops the clause", func(t *testing.T) {
		f := observedFields()
		f.Condition = NotAvailable
		msg := Compose(f, ModeConcise)[0]
		assert.NotContains(t, msg, "n/a")
		assert.Contains(t, msg, "Weather in Dunlap, Tennessee today")
	})

	t.Run("unparseable humidity is skipped", func(t *testing.T) {
		f := observedFields()
		f.Humidity = "very humid"
		assert.NotContains(t, Compose(f, ModeConcise)[0], "Humidity")
	})

	t.Run("humidity below threshold is omitted", func(t *testing.T) {
		f := observedFields()
		f.Humidity = "69"
		assert.NotContains(t, Compose(f, ModeConcise)[0], "Humidity")
	})
}

func TestCompose_Idempotent(t *testing.T) {
	f := observedFields()
	for _, mode := range []Mode{ModeFull, ModeConcise} {
		assert.Equal(t, Compose(f, mode), Compose(f, mode), "mode %s", mode)
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("full")
	require.NoError(t, err)
	assert.Equal(t, ModeFull, m)

	m, err = ParseMode("concise")
	require.NoError(t, err)
	assert.Equal(t, ModeConcise, m)

	_, err = ParseMode("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verbose")
}
