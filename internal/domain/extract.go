package domain

// Fields is the flat set of values pulled from a Report. Every field is
// always populated: absent data carries the NotAvailable or UnknownArea
// sentinel instead of being missing.
type Fields struct {
	Area      string // nearest area name
	Region    string // administrative region, empty when unknown
	LocalTime string // local observation timestamp
	ObsTime   string // observation time, UTC

	TempC      string // °C
	TempF      string // °F
	FeelsLikeC string
	FeelsLikeF string
	Condition  string // free-text condition description
	Humidity   string // percent
	WindSpeed  string // km/h
	WindDir    string // 16-point compass
	Sunrise    string
	Sunset     string

	// HasObservation is false when the report carried no
	// current_condition section at all. Compose uses it to fall back to
	// the fixed unavailable-data message.
	HasObservation bool
}

// Extract pulls the fixed field set out of a report. It is total:
// missing structure degrades to sentinels, never to an error.
func Extract(r Report) Fields {
	doc := any(map[string]any(r))
	return Fields{
		Area:      stringAt(doc, UnknownArea, "nearest_area", 0, "areaName", 0, "value"),
		Region:    stringAt(doc, "", "nearest_area", 0, "region", 0, "value"),
		LocalTime: stringAt(doc, NotAvailable, "current_condition", 0, "localObsDateTime"),
		ObsTime:   stringAt(doc, NotAvailable, "current_condition", 0, "observation_time"),

		TempC:      stringAt(doc, NotAvailable, "current_condition", 0, "temp_C"),
		TempF:      stringAt(doc, NotAvailable, "current_condition", 0, "temp_F"),
		FeelsLikeC: stringAt(doc, NotAvailable, "current_condition", 0, "FeelsLikeC"),
		FeelsLikeF: stringAt(doc, NotAvailable, "current_condition", 0, "FeelsLikeF"),
		Condition:  stringAt(doc, NotAvailable, "current_condition", 0, "weatherDesc", 0, "value"),
		Humidity:   stringAt(doc, NotAvailable, "current_condition", 0, "humidity"),
		WindSpeed:  stringAt(doc, NotAvailable, "current_condition", 0, "windspeedKmph"),
		WindDir:    stringAt(doc, NotAvailable, "current_condition", 0, "winddir16Point"),
		Sunrise:    stringAt(doc, NotAvailable, "weather", 0, "astronomy", 0, "sunrise"),
		Sunset:     stringAt(doc, NotAvailable, "weather", 0, "astronomy", 0, "sunset"),

		HasObservation: r.HasCurrentCondition(),
	}
}
