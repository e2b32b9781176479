// Package domain holds the pure core of the weather broadcast pipeline:
// pulling a fixed field set out of a wttr.in report, rendering it into
// message text, and fitting that text under the radio's payload budget.
//
// # Data Source
//
// Reports come from https://wttr.in/<location>?format=j1, a JSON document
// with three optional top-level sections:
//
//	current_condition[0]   temperature, feels-like, humidity, wind,
//	                       condition description, observation times
//	nearest_area[0]        areaName[0].value, region[0].value
//	weather[0].astronomy[0] sunrise, sunset
//
// wttr.in aggregates several upstream providers and omits whole sections
// when a provider has no data, so no field can be assumed present. All
// values are strings in the source document; numeric leaves that do
// appear as JSON numbers are stringified during extraction.
//
// # Sentinels
//
// Absent data is represented in-band rather than as an error:
//
//	"N/A"               any missing observation or astronomy field
//	"Unknown Location"  missing area name
//	""                  missing region (the region is an optional suffix
//	                    on the location line, never shown alone)
//
// [Extract] is total: any amount of missing document structure degrades
// to sentinels. Absence is data, not failure.
//
// # Message Budget
//
// Meshtastic text payloads top out near 230 bytes; the pipeline keeps a
// margin and budgets 200 bytes per message by default. [Optimize]
// guarantees every batch entry fits the budget under the chunked policy;
// under the block-preserving policy a single oversized block is sent
// whole, trading the guarantee for keeping related fields together.
package domain
