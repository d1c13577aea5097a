// Package domain models disaster-related signals from heterogeneous public
// feeds and derives a single user-facing risk picture from them.
//
// # Data Sources
//
// Three independent feeds contribute, each with its own shape:
//
//	Weather bundle:  current conditions, a daily forecast array, and active
//	                 weather alerts for a coordinate pair, with alert start
//	                 and end times as epoch seconds.
//	Federal feed:    FEMA disaster declaration summaries for a US state,
//	                 newest first, with an ISO declaration date and no end.
//	Regional feed:   NWS point alerts as a GeoJSON feature collection, with
//	                 onset/expiry as ISO timestamps and a textual severity.
//
// Adapters fetch and flatten these into transient records
// ([WeatherAlertRecord], [Declaration], [RegionalAlertRecord]); the
// normalizers in this package map every record into the canonical [Alert].
//
// # Normalization Conventions
//
// Alert type is inferred from the event or incident name by an ordered
// keyword table (first match wins, case-insensitive substring):
//
//	flood → flood | fire → wildfire | storm, tornado, hurricane → storm |
//	earthquake → earthquake | otherwise → general
//
// Severity is taken from the source when it already matches the canonical
// scale (low, medium, high). Anything else defaults to medium for weather
// feeds. A federal declaration is always high: a declared disaster is
// treated as high severity regardless of incident type.
//
// # ID Generation
//
// Alert and notification IDs are deterministic short SHA-256 hashes of the
// source name, feed index, and key fields, prefixed with the source. Two
// records from the same source at different indexes can never collide, and
// re-normalizing the same feed response reproduces the same IDs.
//
// # Risk Classification
//
// [ClassifyRisk] is the deterministic fallback behind the AI-assisted
// assessment path. It walks a fixed priority ladder: severe alert, high
// wind, thunderstorm, extreme heat, generic advisory, no signal. The first
// matching rule wins; only the severe rule marks the assessment as
// warranting an immediate interrupt.
package domain
