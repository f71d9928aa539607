// Package domain models hail-storm history records.
//
// # Data Source
//
// Hail events are synthesized by a text-generation model from public weather
// reporting and returned as JSON. The model is asked for one record per
// event with the fields listed on [Report]; it frequently returns numbers as
// strings, omits fields or wraps the array in an {"events": [...]} object, so
// every field is decoded leniently and defaults are filled in [NormalizeReport].
//
// # Field Conventions
//
// Date and time:
//
//	date "YYYY-MM-DD" (required), time "HH:MM[:SS]" local to the event.
//	A missing time becomes "00:00:00".
//
// Hail size:
//
//	Diameter in millimetres. Categories use strict lower bounds:
//
//	  ≤ 15 mm small | > 15 medium | > 25 large | > 50 very_large | > 100 extreme
//
// Reports count:
//
//	Number of independent reports for the event. Missing or zero becomes 1.
//
// # Identity
//
// An event is identified by (date, city, hail_size_mm). Two reports that agree
// on all three are the same storm cell, so the monitor skips the second one.
// IDs are name-based UUIDs over that key; see [EventID].
package domain
