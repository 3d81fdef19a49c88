// Package gate decides whether bootstrap may run on the host platform.
//
// A Gate holds a minimum platform version. Bootstrap is eligible only when the
// host version is strictly above that minimum; a version equal to the minimum
// is ineligible. Host version strings are normalized to semantic versions
// before comparison:
//
//	"29"                     -> 29.0.0
//	"14.2"                   -> 14.2.0
//	"Linux 6.8.0-45-generic" -> 6.8.0
//	"Windows 10+"            -> 10.0.0
//
// The predicate is pure and has no platform dependency.
package gate
