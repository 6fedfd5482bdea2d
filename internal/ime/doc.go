// Package ime implements the pre-edit session of the zhuyin input method.
//
// # Architecture Overview
//
// A Session sits between the host input framework and a phonetic engine.
// The host delivers key, focus and property events; the session filters
// them, drives the engine and pushes the resulting display state back:
//
//	host event → Session (guards) → PhoneticEngine → refresh → Host
//
// Focus and mode-toggle events re-enter the refresh path without the key
// guards.
//
// # Display Pipeline
//
// Every state-affecting event runs four steps:
//
//	┌──────────────┬──────────────────────────────────────────────────┐
//	│ Step         │ Result                                           │
//	├──────────────┼──────────────────────────────────────────────────┤
//	│ Pre-edit     │ underlined composition, highlighted cursor char  │
//	│ Commit       │ finalised engine text delivered, then cleared    │
//	│ Auxiliary    │ engine message, else "(page/total)", else hidden │
//	│ Lookup table │ engine's candidate page, shown or hidden         │
//	└──────────────┴──────────────────────────────────────────────────┘
//
// The pipeline runs after every key, consumed or not, so the host view
// never goes stale.
//
// # Password Fields
//
// When the client declares a password or PIN field the session rejects all
// keys without touching the engine. Existing composition is not cleared;
// it simply stops changing until the field type changes again.
//
// # Threading
//
// A Session has no locks. The transport delivering host events must call it
// from one goroutine at a time.
package ime
