// Package io reads transmission definitions and tuning files, and reads and
// writes computed scenes as JSON.
//
// # Definition Files
//
// A definition is an ordered list of elements. The format is picked from the
// file extension: .toml, .yaml/.yml or .json. All three share one schema:
//
//	[[elements]]
//	id = "input"
//	  [[elements.variants]]
//	  kind = "gear"
//	  z1 = 20
//	  z2 = 60
//
//	[[elements]]
//	type = "spacer"
//	length = 40
//	style = "cardan"
//
//	[[elements]]
//	turn = "down"
//	  [[elements.variants]]
//	  kind = "bevel"
//	  z1 = 15
//	  z2 = 30
//
// An element without a type is a stage when it lists variants and a spacer
// otherwise. Missing ids are filled in as stage-N, stage-N.vM and spacer-N
// where N is the 1-based element position. A variant without a ratio gets
// z2/z1, or d2/d1 when no teeth are given.
//
// Every decoded definition is passed through [transmission.Validate].
//
// # Tuning Files
//
// [LoadOptions] decodes a TOML file over [scheme.DefaultOptions]. Unknown keys
// are rejected so that typos in weight names do not go unnoticed:
//
//	padding = 60
//	source_callout = true
//
//	[callout]
//	vertical_penalty = 300
//
//	[layout.start]
//	direction = "down"
//
// # Scenes
//
// [WriteScene] and [ReadScene] round-trip a [scheme.Scene] through JSON. The
// pipeline cache stores scenes in this form.
package io
