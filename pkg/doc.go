// Package pkg provides the core libraries for Drivetrain transmission scheme
// diagrams.
//
// # Overview
//
// Drivetrain turns an ordered list of transmission stages (gear, belt, chain,
// toothed belt, bevel, worm and planetary sets) and spacer shafts into a
// kinematic scheme: positioned symbols, connecting shafts, bearings and
// non-overlapping ratio callouts. Overlapping symbols are detected and
// reported, never moved.
//
// # Architecture
//
// One layout pass flows through the packages in this order:
//
//	Definition file (TOML, YAML, JSON)
//	         ↓
//	    [io] package (decode + validate into [transmission] elements)
//	         ↓
//	    [layout] package (cursor walk over [symbol] geometry in [geom] space)
//	         ↓
//	    [overlap], [support], [callout], [interact]
//	         ↓
//	    [scheme] package (one Scene per pass)
//	         ↓
//	    [render/sink] (SVG, JSON) and [render/chain] (Graphviz)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/drivetrain/pkg/io"
//	    "github.com/matzehuels/drivetrain/pkg/render/sink"
//	    "github.com/matzehuels/drivetrain/pkg/scheme"
//	)
//
//	elems, _ := io.ImportDefinition("gearbox.toml")
//	sc := scheme.Build(elems, scheme.DefaultOptions(), scheme.ViewState{})
//	svg := sink.RenderSVG(sc)
//
// # Main Packages
//
// ## Layout Core
//
// The core packages are pure and deterministic: the same elements, options
// and view state always produce the same scene, and none of them log.
//
// [transmission] - The element model: stages with one or more variants,
// spacers, kinds, directions and the layout flag.
//
// [geom] - Points, owner-tagged boxes and the affine transform that maps a
// symbol's local frame into world space.
//
// [symbol] - One geometry provider per kind: local sub-boxes, drawing marks,
// callout anchors and free shaft ends.
//
// [layout] - The cursor walk. Every element advances an immutable cursor and
// yields a placement; automatic spacers are inserted where the parallel
// layout flips.
//
// [overlap] - Pairwise collision detection, the set fingerprint and the
// dismissable warning tracker.
//
// [support] - Bearing placement at free and shared shaft ends.
//
// [callout] - The greedy `u=` callout solver behind the [callout.Placer]
// interface.
//
// [interact] - The draw-order navigation index.
//
// [scheme] - Runs all of the above and sizes the canvas.
//
// ## Output
//
// [render/sink] - SVG scheme (svgo) and flat JSON scene.
//
// [render/chain] - The kinematic chain as a Graphviz node-link diagram.
//
// [io] - Definition, tuning and scene files.
//
// ## Host Tooling
//
// [pipeline] - Layout and render with content-addressed caching, shared by
// the CLI and the HTTP server.
//
// [cache] - File, memory, Redis and null backends behind one interface.
//
// [session] - Remembered selection and dismissed warning, on disk for the CLI
// and in the cache for the server.
//
// [server] - The chi HTTP API.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors and input validation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//	go test -run Example ./... # Examples only
//
// [transmission]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/transmission
// [geom]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/geom
// [symbol]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/symbol
// [layout]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/layout
// [overlap]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/overlap
// [support]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/support
// [callout]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/callout
// [callout.Placer]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/callout#Placer
// [interact]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/interact
// [scheme]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/scheme
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/render/sink
// [render/chain]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/render/chain
// [io]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/session
// [server]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/drivetrain/pkg/errors
package pkg
