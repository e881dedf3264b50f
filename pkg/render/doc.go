// Package render groups the output stages for a computed scheme.
//
// # Scheme Sinks
//
// The [sink] subpackage draws the kinematic scheme itself. Every symbol is
// painted from its local geometry pushed through the placement transform.
//
//	svg := sink.RenderSVG(scene, sink.WithHighlight())
//	data, err := sink.RenderJSON(scene, sink.WithJSONIndent())
//
// # Chain View
//
// The [chain] subpackage renders the same transmission as a node-link
// diagram of its kinematic chain using Graphviz: one node per element,
// edges labelled with the stage ratio.
//
//	dot := chain.ToDOT(scene, chain.Options{})
//	svg, err := chain.RenderSVG(ctx, dot)
//
// [sink]: github.com/matzehuels/drivetrain/pkg/render/sink
// [chain]: github.com/matzehuels/drivetrain/pkg/render/chain
package render
