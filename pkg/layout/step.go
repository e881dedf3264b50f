package layout

import (
	"fmt"

	"github.com/matzehuels/drivetrain/pkg/geom"
	"github.com/matzehuels/drivetrain/pkg/symbol"
	"github.com/matzehuels/drivetrain/pkg/transmission"
)

// StepSource places the power source so that its output shaft ends at c.
// The cursor does not move.
func StepSource(c Cursor) Placement {
	c.Dir = c.direction()
	g := symbol.Motor()
	tr := axisTransform(c, g, g.Width)
	return place(SourceID, TypeSource, g, tr, Orientation{Rotation: c.Dir.Angle()}, c.Advance(-g.Width), c)
}

// StepSpacer advances the cursor by the spacer's length along its direction.
// Cardan spacers use their fixed intrinsic length.
func StepSpacer(c Cursor, sp transmission.Spacer) (Cursor, Placement) {
	c.Dir = c.direction()
	g := symbol.Spacer(sp)
	out := c.Advance(symbol.SpacerLength(sp))
	p := place(sp.ID, TypeSpacer, g, axisTransform(c, g, 0), Orientation{Rotation: c.Dir.Angle()}, c, out)
	p.Spacer = &sp
	return out, p
}

// StepVariant places a single variant at c on behalf of stage id and returns
// the cursor at its output shaft. turn is only read by turning kinds.
func StepVariant(c Cursor, id string, v transmission.Variant, turn transmission.Direction) (Cursor, Placement) {
	c.Dir = c.direction()
	var (
		out Cursor
		p   Placement
	)
	switch v.Kind.Class() {
	case transmission.ClassTurning:
		out, p = stepTurning(c, id, v, turn)
	case transmission.ClassCoaxial:
		out, p = stepAxial(c, id, v, false)
	default:
		out, p = stepAxial(c, id, v, true)
	}
	p.Kind = v.Kind
	p.Variant = &v
	return out, p
}

// stepAxial places a symbol whose input shaft line lies on the flow axis:
// parallel pairs and the coaxial planetary set. Only parallel pairs honour
// the reversed flag.
func stepAxial(c Cursor, id string, v transmission.Variant, parallel bool) (Cursor, Placement) {
	params := symbol.ParamsOf(v)
	if !parallel {
		params.Reversed = false
	}
	g := symbol.Of(v.Kind, params)
	o := Orientation{Rotation: c.Dir.Angle()}
	out := c.At(attach(c, g.Input, g.Output, o))
	if parallel && v.Reversed {
		out.Dir = c.Dir.Opposite()
	}
	return out, place(id, TypeStage, g, axisTransform(c, g, 0), o, c, out)
}

// stepTurning resolves the orientation from the turn table and places the
// square footprint so its input edge midpoint sits at c.
func stepTurning(c Cursor, id string, v transmission.Variant, turn transmission.Direction) (Cursor, Placement) {
	g := symbol.Of(v.Kind, symbol.ParamsOf(v))
	o, dir := Turn(c.Dir, turn)
	sx, sy := o.scale()
	cx, cy := g.Width/2, g.Height/2

	ix, iy := geom.Rotate((g.Input.X-cx)*sx, (g.Input.Y-cy)*sy, o.Rotation)
	tr := geom.Transform{
		TranslateX: c.X - (ix + cx),
		TranslateY: c.Y - (iy + cy),
		Rotation:   o.Rotation,
		CenterX:    cx,
		CenterY:    cy,
		Width:      g.Width,
		Height:     g.Height,
		ScaleX:     sx,
		ScaleY:     sy,
	}
	out := c.At(attach(c, g.Input, g.Output, o)).Facing(dir)
	return out, place(id, TypeStage, g, tr, o, c, out)
}

// StackAlternatives places the non-selected variants of a multi-variant
// stage beside the selected one, stacked on the left-hand side of the flow
// with gap between neighbours. The selected variant is not included.
// Alternatives of non-parallel kinds are not drawn.
func StackAlternatives(in Cursor, st *transmission.Stage, gap float64) []Placement {
	in.Dir = in.direction()
	sel := st.SelectedIndex()
	selected := st.Variants[sel]
	edge := -symbol.Of(selected.Kind, symbol.ParamsOf(selected)).AxisY

	var out []Placement
	for i, v := range st.Variants {
		if i == sel || !v.Kind.IsParallel() {
			continue
		}
		g := symbol.Of(v.Kind, symbol.ParamsOf(v))
		offset := edge - gap - (g.Height - g.AxisY)
		edge = offset - g.AxisY

		c := in.Offset(offset)
		_, p := StepVariant(c, variantID(st, i), v, st.Turn)
		p.Type = TypeVariant
		p.VariantIndex = i
		out = append(out, p)
	}
	return out
}

func variantID(st *transmission.Stage, i int) string {
	if id := st.Variants[i].ID; id != "" {
		return id
	}
	return fmt.Sprintf("%s.v%d", st.ID, i+1)
}

// axisTransform maps a symbol so that the local point (anchorX, AxisY) lands
// on the cursor and local +x follows the cursor direction. Rotated symbols
// pivot on their shaft line through InternalOffsetY.
func axisTransform(c Cursor, g symbol.Geometry, anchorX float64) geom.Transform {
	rot := c.Dir.Angle()
	if rot == 0 {
		return geom.Transform{
			TranslateX: c.X - anchorX,
			TranslateY: c.Y - g.AxisY,
			Width:      g.Width,
			Height:     g.Height,
		}
	}
	dx, dy := geom.Rotate(anchorX, 0, rot)
	return geom.Transform{
		TranslateX:      c.X - dx,
		TranslateY:      c.Y - dy,
		Rotation:        rot,
		InternalOffsetY: -g.AxisY,
		Width:           g.Width,
		Height:          g.Height,
	}
}

// attach returns the world position of local point p for a symbol whose
// local point from sits on the cursor. Computing relative to the cursor keeps
// quarter-turn placements exact.
func attach(c Cursor, from, p geom.Point, o Orientation) geom.Point {
	sx, sy := o.scale()
	x, y := geom.Rotate((p.X-from.X)*sx, (p.Y-from.Y)*sy, o.Rotation)
	return geom.Point{X: c.X + x, Y: c.Y + y}
}

func place(id string, typ Type, g symbol.Geometry, tr geom.Transform, o Orientation, in, out Cursor) Placement {
	p := Placement{
		ID:        id,
		Type:      typ,
		Element:   -1,
		Turn:      o,
		Transform: tr,
		Geometry:  g,
		Bounds:    tr.BoxToWorld(g.Bounds()).WithOwner(id),
		In:        in,
		Out:       out,
	}
	if len(g.Boxes) > 0 {
		p.Boxes = make([]geom.Bbox, len(g.Boxes))
		for i, b := range g.Boxes {
			p.Boxes[i] = tr.BoxToWorld(b).WithOwner(id)
		}
	}
	for _, f := range g.FreeEnds {
		p.FreeEnds = append(p.FreeEnds, attach(in, g.Input, f, o))
	}
	return p
}
