// Package pile computes where dropped items land in a bounded pile region.
//
// A pile is the scattered, row-wrapped heap of items a drop zone shows after
// items are dragged into it. Placement is a four-stage chain:
//
//  1. [Cursor.Place] returns the next insertion point and advances the cursor,
//     wrapping to a new row when the item would overflow the right edge.
//  2. The item is centered on that point (x + width/2).
//  3. [Jitterer.Apply] perturbs the center and draws a rotation angle.
//  4. [Region.Clamp] keeps the jittered center x inside the borders.
//
// [Pile] bundles the chain into a single [Pile.Drop] call and records every
// [Placement] it produced.
//
// # Row Wrapping
//
// A wrap happens exactly when cursor.x + width > right and the cursor is not
// already at the left edge. An item wider than the region is therefore still
// placed at the start of a row and forces a wrap on the following drop; this
// is accepted behavior and is not corrected.
//
// # Jitter
//
// Horizontal offsets are drawn from [-PositionX, +PositionX] while vertical
// offsets use half the magnitude, [-PositionY/2, +PositionY/2]. Rotation is
// drawn from [-RotationDegrees, +RotationDegrees]. Zero magnitudes produce
// exactly zero offsets, which makes placements deterministic.
//
// # Concurrency
//
// A Pile is owned by a single container and is not safe for concurrent use.
package pile
