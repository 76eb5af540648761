// Package pkg holds the cartpile libraries.
//
// # Overview
//
// Cartpile lays out items dropped into a bounded cart region: left to right,
// wrapping into rows, with bounded random jitter so the pile looks tossed in.
// The libraries are layered leaf first:
//
//  1. [pile] - cursor, row wrapping, jitter and clamping
//  2. [cart] - capacity, hover feedback and item effects around a pile
//  3. [survival] - the HP meter good and bad items move
//  4. [ui] - panels, pause, inspector, input dispatch, typewriter, scroller
//  5. [dialogue] - item lines with fuzzy name lookup
//  6. [store] - cart snapshots in memory, files, Redis or MongoDB
//  7. [render] - SVG, JSON, XLSX and chart exports, panel flow diagrams
//  8. [io] - item lists from JSON and XLSX files
//
// Supporting packages: [config] (TOML settings), [errors] (coded errors),
// [observability] (hooks) and [buildinfo].
//
// # Quick Start
//
//	p, _ := pile.New(pile.DefaultConfig())
//	for _, w := range []float64{40, 60, 120} {
//	    pl := p.Drop(w)
//	    fmt.Printf("row %d at (%.0f, %.0f) rotated %.0f°\n", pl.Row, pl.X, pl.Y, pl.Rotation)
//	}
//
// With game rules:
//
//	meter, _ := survival.NewMeter(survival.DefaultConfig())
//	c, _ := cart.New(cart.DefaultConfig(), cart.WithEffect(meter))
//	if _, err := c.Drop(ctx, cart.NewItem("apple", cart.TagGood, 40)); errors.Is(err, cart.ErrCartFull) {
//	    // the item snaps back
//	}
//	svg := render.RenderSVG(render.NewLayout(c, meter), render.WithLabels())
package pkg
