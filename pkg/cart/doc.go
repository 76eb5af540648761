// Package cart implements the shopping-cart drop zone.
//
// A [Cart] accepts dragged items until it reaches its capacity. Accepted items
// are piled with [pile.Pile]; the item's tag then drives an [Effect] such as
// a survival meter (good items heal, bad items hurt). A drop into a full cart
// is refused with [ErrCartFull] and the item is expected to return to where
// it was dragged from.
//
// Hover feedback mirrors the drop outcome before the drop happens: [Cart.Hover]
// reports [HoverValid] when the cart has room and [HoverFull] otherwise, so a
// front end can tint the dragged item accordingly.
//
// A Cart is owned by one UI loop and is not safe for concurrent use.
package cart
