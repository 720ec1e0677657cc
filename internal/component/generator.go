package component

// Generator consumes matching items as fuel. FuelKind is the item kind it
// burns; anything else is declined.
type Generator struct {
	FuelKind string
	Stored   int32 // consumed fuel units not yet burned
}

// CanTake is the side-effect-free fuel kind check.
func (g *Generator) CanTake(itemKind string) bool {
	return itemKind != "" && itemKind == g.FuelKind
}

// TryTake consumes the item as fuel.
func (g *Generator) TryTake(itemKind string) bool {
	if !g.CanTake(itemKind) {
		return false
	}
	g.Stored++
	return true
}
