package component

// UndergroundEntry is an item travelling through an underground belt,
// tagged with the tick it may surface.
type UndergroundEntry struct {
	Item     int32
	ExitTick uint64
}

// Underground is the entrance half of an underground belt. Tier selects the
// tunnel speed formula; Pending holds in-flight items in entry order.
type Underground struct {
	Tier    int
	Span    int32 // tunnel length in tiles
	Pending []UndergroundEntry

	lastEntryTick uint64
	hasEntered    bool
}

// CanAcceptExternal is the side-effect-free spacing check: two items may not
// enter closer together than the time one tile takes at the supplied
// transport speed (tiles per second).
func (u *Underground) CanAcceptExternal(nowTick uint64, tickRateHz float64, speed float64) bool {
	if speed <= 0 {
		return false
	}
	if !u.hasEntered {
		return true
	}
	spacing := uint64(tickRateHz / speed)
	if spacing < 1 {
		spacing = 1
	}
	return nowTick-u.lastEntryTick >= spacing
}

// TryAcceptExternal commits an item into the tunnel at the supplied
// transport speed. Declines (spacing not yet elapsed) leave state untouched.
func (u *Underground) TryAcceptExternal(item int32, nowTick uint64, tickRateHz float64, speed float64) bool {
	if item == 0 || !u.CanAcceptExternal(nowTick, tickRateHz, speed) {
		return false
	}
	travel := uint64(float64(u.Span) / speed * tickRateHz)
	u.Pending = append(u.Pending, UndergroundEntry{Item: item, ExitTick: nowTick + travel})
	u.lastEntryTick = nowTick
	u.hasEntered = true
	return true
}
