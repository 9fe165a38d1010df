package vending

// Inventory is the stock bitmap, bit i set when slot i has soda.
type Inventory uint8

// Has reports whether slot has soda. Out of range slots never do.
func (inv Inventory) Has(slot int) bool {
	if slot < MinSlot || slot > MaxSlot {
		return false
	}
	return inv&(1<<uint(slot)) != 0
}

// Count returns the number of stocked slots.
func (inv Inventory) Count() (n int) {
	for slot := MinSlot; slot <= MaxSlot; slot++ {
		if inv.Has(slot) {
			n++
		}
	}
	return
}

// String renders slot 0 first, X for stocked and 0 for empty.
func (inv Inventory) String() string {
	var b [Slots]byte
	for slot := range b {
		b[slot] = '0'
		if inv.Has(slot) {
			b[slot] = 'X'
		}
	}
	return string(b[:])
}
