package cart

// Line is one product's presence in a cart. The JSON shape doubles as the
// wire format for both the local slot blobs and the remote cart service.
type Line struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"qty"`
}

// Items is an ordered cart: insertion order is preserved and at most one
// line exists per product ID. A line never has a quantity below 1; it is
// removed instead.
type Items []Line

// Add merges line into items. An existing line for the same product gets its
// quantity increased; otherwise the line is appended at the end.
func Add(items Items, line Line) Items {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	for i := range items {
		if items[i].ProductID == line.ProductID {
			next := items.Clone()
			next[i].Quantity += line.Quantity
			return next
		}
	}
	next := make(Items, 0, len(items)+1)
	next = append(next, items...)
	next = append(next, line)
	return next
}

// Remove deletes the line for productID. Removing an absent product is a no-op.
func Remove(items Items, productID int64) Items {
	next := make(Items, 0, len(items))
	for _, l := range items {
		if l.ProductID != productID {
			next = append(next, l)
		}
	}
	return next
}

// SetQuantity replaces the quantity on the line for productID. A quantity
// below 1 removes the line, so a zero-quantity line can never be stored.
// The second return value reports whether the line existed.
func SetQuantity(items Items, productID int64, quantity int) (Items, bool) {
	for i := range items {
		if items[i].ProductID != productID {
			continue
		}
		if quantity < 1 {
			return Remove(items, productID), true
		}
		next := items.Clone()
		next[i].Quantity = quantity
		return next, true
	}
	return items, false
}

// Total is the derived sum of price x quantity over all lines. It is always
// recomputed, never stored.
func Total(items Items) float64 {
	var sum float64
	for _, l := range items {
		sum += l.Price * float64(l.Quantity)
	}
	return sum
}

// Clone returns an independent copy so callers can hand out snapshots without
// aliasing the authoritative slice.
func (items Items) Clone() Items {
	if items == nil {
		return nil
	}
	next := make(Items, len(items))
	copy(next, items)
	return next
}

// normalize drops lines that violate the cart invariants. Used at trust
// boundaries (local slot blobs, remote payloads) where the stored shape
// cannot be assumed valid.
func normalize(items Items) Items {
	next := make(Items, 0, len(items))
	for _, l := range items {
		if l.ProductID <= 0 || l.Quantity < 1 {
			continue
		}
		next = append(next, l)
	}
	return next
}
