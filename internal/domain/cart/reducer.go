// internal/domain/cart/reducer.go
package cart

// Command is the closed set of cart mutations
type Command interface {
	Name() string
}

// AddItem adds one unit of a product, inserting it when absent
type AddItem struct {
	Item CartItem
}

// RemoveItem deletes a line; absent lines are a no-op
type RemoveItem struct {
	ProductID uint
}

// UpdateQuantity sets a line's quantity; n <= 0 removes it
type UpdateQuantity struct {
	ProductID uint
	Quantity  int
}

// Clear empties the basket
type Clear struct{}

// Load replaces the basket with rehydrated items
type Load struct {
	Items []CartItem
}

func (AddItem) Name() string        { return "add_item" }
func (RemoveItem) Name() string     { return "remove_item" }
func (UpdateQuantity) Name() string { return "update_quantity" }
func (Clear) Name() string          { return "clear" }
func (Load) Name() string           { return "load" }

// Reduce applies cmd to state and returns the next state.
// state is never modified; on error the caller keeps state as is.
func Reduce(state Cart, cmd Command) (Cart, error) {
	switch c := cmd.(type) {
	case AddItem:
		return reduceAdd(state, c)
	case RemoveItem:
		return reduceRemove(state, c.ProductID), nil
	case UpdateQuantity:
		return reduceUpdate(state, c)
	case Clear:
		return Cart{Items: []CartItem{}}, nil
	case Load:
		return reduceLoad(c.Items), nil
	default:
		return state, nil
	}
}

func reduceAdd(state Cart, c AddItem) (Cart, error) {
	next := state.clone()
	idx := next.indexOf(c.Item.ProductID)

	if idx < 0 {
		if c.Item.Stock < 1 {
			return state, &StockExceededError{ProductID: c.Item.ProductID, Requested: 1, Stock: c.Item.Stock}
		}
		item := c.Item
		item.Quantity = 1
		next.Items = append(next.Items, item)
		return next, nil
	}

	current := next.Items[idx]
	if current.Quantity >= c.Item.Stock {
		return state, &StockExceededError{ProductID: current.ProductID, Requested: current.Quantity + 1, Stock: c.Item.Stock}
	}

	// refresh the catalog snapshot while bumping the count
	item := c.Item
	item.Quantity = current.Quantity + 1
	next.Items[idx] = item
	return next, nil
}

func reduceRemove(state Cart, productID uint) Cart {
	idx := state.indexOf(productID)
	if idx < 0 {
		return state
	}
	next := Cart{Items: make([]CartItem, 0, len(state.Items)-1)}
	next.Items = append(next.Items, state.Items[:idx]...)
	next.Items = append(next.Items, state.Items[idx+1:]...)
	return next
}

func reduceUpdate(state Cart, c UpdateQuantity) (Cart, error) {
	if c.Quantity <= 0 {
		return reduceRemove(state, c.ProductID), nil
	}

	idx := state.indexOf(c.ProductID)
	if idx < 0 {
		return state, nil
	}

	current := state.Items[idx]
	if c.Quantity > current.Stock {
		return state, &StockExceededError{ProductID: c.ProductID, Requested: c.Quantity, Stock: current.Stock}
	}

	next := state.clone()
	next.Items[idx].Quantity = c.Quantity
	return next, nil
}

// reduceLoad drops lines that break the quantity invariant and clamps overfull ones
func reduceLoad(items []CartItem) Cart {
	next := Cart{Items: make([]CartItem, 0, len(items))}
	seen := make(map[uint]bool, len(items))

	for _, item := range items {
		if seen[item.ProductID] || item.Quantity < 1 || item.Stock < 1 {
			continue
		}
		if item.Quantity > item.Stock {
			item.Quantity = item.Stock
		}
		seen[item.ProductID] = true
		next.Items = append(next.Items, item)
	}
	return next
}
