package model

// CartItem is a line held in a per-owner cart. Quantity is always
// at least 1; merging carts sums quantities per identifier.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Quantity int     `json:"quantity"`
}

// Cart is the serializable state stored per owner key.
type Cart struct {
	Owner string     `json:"owner"`
	Items []CartItem `json:"items"`
}

// ItemCount returns the total quantity across all items.
func (c *Cart) ItemCount() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}
