package models

import (
	"errors"
	"fmt"
	"slices"
)

const (
	MinAddQuantity  = 1
	MaxAddQuantity  = 99
	MaxLineQuantity = 999
)

var ErrInvalidQuantity = fmt.Errorf("quantity must be in range [%d, %d]", MinAddQuantity, MaxAddQuantity)

var ErrLineQuantityExceeded = errors.New("cart line quantity limit exceeded")

// Cart is the pre-order selection of one session in one store.
// Lines keep insertion order.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

type CartLine struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Add returns a copy of c with quantity merged into the line for itemID,
// or appended as a new line. c is left untouched.
func (c Cart) Add(itemID int64, quantity int) (Cart, error) {
	if quantity < MinAddQuantity || quantity > MaxAddQuantity {
		return c, ErrInvalidQuantity
	}

	lines := slices.Clone(c.Lines)
	for i := range lines {
		if lines[i].ItemID != itemID {
			continue
		}
		if lines[i].Quantity+quantity > MaxLineQuantity {
			return c, ErrLineQuantityExceeded
		}
		lines[i].Quantity += quantity
		return Cart{Lines: lines}, nil
	}

	return Cart{Lines: append(lines, CartLine{ItemID: itemID, Quantity: quantity})}, nil
}

// Remove returns a copy of c without the line for itemID. Missing lines are ignored.
func (c Cart) Remove(itemID int64) Cart {
	lines := make([]CartLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		if l.ItemID != itemID {
			lines = append(lines, l)
		}
	}
	return Cart{Lines: lines}
}

func (c Cart) Quantity(itemID int64) int {
	for _, l := range c.Lines {
		if l.ItemID == itemID {
			return l.Quantity
		}
	}
	return 0
}

func (c Cart) ItemIDs() []int64 {
	ids := make([]int64, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.ItemID)
	}
	return ids
}
