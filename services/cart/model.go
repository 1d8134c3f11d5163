package cart

import (
	"strings"
	"time"

	"github.com/MarcGrol/storefront/lib/mymoney"
)

// Cart is the single shopper cart: an ordered list of line items. A line
// item is identified by the combination of product uid and variant; no two
// items share that pair. Merges update an item in place, so insertion order
// survives repeated additions.
type Cart struct {
	UID          string
	CreatedAt    time.Time
	LastModified *time.Time
	Items        []LineItem
}

type LineItem struct {
	ProductUID string
	Name       string
	PriceCents int64
	Currency   string
	Variant    string
	Image      string
	Quantity   int
}

func (i LineItem) Matches(productUID string, variant string) bool {
	return i.ProductUID == productUID && i.Variant == variant
}

func (i LineItem) LineTotalCents() int64 {
	return i.PriceCents * int64(i.Quantity)
}

func (i LineItem) GetPriceInCurrency() string {
	return mymoney.FormatCents(i.PriceCents)
}

func (i LineItem) GetLineTotalInCurrency() string {
	return mymoney.FormatCents(i.LineTotalCents())
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}

	return total
}

func (c Cart) SubtotalCents() int64 {
	var subtotal int64
	for _, item := range c.Items {
		subtotal += item.LineTotalCents()
	}

	return subtotal
}

func (c Cart) GetSubtotalInCurrency() string {
	return mymoney.FormatCents(c.SubtotalCents())
}

func (c Cart) GetProductSummary() string {
	lines := []string{}
	for _, item := range c.Items {
		lines = append(lines, item.Name+" ("+item.Variant+")")
	}

	return strings.Join(lines, ", ")
}

// upsertItem merges the item into an existing line with the same
// (productUID, variant) pair by adding quantities, or appends it.
func (c *Cart) upsertItem(item LineItem) {
	for idx, existing := range c.Items {
		if existing.Matches(item.ProductUID, item.Variant) {
			c.Items[idx].Quantity += item.Quantity
			return
		}
	}

	c.Items = append(c.Items, item)
}

// setItemQuantity overwrites (not increments) the quantity of the matching
// line item. Reports whether a matching item was found.
func (c *Cart) setItemQuantity(productUID string, variant string, quantity int) bool {
	for idx, existing := range c.Items {
		if existing.Matches(productUID, variant) {
			c.Items[idx].Quantity = quantity
			return true
		}
	}

	return false
}

// removeItem deletes the matching line item. Reports whether a matching
// item was found.
func (c *Cart) removeItem(productUID string, variant string) bool {
	for idx, existing := range c.Items {
		if existing.Matches(productUID, variant) {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			return true
		}
	}

	return false
}
