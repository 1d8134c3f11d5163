package catalog

import (
	"github.com/MarcGrol/storefront/lib/mymoney"
)

// Product is a purchasable catalog entry. The option groups describe the
// variant choices a shopper combines on the product page (color, size, ...).
type Product struct {
	UID          string
	Name         string
	Description  string
	PriceCents   int64
	Currency     string
	Image        string
	OptionGroups []OptionGroup
	TimesAdded   int
}

type OptionGroup struct {
	Name   string
	Values []string
}

func (p Product) GetPriceInCurrency() string {
	return mymoney.FormatCents(p.PriceCents)
}

func defaultCatalog() []Product {
	return []Product{
		{
			UID:         "prod_classic_tote",
			Name:        "Classic Leather Tote",
			Description: "A roomy everyday tote in full-grain leather.",
			PriceCents:  12900,
			Currency:    "USD",
			Image:       "/static/images/classic-tote.jpg",
			OptionGroups: []OptionGroup{
				{Name: "Color", Values: []string{"Black", "Tan"}},
				{Name: "Size", Values: []string{"Medium", "Large"}},
			},
		},
		{
			UID:         "prod_minimalist_crossbody",
			Name:        "Minimalist Crossbody Bag",
			Description: "A slim crossbody that fits the essentials.",
			PriceCents:  8900,
			Currency:    "USD",
			Image:       "/static/images/minimalist-crossbody.jpg",
			OptionGroups: []OptionGroup{
				{Name: "Color", Values: []string{"Black", "Brown"}},
			},
		},
		{
			UID:         "prod_evening_clutch",
			Name:        "Evening Clutch",
			Description: "A structured clutch for nights out.",
			PriceCents:  5950,
			Currency:    "USD",
			Image:       "/static/images/evening-clutch.jpg",
			OptionGroups: []OptionGroup{
				{Name: "Color", Values: []string{"Gold", "Silver"}},
			},
		},
		{
			UID:         "prod_weekend_backpack",
			Name:        "Weekend Backpack",
			Description: "A water-resistant backpack for short trips.",
			PriceCents:  14995,
			Currency:    "USD",
			Image:       "/static/images/weekend-backpack.jpg",
			OptionGroups: []OptionGroup{
				{Name: "Color", Values: []string{"Navy", "Olive"}},
			},
		},
	}
}
