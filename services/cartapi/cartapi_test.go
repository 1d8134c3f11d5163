package cartapi

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeSame(t *testing.T) {
	//  encode followed by decode must end up same

	values, err := addItem.ToForm()
	assert.NoError(t, err)
	addItemAgain, err := NewFromValues(values)
	assert.NoError(t, err)

	assert.Equal(t, addItem, addItemAgain)
}

func TestDecode(t *testing.T) {
	form := url.Values{
		"productUid":     []string{"prod_leather_tote"},
		"name":           []string{"Classic Leather Tote"},
		"price":          []string{"$129.00"},
		"variantOptions": []string{"Black", "Large"},
		"quantity":       []string{"2"},
		"image":          []string{"/images/tote-black.jpg"},
	}

	addItemAgain, err := NewFromValues(form)
	assert.NoError(t, err)
	assert.Equal(t, addItem, addItemAgain)
}

func TestDecodeMissingRequiredFields(t *testing.T) {
	form := url.Values{
		"productUid": []string{"prod_leather_tote"},
	}

	_, err := NewFromValues(form)
	assert.Error(t, err)
}

func TestVariant(t *testing.T) {
	testCases := []struct {
		name    string
		options []string
		variant string
	}{
		{
			name:    "No options selected",
			options: nil,
			variant: "default",
		},
		{
			name:    "Single option",
			options: []string{"Black"},
			variant: "Black",
		},
		{
			name:    "Options joined in posted order",
			options: []string{"Black", "Large"},
			variant: "Black / Large",
		},
		{
			name:    "Blank options skipped",
			options: []string{"", "Black", "  "},
			variant: "Black",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.variant, AddItem{VariantOptions: tc.options}.Variant())
		})
	}
}

func TestQty(t *testing.T) {
	assert.Equal(t, 2, AddItem{Quantity: "2"}.Qty())
	assert.Equal(t, 1, AddItem{Quantity: ""}.Qty())
	assert.Equal(t, 1, AddItem{Quantity: "abc"}.Qty())
	assert.Equal(t, 1, AddItem{Quantity: "0"}.Qty())
	assert.Equal(t, 1, AddItem{Quantity: "-3"}.Qty())
}

var addItem = AddItem{
	ProductUID:     "prod_leather_tote",
	Name:           "Classic Leather Tote",
	Price:          "$129.00",
	VariantOptions: []string{"Black", "Large"},
	Quantity:       "2",
	Image:          "/images/tote-black.jpg",
}
