package cartapi

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	formcodec "github.com/go-playground/form/v4"
	validatorcodec "github.com/go-playground/validator/v10"

	"github.com/MarcGrol/storefront/lib/myerrors"
)

const (
	// DefaultVariant is used when the product page posts no selected options
	DefaultVariant = "default"
)

// AddItem is the contract between a product page's add-to-cart form and the
// cart service: the selection the shopper made, with the price still in its
// displayed form.
type AddItem struct {
	ProductUID     string   `form:"productUid"`
	Name           string   `form:"name" validate:"required"`
	Price          string   `form:"price" validate:"required"`
	VariantOptions []string `form:"variantOptions"`
	Quantity       string   `form:"quantity"`
	Image          string   `form:"image"`
}

var validate = validatorcodec.New()

func NewFromRequest(r *http.Request) (AddItem, error) {
	err := r.ParseForm()
	if err != nil {
		return AddItem{}, myerrors.NewInvalidInputError(err)
	}
	return NewFromValues(r.Form)
}

func NewFromValues(values url.Values) (AddItem, error) {
	addItem := AddItem{}
	err := formcodec.NewDecoder().Decode(&addItem, values)
	if err != nil {
		return addItem, myerrors.NewInvalidInputErrorf("error decoding form: %s", err)
	}

	err = validate.Struct(addItem)
	if err != nil {
		return addItem, myerrors.NewInvalidInputError(err)
	}

	return addItem, nil
}

func (a AddItem) ToForm() (url.Values, error) {
	return formcodec.NewEncoder().Encode(&a)
}

// Variant joins the selected options in posted order into the composite
// variant string that identifies the line item alongside the product uid.
func (a AddItem) Variant() string {
	selected := []string{}
	for _, option := range a.VariantOptions {
		option = strings.TrimSpace(option)
		if option != "" {
			selected = append(selected, option)
		}
	}

	if len(selected) == 0 {
		return DefaultVariant
	}

	return strings.Join(selected, " / ")
}

// Qty falls back to a single piece when the quantity field is absent or not
// a usable number.
func (a AddItem) Qty() int {
	quantity, err := strconv.Atoi(strings.TrimSpace(a.Quantity))
	if err != nil || quantity < 1 {
		return 1
	}

	return quantity
}
