package cart

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/lib/myuuid"
	"github.com/MarcGrol/storefront/services/cart/cartevents"
)

func TestCartPageEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, _, _, nower, _, _ := setup(t, ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

	// given: nothing was ever added

	// when
	response := doGet(ctx, router, "/cart")

	// then
	assert.Equal(t, http.StatusOK, response.Code)
	got := response.Body.String()
	assert.Contains(t, got, `id="cart-empty"`)
	assert.NotContains(t, got, `id="cart-badge"`)
	assert.NotContains(t, got, "cart-row")
}

func TestAddItemMergesSameVariant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, storer, _, nower, _, publisher := setup(t, ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, cartevents.CartItemAdded{
		CartUID:    "cart",
		ProductUID: "prod_classic_tote",
		Variant:    "Black / Medium",
		Quantity:   1,
	}).Return(nil)
	publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, cartevents.CartItemAdded{
		CartUID:    "cart",
		ProductUID: "prod_classic_tote",
		Variant:    "Black / Medium",
		Quantity:   2,
	}).Return(nil)

	// given
	form := url.Values{
		"productUid":     {"prod_classic_tote"},
		"name":           {"Classic Leather Tote"},
		"price":          {"$129.00"},
		"variantOptions": {"Black", "Medium"},
		"quantity":       {"1"},
		"image":          {"/static/images/classic-tote.jpg"},
	}

	// when: the same selection is added twice
	response := doPost(ctx, router, "/cart/item", form)
	assert.Equal(t, http.StatusSeeOther, response.Code)
	form.Set("quantity", "2")
	response = doPost(ctx, router, "/cart/item", form)

	// then: one line item with the quantities summed
	assert.Equal(t, http.StatusSeeOther, response.Code)
	cart, found, err := storer.Get(ctx, "cart")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "Black / Medium", cart.Items[0].Variant)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, int64(12900), cart.Items[0].PriceCents)
}

func TestAddItemDistinctVariants(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, storer, _, nower, _, publisher := setup(t, ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, gomock.Any()).Return(nil).Times(2)

	// given
	form := url.Values{
		"productUid":     {"prod_classic_tote"},
		"name":           {"Classic Leather Tote"},
		"price":          {"$129.00"},
		"variantOptions": {"Black", "Medium"},
	}

	// when: same product, different option selections
	doPost(ctx, router, "/cart/item", form)
	form["variantOptions"] = []string{"Tan", "Large"}
	doPost(ctx, router, "/cart/item", form)

	// then: two independent line items
	cart, _, err := storer.Get(ctx, "cart")
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, "Black / Medium", cart.Items[0].Variant)
	assert.Equal(t, "Tan / Large", cart.Items[1].Variant)
}

func TestAddItemWithoutProductUID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, storer, _, nower, uuider, publisher := setup(t, ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	uuider.EXPECT().Create().Return("123e4567-e89b-12d3-a456-426614174000")
	publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, gomock.Any()).Return(nil)

	// given: an ad-hoc item without a catalog uid
	form := url.Values{
		"name":  {"Gift wrapping"},
		"price": {"5.00"},
	}

	// when
	response := doPost(ctx, router, "/cart/item", form)

	// then: the item got a generated uid and the defaults
	assert.Equal(t, http.StatusSeeOther, response.Code)
	cart, _, err := storer.Get(ctx, "cart")
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", cart.Items[0].ProductUID)
	assert.Equal(t, "default", cart.Items[0].Variant)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, int64(500), cart.Items[0].PriceCents)
}

func TestAddItemMalformedPrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, storer, _, _, _, _ := setup(t, ctrl)

	// given
	form := url.Values{
		"productUid": {"prod_classic_tote"},
		"name":       {"Classic Leather Tote"},
		"price":      {"not-a-price"},
	}

	// when
	response := doPost(ctx, router, "/cart/item", form)

	// then: reported, not folded into the totals
	assert.Equal(t, http.StatusBadRequest, response.Code)
	_, found, err := storer.Get(ctx, "cart")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateQuantityOverwrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, storer, _, nower, _, publisher := setup(t, ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, cartevents.CartItemQuantityChanged{
		CartUID:    "cart",
		ProductUID: "prod_classic_tote",
		Variant:    "Black / Medium",
		Quantity:   3,
	}).Return(nil)

	// given
	err := storer.Put(ctx, "cart", cartWithSingleTote(2))
	assert.NoError(t, err)

	// when
	response := doPost(ctx, router, "/cart/item/quantity", url.Values{
		"productUid": {"prod_classic_tote"},
		"variant":    {"Black / Medium"},
		"quantity":   {"3"},
	})

	// then: the quantity is overwritten, not added
	assert.Equal(t, http.StatusSeeOther, response.Code)
	cart, _, err := storer.Get(ctx, "cart")
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestUpdateQuantityToZeroRemoves(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, storer, _, nower, _, publisher := setup(t, ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, cartevents.CartItemRemoved{
		CartUID:    "cart",
		ProductUID: "prod_classic_tote",
		Variant:    "Black / Medium",
	}).Return(nil)

	// given
	err := storer.Put(ctx, "cart", cartWithSingleTote(2))
	assert.NoError(t, err)

	// when
	response := doPost(ctx, router, "/cart/item/quantity", url.Values{
		"productUid": {"prod_classic_tote"},
		"variant":    {"Black / Medium"},
		"quantity":   {"0"},
	})

	// then
	assert.Equal(t, http.StatusSeeOther, response.Code)
	cart, _, err := storer.Get(ctx, "cart")
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUpdateQuantityUnknownItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, storer, _, nower, _, _ := setup(t, ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

	// given
	err := storer.Put(ctx, "cart", cartWithSingleTote(2))
	assert.NoError(t, err)

	// when: the key does not match any line item
	response := doPost(ctx, router, "/cart/item/quantity", url.Values{
		"productUid": {"prod_classic_tote"},
		"variant":    {"Tan / Large"},
		"quantity":   {"3"},
	})

	// then: silently a no-op, nothing published
	assert.Equal(t, http.StatusSeeOther, response.Code)
	cart, _, err := storer.Get(ctx, "cart")
	assert.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestUpdateQuantityMalformed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, storer, _, _, _, _ := setup(t, ctrl)

	// given
	err := storer.Put(ctx, "cart", cartWithSingleTote(2))
	assert.NoError(t, err)

	// when
	response := doPost(ctx, router, "/cart/item/quantity", url.Values{
		"productUid": {"prod_classic_tote"},
		"variant":    {"Black / Medium"},
		"quantity":   {"lots"},
	})

	// then
	assert.Equal(t, http.StatusBadRequest, response.Code)
}

func TestRemoveItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, storer, _, nower, _, publisher := setup(t, ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	publisher.EXPECT().Publish(gomock.Any(), cartevents.TopicName, cartevents.CartItemRemoved{
		CartUID:    "cart",
		ProductUID: "prod_classic_tote",
		Variant:    "Black / Medium",
	}).Return(nil)

	// given
	err := storer.Put(ctx, "cart", cartWithSingleTote(2))
	assert.NoError(t, err)

	// when
	response := doPost(ctx, router, "/cart/item/remove", url.Values{
		"productUid": {"prod_classic_tote"},
		"variant":    {"Black / Medium"},
	})

	// then
	assert.Equal(t, http.StatusSeeOther, response.Code)
	cart, _, err := storer.Get(ctx, "cart")
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestRemoveItemMissingKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, _, _, _, _, _ := setup(t, ctrl)

	// when: no productUid at all
	response := doPost(ctx, router, "/cart/item/remove", url.Values{
		"variant": {"Black / Medium"},
	})

	// then
	assert.Equal(t, http.StatusBadRequest, response.Code)
}

func TestCartPageTotals(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, storer, _, _, _, _ := setup(t, ctrl)

	// given: $10.00 twice plus $1,250.50 once
	err := storer.Put(ctx, "cart", Cart{
		UID: "cart",
		Items: []LineItem{
			{
				ProductUID: "prod_evening_clutch",
				Name:       "Evening Clutch",
				PriceCents: 1000,
				Currency:   "USD",
				Variant:    "default",
				Image:      "/static/images/evening-clutch.jpg",
				Quantity:   2,
			},
			{
				ProductUID: "prod_weekend_backpack",
				Name:       "Weekend Backpack",
				PriceCents: 125050,
				Currency:   "USD",
				Variant:    "default",
				Image:      "/static/images/weekend-backpack.jpg",
				Quantity:   1,
			},
		},
	})
	assert.NoError(t, err)

	// when
	response := doGet(ctx, router, "/cart")

	// then
	assert.Equal(t, http.StatusOK, response.Code)
	got := response.Body.String()
	assert.Contains(t, got, `id="cart-badge">3<`)
	assert.Contains(t, got, "$20.00")
	assert.Contains(t, got, `id="cart-subtotal">$1,270.50<`)
	assert.Contains(t, got, `id="cart-total">$1,270.50<`)
}

func TestCartPageImageFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, storer, resolver, _, _, _ := setup(t, ctrl)
	resolver.EXPECT().ImageForProduct(gomock.Any(), "prod_classic_tote").Return("/static/images/classic-tote.jpg", true)
	resolver.EXPECT().ImageForProduct(gomock.Any(), "unknown_product").Return("", false)

	// given: line items that carry no image of their own
	err := storer.Put(ctx, "cart", Cart{
		UID: "cart",
		Items: []LineItem{
			{ProductUID: "prod_classic_tote", Name: "Classic Leather Tote", PriceCents: 12900, Currency: "USD", Variant: "default", Quantity: 1},
			{ProductUID: "unknown_product", Name: "Mystery Item", PriceCents: 100, Currency: "USD", Variant: "default", Quantity: 1},
		},
	})
	assert.NoError(t, err)

	// when
	response := doGet(ctx, router, "/cart")

	// then: known products resolve via the catalog, unknown ones fall back
	assert.Equal(t, http.StatusOK, response.Code)
	got := response.Body.String()
	assert.Contains(t, got, "/static/images/classic-tote.jpg")
	assert.Contains(t, got, placeholderImagePath)
}

func TestBadgeAPI(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, storer, _, _, _, _ := setup(t, ctrl)

	// given
	err := storer.Put(ctx, "cart", cartWithSingleTote(3))
	assert.NoError(t, err)

	// when
	response := doGet(ctx, router, "/api/cart/badge")

	// then
	assert.Equal(t, http.StatusOK, response.Code)
	got := response.Body.String()
	assert.Contains(t, got, `"TotalQuantity": 3`)
	assert.Contains(t, got, `"Visible": true`)
}

func TestBadgeAPIEmptyCart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, _, _, _, _, _ := setup(t, ctrl)

	// when
	response := doGet(ctx, router, "/api/cart/badge")

	// then
	assert.Equal(t, http.StatusOK, response.Code)
	got := response.Body.String()
	assert.Contains(t, got, `"TotalQuantity": 0`)
	assert.Contains(t, got, `"Visible": false`)
}

func TestGetCartAPI(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	ctx, router, storer, _, _, _, _ := setup(t, ctrl)

	// given
	err := storer.Put(ctx, "cart", cartWithSingleTote(2))
	assert.NoError(t, err)

	// when
	response := doGet(ctx, router, "/api/cart")

	// then
	assert.Equal(t, http.StatusOK, response.Code)
	got := response.Body.String()
	assert.Contains(t, got, `"ProductUID": "prod_classic_tote"`)
	assert.Contains(t, got, `"Quantity": 2`)
}

func cartWithSingleTote(quantity int) Cart {
	return Cart{
		UID:       "cart",
		CreatedAt: mytime.ExampleTime,
		Items: []LineItem{
			{
				ProductUID: "prod_classic_tote",
				Name:       "Classic Leather Tote",
				PriceCents: 12900,
				Currency:   "USD",
				Variant:    "Black / Medium",
				Image:      "/static/images/classic-tote.jpg",
				Quantity:   quantity,
			},
		},
	}
}

func doGet(c context.Context, router *mux.Router, url string) *httptest.ResponseRecorder {
	request, _ := http.NewRequestWithContext(c, http.MethodGet, url, nil)
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func doPost(c context.Context, router *mux.Router, url string, form url.Values) *httptest.ResponseRecorder {
	request, _ := http.NewRequestWithContext(c, http.MethodPost, url, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[Cart], *MockImageResolver, *mytime.MockNower, *myuuid.MockUUIDer, *mypublisher.MockPublisher) {
	c := context.TODO()
	router := mux.NewRouter()
	storer, _, err := mystore.New[Cart](c)
	assert.NoError(t, err)
	resolver := NewMockImageResolver(ctrl)
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)
	publisher.EXPECT().CreateTopic(gomock.Any(), cartevents.TopicName).Return(nil)

	sut := NewService(storer, resolver, nower, uuider, publisher)
	err = sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, storer, resolver, nower, uuider, publisher
}
