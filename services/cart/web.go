package cart

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/storefront/lib/mycontext"
	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myhttp"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mymoney"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/lib/myuuid"
	"github.com/MarcGrol/storefront/services/cart/cartevents"
	"github.com/MarcGrol/storefront/services/cartapi"
)

// placeholderImagePath is shown when neither the line item nor the catalog
// knows a display image
const placeholderImagePath = "/static/images/placeholder.jpg"

type webService struct {
	service *service
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(store mystore.Store[Cart], resolver ImageResolver, nower mytime.Nower, uuider myuuid.UUIDer, pub mypublisher.Publisher) *webService {
	logger := mylog.New("cart")

	return &webService{
		service: newService(store, resolver, nower, uuider, logger, pub),
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {

	// Endpoints that compose the userinterface
	router.HandleFunc("/cart", s.cartPage()).Methods("GET")
	router.HandleFunc("/cart/item", s.addItemPage()).Methods("POST")
	router.HandleFunc("/cart/item/quantity", s.updateQuantityPage()).Methods("POST")
	router.HandleFunc("/cart/item/remove", s.removeItemPage()).Methods("POST")

	// Machine-readable cart state: the badge is used on every page
	router.HandleFunc("/api/cart", s.getCartAPI()).Methods("GET")
	router.HandleFunc("/api/cart/badge", s.getBadgeAPI()).Methods("GET")

	err := s.service.publisher.CreateTopic(c, cartevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", cartevents.TopicName, err)
	}

	return nil
}

//go:embed templates
var templateFolder embed.FS
var (
	cartPageTemplate *template.Template
)

func init() {
	cartPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/cart_page.html"))
}

// CartPageInfo is the full page state: it is recomputed from the stored
// cart on every request, never patched incrementally.
type CartPageInfo struct {
	Badge    Badge
	IsEmpty  bool
	Rows     []CartRow
	Subtotal string
	Total    string
}

type CartRow struct {
	ProductUID        string
	Variant           string
	Name              string
	Image             string
	Price             string
	Quantity          int
	DecreasedQuantity int
	IncreasedQuantity int
	LineTotal         string
}

type Badge struct {
	TotalQuantity int
	Visible       bool
}

func newBadge(cart Cart) Badge {
	total := cart.TotalQuantity()

	return Badge{
		TotalQuantity: total,
		Visible:       total > 0,
	}
}

func (s *webService) composeCartPage(c context.Context, cart Cart) CartPageInfo {
	rows := []CartRow{}
	for _, item := range cart.Items {
		decreased := item.Quantity - 1
		if decreased < 1 {
			// The minus control never goes below one; removal is explicit
			decreased = 1
		}

		rows = append(rows, CartRow{
			ProductUID:        item.ProductUID,
			Variant:           item.Variant,
			Name:              item.Name,
			Image:             s.resolveImage(c, item),
			Price:             item.GetPriceInCurrency(),
			Quantity:          item.Quantity,
			DecreasedQuantity: decreased,
			IncreasedQuantity: item.Quantity + 1,
			LineTotal:         item.GetLineTotalInCurrency(),
		})
	}

	subtotal := cart.GetSubtotalInCurrency()

	return CartPageInfo{
		Badge:    newBadge(cart),
		IsEmpty:  cart.IsEmpty(),
		Rows:     rows,
		Subtotal: subtotal,
		// Shipping is free in this storefront
		Total: subtotal,
	}
}

func (s *webService) resolveImage(c context.Context, item LineItem) string {
	if item.Image != "" {
		return item.Image
	}

	image, found := s.service.resolver.ImageForProduct(c, item.ProductUID)
	if found {
		return image
	}

	return placeholderImagePath
}

func (s *webService) cartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.getCart(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = cartPageTemplate.Execute(w, s.composeCartPage(c, cart))
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) addItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		addItem, err := cartapi.NewFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		// A malformed price is reported, not folded into the totals
		priceCents, err := mymoney.ParseAmount(addItem.Price)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(err))
			return
		}

		_, err = s.service.addItem(c, AddItemRequest{
			ProductUID: addItem.ProductUID,
			Name:       addItem.Name,
			PriceCents: priceCents,
			Currency:   "USD",
			Variant:    addItem.Variant(),
			Image:      addItem.Image,
			Quantity:   addItem.Qty(),
		})
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		// Back to the cart page
		http.Redirect(w, r, fmt.Sprintf("%s/cart", myhttp.HostnameWithScheme(r)), http.StatusSeeOther)
	}
}

func (s *webService) updateQuantityPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		productUID, variant, err := itemKeyFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}
		quantity, err := strconv.Atoi(r.FormValue("quantity"))
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputErrorf("malformed quantity: %s", err))
			return
		}

		// Zero and below delegate to removal inside the service
		_, err = s.service.updateItemQuantity(c, productUID, variant, quantity)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("%s/cart", myhttp.HostnameWithScheme(r)), http.StatusSeeOther)
	}
}

func (s *webService) removeItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		productUID, variant, err := itemKeyFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		_, err = s.service.removeItem(c, productUID, variant)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("%s/cart", myhttp.HostnameWithScheme(r)), http.StatusSeeOther)
	}
}

func (s *webService) getCartAPI() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.getCart(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, cart)
	}
}

func (s *webService) getBadgeAPI() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		cart, err := s.service.getCart(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, newBadge(cart))
	}
}

func itemKeyFromRequest(r *http.Request) (string, string, error) {
	err := r.ParseForm()
	if err != nil {
		return "", "", myerrors.NewInvalidInputError(err)
	}

	productUID := r.FormValue("productUid")
	if productUID == "" {
		return "", "", myerrors.NewInvalidInputErrorf("missing productUid")
	}

	variant := r.FormValue("variant")
	if variant == "" {
		variant = cartapi.DefaultVariant
	}

	return productUID, variant, nil
}
