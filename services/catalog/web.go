package catalog

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/storefront/lib/mycontext"
	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myhttp"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mypubsub"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/services/cart/cartevents"
)

type webService struct {
	service *service
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(store mystore.Store[Product], subscriber mypubsub.PubSub) *webService {
	logger := mylog.New("catalog")

	return &webService{
		service: newService(store, subscriber, logger),
		logger:  logger,
	}
}

// ImageForProduct makes the catalog usable as the cart's image resolver.
func (s *webService) ImageForProduct(c context.Context, productUID string) (string, bool) {
	return s.service.ImageForProduct(c, productUID)
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {

	// Endpoints that compose the userinterface
	router.HandleFunc("/", s.productListPage()).Methods("GET")
	router.HandleFunc("/products", s.productListPage()).Methods("GET")
	router.HandleFunc("/product/{productUID}", s.productDetailPage()).Methods("GET")

	// Pubsub will deliver cart events here
	router.HandleFunc("/api/catalog/event", s.eventWebhookPage()).Methods("POST")

	err := s.service.seed(c)
	if err != nil {
		return fmt.Errorf("error seeding catalog: %s", err)
	}

	err = s.service.Subscribe(c)
	if err != nil {
		return fmt.Errorf("error subscribing to events: %s", err)
	}

	return nil
}

//go:embed templates
var templateFolder embed.FS
var (
	productListPageTemplate   *template.Template
	productDetailPageTemplate *template.Template
)

func init() {
	productListPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/product_list.html"))
	productDetailPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/product_detail.html"))
}

func (s *webService) productListPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		products, err := s.service.listProducts(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = productListPageTemplate.Execute(w, products)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) productDetailPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		productUID := mux.Vars(r)["productUID"]

		product, err := s.service.getProduct(c, productUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = productDetailPageTemplate.Execute(w, product)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) eventWebhookPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := cartevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.EmptyResponse{})
	}
}
