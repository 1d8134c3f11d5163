package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myhttp"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mypubsub"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/services/cart/cartevents"
)

type service struct {
	productStore mystore.Store[Product]
	subscriber   mypubsub.PubSub
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(store mystore.Store[Product], subscriber mypubsub.PubSub, logger mylog.Logger) *service {
	return &service{
		productStore: store,
		subscriber:   subscriber,
		logger:       logger,
	}
}

// seed writes the demo catalog. Existing products keep their counters.
func (s *service) seed(c context.Context) error {
	for _, product := range defaultCatalog() {
		_, found, err := s.productStore.Get(c, product.UID)
		if err != nil {
			return fmt.Errorf("error checking product %s: %s", product.UID, err)
		}
		if found {
			continue
		}

		err = s.productStore.Put(c, product.UID, product)
		if err != nil {
			return fmt.Errorf("error seeding product %s: %s", product.UID, err)
		}
	}

	return nil
}

func (s *service) listProducts(c context.Context) ([]Product, error) {
	s.logger.Log(c, "", mylog.SeverityInfo, "Fetch all products")

	products, err := s.productStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})

	return products, nil
}

func (s *service) getProduct(c context.Context, productUID string) (Product, error) {
	s.logger.Log(c, productUID, mylog.SeverityInfo, "Fetch details of product %s", productUID)

	product, found, err := s.productStore.Get(c, productUID)
	if err != nil {
		return Product{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Product{}, myerrors.NewNotFoundError(fmt.Errorf("product with uid %s not found", productUID))
	}

	return product, nil
}

// ImageForProduct serves the cart's image fallback: a line item without an
// image gets the catalog one.
func (s *service) ImageForProduct(c context.Context, productUID string) (string, bool) {
	product, found, err := s.productStore.Get(c, productUID)
	if err != nil || !found {
		return "", false
	}

	return product.Image, true
}

func (s *service) Subscribe(c context.Context) error {
	err := s.subscriber.Subscribe(c, cartevents.TopicName, myhttp.GuessHostnameWithScheme()+"/api/catalog/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", cartevents.TopicName, err)
	}

	return nil
}

func (s *service) OnCartItemAdded(c context.Context, topic string, event cartevents.CartItemAdded) error {
	s.logger.Log(c, event.ProductUID, mylog.SeverityInfo, "Product %s (%s) was added to a cart", event.ProductUID, event.Variant)

	return s.productStore.RunInTransaction(c, func(c context.Context) error {
		product, found, err := s.productStore.Get(c, event.ProductUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			// Ad-hoc items are not catalog products
			return nil
		}

		product.TimesAdded++

		err = s.productStore.Put(c, event.ProductUID, product)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
}

func (s *service) OnCartItemQuantityChanged(c context.Context, topic string, event cartevents.CartItemQuantityChanged) error {
	return nil
}

func (s *service) OnCartItemRemoved(c context.Context, topic string, event cartevents.CartItemRemoved) error {
	return nil
}
