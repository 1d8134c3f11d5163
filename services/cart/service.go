package cart

import (
	"context"

	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/lib/myuuid"
)

// ImageResolver provides the display image of a catalog product, for line
// items that were added without one.
//
//go:generate mockgen -source=service.go -package cart -destination resolver_mock.go ImageResolver
type ImageResolver interface {
	ImageForProduct(c context.Context, productUID string) (string, bool)
}

type service struct {
	cartStore mystore.Store[Cart]
	resolver  ImageResolver
	publisher mypublisher.Publisher
	nower     mytime.Nower
	uuider    myuuid.UUIDer
	logger    mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(store mystore.Store[Cart], resolver ImageResolver, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger, pub mypublisher.Publisher) *service {
	return &service{
		cartStore: store,
		resolver:  resolver,
		publisher: pub,
		nower:     nower,
		uuider:    uuider,
		logger:    logger,
	}
}
