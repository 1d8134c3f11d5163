package cart

import (
	"context"

	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/services/cart/cartevents"
	"github.com/MarcGrol/storefront/services/cartapi"
)

// The whole cart lives under one fixed store key: there is a single
// anonymous shopper per deployment, matching the one-entry layout of the
// storefront this service replaces. Every mutation is a transactional
// read-modify-write of that one entry.
const cartUID = "cart"

type AddItemRequest struct {
	ProductUID string
	Name       string
	PriceCents int64
	Currency   string
	Variant    string
	Image      string
	Quantity   int
}

func (s *service) getCart(c context.Context) (Cart, error) {
	cart, found, err := s.cartStore.Get(c, cartUID)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}
	if !found {
		// Absence is normal: a cart that was never written to is empty
		return Cart{UID: cartUID}, nil
	}

	return cart, nil
}

func (s *service) addItem(c context.Context, req AddItemRequest) (Cart, error) {
	if req.ProductUID == "" {
		req.ProductUID = s.uuider.Create()
	}
	if req.Variant == "" {
		req.Variant = cartapi.DefaultVariant
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Add %d x %s (%s) to cart", req.Quantity, req.Name, req.Variant)

	now := s.nower.Now()

	var cart Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		cart, err = s.getCart(c)
		if err != nil {
			return err
		}

		if cart.CreatedAt.IsZero() {
			cart.CreatedAt = now
		}

		cart.upsertItem(LineItem{
			ProductUID: req.ProductUID,
			Name:       req.Name,
			PriceCents: req.PriceCents,
			Currency:   req.Currency,
			Variant:    req.Variant,
			Image:      req.Image,
			Quantity:   req.Quantity,
		})
		cart.LastModified = &now

		err = s.cartStore.Put(c, cartUID, cart)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, cartevents.TopicName, cartevents.CartItemAdded{
			CartUID:    cartUID,
			ProductUID: req.ProductUID,
			Variant:    req.Variant,
			Quantity:   req.Quantity,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	return cart, nil
}

func (s *service) updateItemQuantity(c context.Context, productUID string, variant string, quantity int) (Cart, error) {
	// Zero or negative quantities mean removal: a cart never holds an item
	// with quantity below 1
	if quantity <= 0 {
		return s.removeItem(c, productUID, variant)
	}

	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Set quantity of %s (%s) to %d", productUID, variant, quantity)

	now := s.nower.Now()

	var cart Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		cart, err = s.getCart(c)
		if err != nil {
			return err
		}

		if !cart.setItemQuantity(productUID, variant, quantity) {
			// No such item: not an error
			return nil
		}
		cart.LastModified = &now

		err = s.cartStore.Put(c, cartUID, cart)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, cartevents.TopicName, cartevents.CartItemQuantityChanged{
			CartUID:    cartUID,
			ProductUID: productUID,
			Variant:    variant,
			Quantity:   quantity,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	return cart, nil
}

func (s *service) removeItem(c context.Context, productUID string, variant string) (Cart, error) {
	s.logger.Log(c, cartUID, mylog.SeverityInfo, "Remove %s (%s) from cart", productUID, variant)

	now := s.nower.Now()

	var cart Cart
	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		cart, err = s.getCart(c)
		if err != nil {
			return err
		}

		if !cart.removeItem(productUID, variant) {
			// No such item: not an error
			return nil
		}
		cart.LastModified = &now

		err = s.cartStore.Put(c, cartUID, cart)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, cartevents.TopicName, cartevents.CartItemRemoved{
			CartUID:    cartUID,
			ProductUID: productUID,
			Variant:    variant,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Cart{}, err
	}

	return cart, nil
}
