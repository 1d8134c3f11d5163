package cartevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myevents"
)

const (
	TopicName               = "cart"
	itemAddedName           = TopicName + ".item.added"
	itemQuantityChangedName = TopicName + ".item.quantity.changed"
	itemRemovedName         = TopicName + ".item.removed"
)

type CartEventService interface {
	Subscribe(c context.Context) error
	OnCartItemAdded(c context.Context, topic string, event CartItemAdded) error
	OnCartItemQuantityChanged(c context.Context, topic string, event CartItemQuantityChanged) error
	OnCartItemRemoved(c context.Context, topic string, event CartItemRemoved) error
}

func DispatchEvent(c context.Context, reader io.Reader, service CartEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case itemAddedName:
		{
			event := CartItemAdded{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCartItemAdded(c, envelope.Topic, event)
		}
	case itemQuantityChangedName:
		{
			event := CartItemQuantityChanged{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCartItemQuantityChanged(c, envelope.Topic, event)
		}
	case itemRemovedName:
		{
			event := CartItemRemoved{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCartItemRemoved(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("unknown event %s", envelope.EventTypeName))
	}
}

type CartItemAdded struct {
	CartUID    string
	ProductUID string
	Variant    string
	Quantity   int
}

func (e CartItemAdded) GetEventTypeName() string {
	return itemAddedName
}

func (e CartItemAdded) GetAggregateName() string {
	return e.CartUID
}

type CartItemQuantityChanged struct {
	CartUID    string
	ProductUID string
	Variant    string
	Quantity   int
}

func (e CartItemQuantityChanged) GetEventTypeName() string {
	return itemQuantityChangedName
}

func (e CartItemQuantityChanged) GetAggregateName() string {
	return e.CartUID
}

type CartItemRemoved struct {
	CartUID    string
	ProductUID string
	Variant    string
}

func (e CartItemRemoved) GetEventTypeName() string {
	return itemRemovedName
}

func (e CartItemRemoved) GetAggregateName() string {
	return e.CartUID
}
