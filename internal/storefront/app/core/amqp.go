package core

import (
	"context"

	"food-ordering/internal/storefront/domain/dto"
)

type IPublisher interface {
	Close() error
	PublishOrderPlaced(ctx context.Context, msg dto.OrderPlacedMessage) error
	PublishStatusUpdate(ctx context.Context, msg dto.StatusUpdateMessage) error
}
