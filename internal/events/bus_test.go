package events

import (
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestBus() *Bus {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewBus(logger)
}

func TestBusDispatchesByKind(t *testing.T) {
	t.Parallel()

	bus := newTestBus()
	productID := uuid.New()

	var variantCalls, reviewCalls int
	bus.Subscribe(KindVariantChanged, func(tx *gorm.DB, ev Event) error {
		variantCalls++
		assert.Equal(t, productID, ev.Product())
		return nil
	})
	bus.Subscribe(KindReviewChanged, func(tx *gorm.DB, ev Event) error {
		reviewCalls++
		return nil
	})

	require.NoError(t, bus.Publish(nil, VariantChanged{ProductID: productID}))
	assert.Equal(t, 1, variantCalls)
	assert.Equal(t, 0, reviewCalls)

	require.NoError(t, bus.Publish(nil, ReviewChanged{ProductID: productID}))
	assert.Equal(t, 1, reviewCalls)
}

func TestBusRunsHandlersInOrderAndStopsOnError(t *testing.T) {
	t.Parallel()

	bus := newTestBus()
	boom := errors.New("recompute failed")

	var order []int
	bus.Subscribe(KindVariantChanged, func(tx *gorm.DB, ev Event) error {
		order = append(order, 1)
		return nil
	})
	bus.Subscribe(KindVariantChanged, func(tx *gorm.DB, ev Event) error {
		order = append(order, 2)
		return boom
	})
	bus.Subscribe(KindVariantChanged, func(tx *gorm.DB, ev Event) error {
		order = append(order, 3)
		return nil
	})

	err := bus.Publish(nil, VariantChanged{ProductID: uuid.New()})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 2}, order)
}

func TestBusNoSubscribersIsNoop(t *testing.T) {
	t.Parallel()

	bus := newTestBus()
	assert.NoError(t, bus.Publish(nil, ReviewChanged{ProductID: uuid.New()}))
}
