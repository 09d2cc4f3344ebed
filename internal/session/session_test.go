package session

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/safar/storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCreateAndWith(t *testing.T) {
	store := NewStore()
	id := store.Create()

	err := store.With(id, func(s *Session) error {
		assert.Equal(t, id, s.ID)
		assert.NotNil(t, s.Cart)
		assert.Nil(t, s.Checkout)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestWithUnknownSession(t *testing.T) {
	store := NewStore()

	called := false
	err := store.With(uuid.New(), func(*Session) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)
}

func TestConcurrentCartUpdates(t *testing.T) {
	store := NewStore()
	id := store.Create()
	p := models.Product{ID: uuid.New(), Name: "BPC-157", BasePrice: decimal.NewFromInt(100), StockQuantity: 1000}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.With(id, func(s *Session) error {
				_, err := s.Cart.Add(p, nil, 1)
				return err
			})
		}()
	}
	wg.Wait()

	err := store.With(id, func(s *Session) error {
		assert.Equal(t, 50, s.Cart.TotalItems())
		return nil
	})
	require.NoError(t, err)
}
