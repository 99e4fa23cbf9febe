package domain

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{"solape parcial", Interval{day(1), day(3)}, Interval{day(2), day(4)}, true},
		{"contenido", Interval{day(1), day(10)}, Interval{day(3), day(5)}, true},
		{"idéntico", Interval{day(1), day(3)}, Interval{day(1), day(3)}, true},
		{"consecutivos no solapan", Interval{day(1), day(3)}, Interval{day(3), day(5)}, false},
		{"disjuntos", Interval{day(1), day(2)}, Interval{day(5), day(6)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// El solape es simétrico.
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestReserve_Conflict(t *testing.T) {
	idx := NewAvailabilityIndex()
	cartID := uuid.New()

	err := idx.Reserve(cartID, uuid.New(), day(1), day(3))
	assert.NoError(t, err)

	err = idx.Reserve(cartID, uuid.New(), day(2), day(4))
	assert.ErrorIs(t, err, ErrRentalConflict)
}

func TestReserve_BackToBack(t *testing.T) {
	idx := NewAvailabilityIndex()
	cartID := uuid.New()

	assert.NoError(t, idx.Reserve(cartID, uuid.New(), day(1), day(3)))
	// [d1, d3) y [d3, d5) no solapan.
	assert.NoError(t, idx.Reserve(cartID, uuid.New(), day(3), day(5)))
}

func TestReserve_DifferentCartsIndependent(t *testing.T) {
	idx := NewAvailabilityIndex()

	assert.NoError(t, idx.Reserve(uuid.New(), uuid.New(), day(1), day(3)))
	assert.NoError(t, idx.Reserve(uuid.New(), uuid.New(), day(1), day(3)))
}

func TestRelease_FreesSlot(t *testing.T) {
	idx := NewAvailabilityIndex()
	cartID := uuid.New()
	rentalID := uuid.New()

	assert.NoError(t, idx.Reserve(cartID, rentalID, day(1), day(3)))
	assert.False(t, idx.IsAvailable(cartID, day(1), day(3)))

	idx.Release(cartID, rentalID)
	assert.True(t, idx.IsAvailable(cartID, day(1), day(3)))
}

func TestRelease_UnknownIsNoop(t *testing.T) {
	idx := NewAvailabilityIndex()
	idx.Release(uuid.New(), uuid.New())
}

func TestReserve_ConcurrentSameRange(t *testing.T) {
	idx := NewAvailabilityIndex()
	cartID := uuid.New()

	const goroutines = 50
	var wg sync.WaitGroup
	successes := make(chan uuid.UUID, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rentalID := uuid.New()
			if err := idx.Reserve(cartID, rentalID, day(1), day(3)); err == nil {
				successes <- rentalID
			}
		}()
	}

	wg.Wait()
	close(successes)

	var winners []uuid.UUID
	for id := range successes {
		winners = append(winners, id)
	}
	// Exactamente una petición gana el rango.
	assert.Len(t, winners, 1)
}

func TestRebuild(t *testing.T) {
	idx := NewAvailabilityIndex()
	cartID := uuid.New()

	// Estado previo que debe descartarse.
	assert.NoError(t, idx.Reserve(cartID, uuid.New(), day(20), day(25)))

	open := []*Rental{
		{ID: uuid.New(), CartID: cartID, StartDate: day(1), EndDate: day(3), Status: RentalPending},
		{ID: uuid.New(), CartID: cartID, StartDate: day(5), EndDate: day(7), Status: RentalActive},
		{ID: uuid.New(), CartID: cartID, StartDate: day(10), EndDate: day(12), Status: RentalCancelled},
	}
	idx.Rebuild(open)

	assert.False(t, idx.IsAvailable(cartID, day(1), day(3)))
	assert.False(t, idx.IsAvailable(cartID, day(5), day(7)))
	// Las canceladas no ocupan intervalo.
	assert.True(t, idx.IsAvailable(cartID, day(10), day(12)))
	// El estado previo al rebuild desaparece.
	assert.True(t, idx.IsAvailable(cartID, day(20), day(25)))
}

func TestIsAvailable_EmptyIndex(t *testing.T) {
	idx := NewAvailabilityIndex()
	assert.True(t, idx.IsAvailable(uuid.New(), day(1), day(2)))
}
