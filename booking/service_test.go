package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Martyn911/ticket-system/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore backs the coordinator with in-memory state that mimics the real
// store's contract: Save does a compare-and-increment on the version token,
// and nothing staged in a failed transaction survives.
type fakeStore struct {
	mu sync.Mutex

	events    map[uuid.UUID]entities.Event
	bookings  []entities.Booking
	published []entities.BookingConfirmed_v1

	// afterFind runs once the aggregate was read, before the caller proceeds.
	// Tests use it to commit a competing change in between load and save.
	afterFind func()

	publishErr error
}

type fakeTxKey struct{}

type fakeTx struct {
	bookings  []entities.Booking
	published []entities.BookingConfirmed_v1
	undo      []func()
}

func newFakeStore(events ...entities.Event) *fakeStore {
	s := &fakeStore{events: map[uuid.UUID]entities.Event{}}
	for _, e := range events {
		s.events[e.EventID] = e
	}
	return s
}

func txFrom(ctx context.Context) *fakeTx {
	tx, _ := ctx.Value(fakeTxKey{}).(*fakeTx)
	return tx
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &fakeTx{}
	err := fn(context.WithValue(ctx, fakeTxKey{}, tx))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		return err
	}

	s.bookings = append(s.bookings, tx.bookings...)
	s.published = append(s.published, tx.published...)
	return nil
}

func (s *fakeStore) FindByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error) {
	if err := ctx.Err(); err != nil {
		return entities.Event{}, err
	}

	s.mu.Lock()
	event, ok := s.events[eventID]
	s.mu.Unlock()

	if !ok {
		return entities.Event{}, entities.ErrEventNotFound
	}
	if s.afterFind != nil {
		s.afterFind()
	}
	return event, nil
}

func (s *fakeStore) Save(ctx context.Context, event entities.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.events[event.EventID]
	if !ok {
		return entities.ErrEventNotFound
	}
	if current.Version != event.Version {
		return entities.ErrConcurrencyConflict
	}

	prev := current
	event.Version++
	s.events[event.EventID] = event

	tx := txFrom(ctx)
	tx.undo = append(tx.undo, func() {
		s.events[event.EventID] = prev
	})
	return nil
}

func (s *fakeStore) Add(ctx context.Context, booking entities.Booking) error {
	tx := txFrom(ctx)
	tx.bookings = append(tx.bookings, booking)
	return nil
}

func (s *fakeStore) PublishBookingConfirmed(ctx context.Context, event entities.BookingConfirmed_v1) error {
	if s.publishErr != nil {
		return s.publishErr
	}
	tx := txFrom(ctx)
	tx.published = append(tx.published, event)
	return nil
}

func (s *fakeStore) committedEvent(t *testing.T, eventID uuid.UUID) entities.Event {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[eventID]
	require.True(t, ok)
	return event
}

func mustNewEvent(t *testing.T, totalTickets int) entities.Event {
	t.Helper()
	event, err := entities.NewEvent("Test Concert", totalTickets)
	require.NoError(t, err)
	return event
}

func TestBookTicket(t *testing.T) {
	event := mustNewEvent(t, 2)
	store := newFakeStore(event)
	svc := NewService(store, store, store)

	clientID := uuid.New()
	confirmation, err := svc.BookTicket(context.Background(), BookTicketCommand{
		EventID:     event.EventID,
		ClientID:    clientID,
		ClientEmail: "client@example.com",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, confirmation.BookingID)
	assert.Equal(t, 1, confirmation.TicketNumber)

	saved := store.committedEvent(t, event.EventID)
	assert.Equal(t, 1, saved.SoldTickets)
	assert.Equal(t, event.Version+1, saved.Version)

	require.Len(t, store.bookings, 1)
	booking := store.bookings[0]
	assert.Equal(t, confirmation.BookingID, booking.BookingID)
	assert.Equal(t, clientID, booking.ClientID)
	assert.Equal(t, event.EventID, booking.EventID)
	assert.Equal(t, 1, booking.TicketNumber)

	require.Len(t, store.published, 1)
	published := store.published[0]
	assert.Equal(t, confirmation.BookingID, published.BookingID)
	assert.Equal(t, "client@example.com", published.ClientEmail)
	assert.Equal(t, 1, published.TicketNumber)
	assert.NotEmpty(t, published.Header.ID)
}

func TestBookTicket_EventNotFound(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, store, store)

	_, err := svc.BookTicket(context.Background(), BookTicketCommand{
		EventID:     uuid.New(),
		ClientID:    uuid.New(),
		ClientEmail: "client@example.com",
	})
	assert.ErrorIs(t, err, entities.ErrEventNotFound)
	assert.Empty(t, store.bookings)
	assert.Empty(t, store.published)
}

func TestBookTicket_SoldOut(t *testing.T) {
	event := mustNewEvent(t, 1)
	event.SoldTickets = 1
	store := newFakeStore(event)
	svc := NewService(store, store, store)

	_, err := svc.BookTicket(context.Background(), BookTicketCommand{
		EventID:     event.EventID,
		ClientID:    uuid.New(),
		ClientEmail: "client@example.com",
	})
	assert.ErrorIs(t, err, entities.ErrTicketsSoldOut)
	assert.Empty(t, store.bookings)
	assert.Empty(t, store.published)
	assert.Equal(t, event, store.committedEvent(t, event.EventID))
}

func TestBookTicket_ConcurrencyConflict(t *testing.T) {
	event := mustNewEvent(t, 10)
	store := newFakeStore(event)
	svc := NewService(store, store, store)

	// a competing booking commits in between our load and our save
	store.afterFind = func() {
		store.mu.Lock()
		defer store.mu.Unlock()
		competing := store.events[event.EventID]
		competing.SoldTickets++
		competing.Version++
		store.events[event.EventID] = competing
		store.afterFind = nil
	}

	_, err := svc.BookTicket(context.Background(), BookTicketCommand{
		EventID:     event.EventID,
		ClientID:    uuid.New(),
		ClientEmail: "client@example.com",
	})
	assert.ErrorIs(t, err, entities.ErrConcurrencyConflict)
	assert.Empty(t, store.bookings)
	assert.Empty(t, store.published)

	// the competing write is intact, ours left no trace
	saved := store.committedEvent(t, event.EventID)
	assert.Equal(t, 1, saved.SoldTickets)
	assert.Equal(t, event.Version+1, saved.Version)
}

func TestBookTicket_PublishFailureRollsBack(t *testing.T) {
	event := mustNewEvent(t, 1)
	store := newFakeStore(event)
	store.publishErr = errors.New("outbox write failed")
	svc := NewService(store, store, store)

	_, err := svc.BookTicket(context.Background(), BookTicketCommand{
		EventID:     event.EventID,
		ClientID:    uuid.New(),
		ClientEmail: "client@example.com",
	})
	require.Error(t, err)

	assert.Empty(t, store.bookings)
	assert.Empty(t, store.published)
	assert.Equal(t, event, store.committedEvent(t, event.EventID))
}

func TestBookTicket_CancelledMidTransaction(t *testing.T) {
	event := mustNewEvent(t, 3)
	store := newFakeStore(event)
	svc := NewService(store, store, store)

	// the caller goes away right after the aggregate was loaded; the save
	// surfaces the cancellation and the whole transaction rolls back
	ctx, cancel := context.WithCancel(context.Background())
	store.afterFind = func() { cancel() }

	_, err := svc.BookTicket(ctx, BookTicketCommand{
		EventID:     event.EventID,
		ClientID:    uuid.New(),
		ClientEmail: "client@example.com",
	})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Empty(t, store.bookings)
	assert.Empty(t, store.published)
	assert.Equal(t, event, store.committedEvent(t, event.EventID))
}

func TestBookTicket_CancelledBeforeLoad(t *testing.T) {
	event := mustNewEvent(t, 3)
	store := newFakeStore(event)
	svc := NewService(store, store, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.BookTicket(ctx, BookTicketCommand{
		EventID:     event.EventID,
		ClientID:    uuid.New(),
		ClientEmail: "client@example.com",
	})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Empty(t, store.bookings)
	assert.Empty(t, store.published)
	assert.Equal(t, event, store.committedEvent(t, event.EventID))
}

func TestBookTicket_SequentialNumbersInCommitOrder(t *testing.T) {
	event := mustNewEvent(t, 5)
	store := newFakeStore(event)
	svc := NewService(store, store, store)

	for want := 1; want <= 5; want++ {
		confirmation, err := svc.BookTicket(context.Background(), BookTicketCommand{
			EventID:     event.EventID,
			ClientID:    uuid.New(),
			ClientEmail: "client@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, want, confirmation.TicketNumber)
	}

	_, err := svc.BookTicket(context.Background(), BookTicketCommand{
		EventID:     event.EventID,
		ClientID:    uuid.New(),
		ClientEmail: "client@example.com",
	})
	assert.ErrorIs(t, err, entities.ErrTicketsSoldOut)

	assert.Len(t, store.bookings, 5)
	assert.Len(t, store.published, 5)
}

func TestBookTicket_ConcurrentNeverOversells(t *testing.T) {
	const callers = 25
	const totalTickets = 3

	event := mustNewEvent(t, totalTickets)
	store := newFakeStore(event)
	svc := NewService(store, store, store)

	var wg sync.WaitGroup
	errs := make([]error, callers)
	confirmations := make([]entities.BookingConfirmation, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			confirmations[i], errs[i] = svc.BookTicket(context.Background(), BookTicketCommand{
				EventID:     event.EventID,
				ClientID:    uuid.New(),
				ClientEmail: "client@example.com",
			})
		}(i)
	}
	wg.Wait()

	var succeeded int
	ticketNumbers := map[int]bool{}
	for i := 0; i < callers; i++ {
		if errs[i] == nil {
			succeeded++
			ticketNumbers[confirmations[i].TicketNumber] = true
			continue
		}
		assert.True(t,
			errors.Is(errs[i], entities.ErrTicketsSoldOut) || errors.Is(errs[i], entities.ErrConcurrencyConflict),
			"unexpected error: %v", errs[i],
		)
	}

	// without caller retries conflicts may eat some capacity, but sold tickets
	// always equals the number of successful bookings and never exceeds T
	require.GreaterOrEqual(t, succeeded, 1)
	require.LessOrEqual(t, succeeded, totalTickets)
	assert.Len(t, store.bookings, succeeded)
	assert.Len(t, store.published, succeeded)

	// winning ticket numbers form the consecutive set 1..succeeded
	for n := 1; n <= succeeded; n++ {
		assert.True(t, ticketNumbers[n], "missing ticket number %d", n)
	}

	saved := store.committedEvent(t, event.EventID)
	assert.Equal(t, succeeded, saved.SoldTickets)
}

func TestBookTicket_TwoCallersOneTicket(t *testing.T) {
	event := mustNewEvent(t, 1)
	store := newFakeStore(event)
	svc := NewService(store, store, store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	confirmations := make([]entities.BookingConfirmation, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			confirmations[i], errs[i] = svc.BookTicket(context.Background(), BookTicketCommand{
				EventID:     event.EventID,
				ClientID:    uuid.New(),
				ClientEmail: "client@example.com",
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := 0; i < 2; i++ {
		if errs[i] == nil {
			winners++
			assert.Equal(t, 1, confirmations[i].TicketNumber)
			continue
		}
		assert.True(t,
			errors.Is(errs[i], entities.ErrTicketsSoldOut) || errors.Is(errs[i], entities.ErrConcurrencyConflict),
			"unexpected error: %v", errs[i],
		)
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, store.committedEvent(t, event.EventID).SoldTickets)
}

func TestBookTicket_RetryingCallersSellOut(t *testing.T) {
	const callers = 10
	const totalTickets = 3

	event := mustNewEvent(t, totalTickets)
	store := newFakeStore(event)
	svc := NewService(store, store, store)

	// conflicts leave no partial state behind, so the caller may retry the
	// whole operation until a deterministic outcome arrives
	book := func() error {
		for {
			_, err := svc.BookTicket(context.Background(), BookTicketCommand{
				EventID:     event.EventID,
				ClientID:    uuid.New(),
				ClientEmail: "client@example.com",
			})
			if errors.Is(err, entities.ErrConcurrencyConflict) {
				continue
			}
			return err
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = book()
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, entities.ErrTicketsSoldOut)
		}
	}

	assert.Equal(t, totalTickets, succeeded)
	assert.Equal(t, totalTickets, store.committedEvent(t, event.EventID).SoldTickets)
	assert.Len(t, store.bookings, totalTickets)
	assert.Len(t, store.published, totalTickets)
}
