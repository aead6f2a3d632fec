package reminder

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type delivery struct {
	ownerID int64
	text    string
}

type chanNotifier struct {
	ch chan delivery
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{ch: make(chan delivery, 16)}
}

func (n *chanNotifier) Notify(ctx context.Context, ownerID int64, text string) error {
	n.ch <- delivery{ownerID: ownerID, text: text}
	return nil
}

func newSchedulerForTests() (*Scheduler, *chanNotifier) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	n := newChanNotifier()
	return New(n, logrus.NewEntry(log)), n
}

func waitDelivery(t *testing.T, n *chanNotifier) delivery {
	t.Helper()
	select {
	case d := <-n.ch:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("no notification delivered")
		return delivery{}
	}
}

func assertNoDelivery(t *testing.T, n *chanNotifier, within time.Duration) {
	t.Helper()
	select {
	case d := <-n.ch:
		t.Fatalf("unexpected notification: %+v", d)
	case <-time.After(within):
	}
}

func TestScheduler_FiresOnce(t *testing.T) {
	s, n := newSchedulerForTests()
	defer s.Stop()

	s.Schedule(1, 42, "write tests", time.Now().Add(30*time.Millisecond))
	assert.Equal(t, 1, s.PendingCount())

	d := waitDelivery(t, n)
	assert.Equal(t, int64(42), d.ownerID)
	assert.Contains(t, d.text, "write tests")

	assertNoDelivery(t, n, 100*time.Millisecond)
	assert.Equal(t, 0, s.PendingCount())
}

func TestScheduler_CancelBeforeFire(t *testing.T) {
	s, n := newSchedulerForTests()
	defer s.Stop()

	s.Schedule(1, 42, "cancelled task", time.Now().Add(80*time.Millisecond))
	s.Cancel(1)

	assertNoDelivery(t, n, 200*time.Millisecond)
	assert.Equal(t, 0, s.PendingCount())
}

func TestScheduler_CancelUnknownIsNoop(t *testing.T) {
	s, _ := newSchedulerForTests()
	defer s.Stop()

	s.Cancel(123)
	assert.Equal(t, 0, s.PendingCount())
}

func TestScheduler_PastFireTimeFiresImmediately(t *testing.T) {
	s, n := newSchedulerForTests()
	defer s.Stop()

	s.Schedule(1, 7, "already due", time.Now().Add(-time.Hour))
	d := waitDelivery(t, n)
	assert.Equal(t, int64(7), d.ownerID)
}

func TestScheduler_RescheduleReplacesPendingJob(t *testing.T) {
	s, n := newSchedulerForTests()
	defer s.Stop()

	s.Schedule(1, 42, "old text", time.Now().Add(time.Hour))
	s.Schedule(1, 42, "new text", time.Now().Add(30*time.Millisecond))
	assert.Equal(t, 1, s.PendingCount())

	d := waitDelivery(t, n)
	assert.Contains(t, d.text, "new text")
	assertNoDelivery(t, n, 100*time.Millisecond)
}

func TestScheduler_IndependentJobsAllFire(t *testing.T) {
	s, n := newSchedulerForTests()
	defer s.Stop()

	s.Schedule(1, 42, "one", time.Now().Add(20*time.Millisecond))
	s.Schedule(2, 42, "two", time.Now().Add(30*time.Millisecond))
	s.Schedule(3, 43, "three", time.Now().Add(40*time.Millisecond))

	owners := map[int64]int{}
	for i := 0; i < 3; i++ {
		d := waitDelivery(t, n)
		owners[d.ownerID]++
	}
	assert.Equal(t, 2, owners[42])
	assert.Equal(t, 1, owners[43])
	assert.Equal(t, 0, s.PendingCount())
}

func TestScheduler_StopCancelsEverything(t *testing.T) {
	s, n := newSchedulerForTests()

	s.Schedule(1, 42, "a", time.Now().Add(60*time.Millisecond))
	s.Schedule(2, 42, "b", time.Now().Add(60*time.Millisecond))
	s.Stop()

	assertNoDelivery(t, n, 150*time.Millisecond)
	assert.Equal(t, 0, s.PendingCount())
}

func TestScheduler_ConcurrentScheduleAndCancel(t *testing.T) {
	s, _ := newSchedulerForTests()
	defer s.Stop()

	var wg sync.WaitGroup
	for i := int64(1); i <= 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Schedule(id, id, "task", time.Now().Add(time.Hour))
			s.Cancel(id)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 0, s.PendingCount())
}
