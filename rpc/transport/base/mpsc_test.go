package base

import (
	"sync"
	"testing"
	"time"

	"github.com/maxatome/go-testdeep/td"
)

func recvWithin[T any](t *testing.T, q *MPSC[T], d time.Duration) (*T, bool) {
	t.Helper()
	select {
	case v, ok := <-q.Recv():
		return v, ok
	case <-time.After(d):
		t.Fatalf("timeout waiting for item")
		return nil, false
	}
}

func TestMPSCOrder(t *testing.T) {
	q := NewMPSC[int]()
	defer q.Close()

	for i := 0; i < 10; i++ {
		i := i
		td.CmpTrue(t, q.Push(&i))
	}
	for i := 0; i < 10; i++ {
		v, ok := recvWithin(t, q, time.Second)
		td.CmpTrue(t, ok)
		td.Cmp(t, *v, i)
	}

	select {
	case v := <-q.Recv():
		t.Errorf("queue should be empty, got %v", *v)
	case <-time.After(10 * time.Millisecond):
	}
}

func TestMPSCRejectsNil(t *testing.T) {
	q := NewMPSC[int]()
	defer q.Close()
	td.CmpFalse(t, q.Push(nil))
}

// TestMPSCConcurrentProducers checks that every item of every producer arrives
// exactly once and in per-producer order
func TestMPSCConcurrentProducers(t *testing.T) {
	const producers, perProducer = 8, 1000
	q := NewMPSC[[2]int]()
	defer q.Close()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				item := [2]int{p, i}
				if !q.Push(&item) {
					t.Errorf("push %v failed", item)
				}
			}
		}(p)
	}

	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	for n := 0; n < producers*perProducer; n++ {
		v, ok := recvWithin(t, q, 5*time.Second)
		if !ok {
			t.Fatalf("channel closed after %d items", n)
		}
		td.Cmp(t, v[1], last[v[0]]+1, "producer %d", v[0])
		last[v[0]] = v[1]
	}
	wg.Wait()
}

func TestMPSCClose(t *testing.T) {
	q := NewMPSC[int]()
	for i := 0; i < 5; i++ {
		i := i
		q.Push(&i)
	}
	q.Close()
	td.CmpTrue(t, q.IsClosed())

	val := 100
	td.CmpFalse(t, q.Push(&val), "push after close")

	for i := 0; i < 5; i++ {
		v, ok := recvWithin(t, q, time.Second)
		td.CmpTrue(t, ok)
		td.Cmp(t, *v, i)
	}
	_, ok := recvWithin(t, q, time.Second)
	td.CmpFalse(t, ok, "channel closed after drain")
}

func BenchmarkMPSCMultiProducer(b *testing.B) {
	q := NewMPSC[int]()
	defer q.Close()
	go func() {
		for range q.Recv() {
		}
	}()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			q.Push(&i)
			i++
		}
	})
}
