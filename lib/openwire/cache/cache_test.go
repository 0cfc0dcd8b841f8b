package cache

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
	"github.com/maxatome/go-testdeep/td"
)

func TestMarshalCacheIntern(t *testing.T) {
	c := NewMarshalCache(4)

	idx, isNew := c.Intern("a")
	td.Cmp(t, idx, 0)
	td.CmpTrue(t, isNew)

	idx, isNew = c.Intern("b")
	td.Cmp(t, idx, 1)
	td.CmpTrue(t, isNew)

	idx, isNew = c.Intern("a")
	td.Cmp(t, idx, 0)
	td.CmpFalse(t, isNew)
	td.Cmp(t, c.Len(), 2)
}

// TestMarshalCacheEviction checks that the oldest slot is reused once the ring wraps
func TestMarshalCacheEviction(t *testing.T) {
	c := NewMarshalCache(3)
	for _, k := range []string{"a", "b", "c"} {
		_, evicted := c.Add(k)
		td.CmpFalse(t, evicted)
	}

	idx, evicted := c.Add("d")
	td.Cmp(t, idx, 0)
	td.CmpTrue(t, evicted)
	td.Cmp(t, c.Evictions(), uint64(1))

	_, ok := c.Lookup("a")
	td.CmpFalse(t, ok, "evicted key is gone")
	idx, ok = c.Lookup("b")
	td.CmpTrue(t, ok)
	td.Cmp(t, idx, 1)
	td.Cmp(t, c.Len(), 3)
}

func TestSizeClamp(t *testing.T) {
	td.Cmp(t, NewMarshalCache(0).Size(), 1)
	td.Cmp(t, NewMarshalCache(MaxSize+10).Size(), MaxSize)
	td.Cmp(t, NewUnmarshalCache(-3).Size(), 1)
}

// TestTablesStayInStep drives both sides with the same sequence and checks they agree on every slot
func TestTablesStayInStep(t *testing.T) {
	enc := NewMarshalCache(2)
	dec := NewUnmarshalCache(2)

	for _, name := range []string{"q1", "q2", "q1", "q3", "q2"} {
		idx, isNew := enc.Intern(name)
		if isNew {
			td.CmpNoError(t, dec.Put(idx, &commands.Queue{Destination: commands.Destination{PhysicalName: name}}))
		}
		got, err := dec.Get(idx)
		td.CmpNoError(t, err)
		td.Cmp(t, got.(*commands.Queue).PhysicalName, name)
	}
}

func TestUnmarshalCacheDesync(t *testing.T) {
	dec := NewUnmarshalCache(4)

	t.Run("EmptySlot", func(t *testing.T) {
		_, err := dec.Get(2)
		td.CmpTrue(t, errors.Is(err, codec.ErrCacheDesync))
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := dec.Get(9)
		td.CmpTrue(t, errors.Is(err, codec.ErrCacheDesync))
	})

	t.Run("UnexpectedSlot", func(t *testing.T) {
		err := dec.Put(1, &commands.Topic{})
		td.CmpTrue(t, errors.Is(err, codec.ErrCacheDesync))
		td.Cmp(t, dec.Next(), 0, "failed put does not advance")
	})

	t.Run("Clear", func(t *testing.T) {
		td.CmpNoError(t, dec.Put(0, &commands.Topic{}))
		dec.Clear()
		_, err := dec.Get(0)
		td.CmpTrue(t, errors.Is(err, codec.ErrCacheDesync))
		td.Cmp(t, dec.Next(), 0)
	})
}
