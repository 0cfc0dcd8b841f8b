package base

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
	"github.com/ValentinKolb/dWire/lib/openwire/marshal"
	"github.com/maxatome/go-testdeep/td"
)

// connPair performs the handshake on both ends of an in-memory pipe
func connPair(t *testing.T, a, b marshal.Preferences) (*Conn, *Conn) {
	t.Helper()
	left, right := net.Pipe()

	type result struct {
		conn *Conn
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		c, err := Handshake(right, b, 0, time.Second)
		ch <- result{c, err}
	}()

	l, err := Handshake(left, a, 0, time.Second)
	td.Require(t).CmpNoError(err)
	r := <-ch
	td.Require(t).CmpNoError(r.err)

	t.Cleanup(func() {
		l.Close()
		r.conn.Close()
	})
	return l, r.conn
}

func TestHandshakeNegotiates(t *testing.T) {
	a := marshal.DefaultPreferences()
	b := marshal.Preferences{Options: marshal.Options{Version: 6, TightEncodingEnabled: true, CacheSize: 32}}

	l, r := connPair(t, a, b)
	td.Cmp(t, l.Negotiated(), r.Negotiated())
	td.Cmp(t, l.Negotiated().Options, marshal.Options{Version: 6, TightEncodingEnabled: true, CacheSize: 32})
}

// sendTexts sends n text messages from a new goroutine and reports every result on the returned channel
func sendTexts(c *Conn, dest commands.IDestination, n int) <-chan error {
	results := make(chan error, n)
	go func() {
		for i := 0; i < n; i++ {
			msg := &commands.TextMessage{}
			msg.CommandID = int32(i)
			msg.Destination = dest
			msg.SetText("hello")
			results <- c.Send(msg)
		}
	}()
	return results
}

func TestSendReceive(t *testing.T) {
	for name, prefs := range map[string]marshal.Preferences{
		"Default": marshal.DefaultPreferences(),
		"Loose":   {Options: marshal.Options{Version: marshal.MaxVersion}},
	} {
		t.Run(name, func(t *testing.T) {
			l, r := connPair(t, prefs, prefs)

			dest := commands.NewQueue("orders")
			results := sendTexts(l, dest, 20)

			for i := 0; i < 20; i++ {
				ds, err := r.Receive()
				td.Require(t).CmpNoError(err)
				msg, ok := ds.(*commands.TextMessage)
				td.Require(t).True(ok, "got %v", ds)
				td.Cmp(t, msg.CommandID, int32(i))
				td.Cmp(t, msg.Destination, dest)
				text, err := msg.Text()
				td.CmpNoError(t, err)
				td.Cmp(t, text, "hello")
			}
			for i := 0; i < 20; i++ {
				td.CmpNoError(t, <-results, "send %d", i)
			}
		})
	}
}

// TestSendSucceedsWhenClosedAfterWrite closes the sending side as soon as the
// peer has read every record. Each Send wrote its record, so none may report
// a failure.
func TestSendSucceedsWhenClosedAfterWrite(t *testing.T) {
	for round := 0; round < 20; round++ {
		l, r := connPair(t, marshal.DefaultPreferences(), marshal.DefaultPreferences())
		results := sendTexts(l, commands.NewQueue("orders"), 10)

		for i := 0; i < 10; i++ {
			_, err := r.Receive()
			td.Require(t).CmpNoError(err, "round %d receive %d", round, i)
		}
		td.CmpNoError(t, l.Close())

		for i := 0; i < 10; i++ {
			select {
			case err := <-results:
				td.CmpNoError(t, err, "round %d send %d", round, i)
			case <-time.After(time.Second):
				t.Fatalf("round %d: send %d did not return", round, i)
			}
		}
	}
}

func TestKeepAlive(t *testing.T) {
	prefs := marshal.DefaultPreferences()
	prefs.MaxInactivityDuration = 60 * time.Millisecond
	l, r := connPair(t, prefs, prefs)

	received := make(chan commands.DataStructure, 1)
	go func() {
		ds, err := r.Receive()
		if err == nil {
			received <- ds
		}
	}()
	// both sides keep reading through several inactivity windows
	go func() {
		for {
			if _, err := l.Receive(); err != nil {
				return
			}
		}
	}()

	time.Sleep(250 * time.Millisecond)
	td.CmpNil(t, l.Err())
	td.CmpNil(t, r.Err())

	td.CmpNoError(t, l.Send(&commands.ShutdownInfo{}))
	select {
	case ds := <-received:
		td.Cmp(t, ds, &commands.ShutdownInfo{})
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for command")
	}
}

func TestDecodeErrorClosesConnection(t *testing.T) {
	left, right := net.Pipe()
	defer right.Close()

	// play the peer by hand with the bootstrap format
	go func() {
		header := make([]byte, frameHeaderSize)
		if _, err := readFrame(right, header, 0); err != nil {
			return
		}
		info, _ := marshal.DefaultPreferences().Info()
		record, _ := marshal.NewBootstrap().Marshal(info)
		_ = writeFrame(right, record)
		_ = writeFrame(right, []byte{0xEE, 1, 2})
	}()

	c, err := Handshake(left, marshal.DefaultPreferences(), 0, time.Second)
	td.Require(t).CmpNoError(err)

	_, err = c.Receive()
	td.CmpTrue(t, errors.Is(err, codec.ErrUnknownTypeCode), "got %v", err)
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("connection still open")
	}
	td.CmpTrue(t, errors.Is(c.Send(&commands.KeepAliveInfo{}), codec.ErrUnknownTypeCode))
}

func TestHandshakeRejectsOtherCommands(t *testing.T) {
	left, right := net.Pipe()
	defer left.Close()
	defer right.Close()

	go func() {
		header := make([]byte, frameHeaderSize)
		if _, err := readFrame(right, header, 0); err != nil {
			return
		}
		record, _ := marshal.NewBootstrap().Marshal(&commands.ShutdownInfo{})
		_ = writeFrame(right, record)
	}()

	_, err := Handshake(left, marshal.DefaultPreferences(), 0, time.Second)
	td.CmpTrue(t, errors.Is(err, codec.ErrTypeMismatch), "got %v", err)
}

func TestClose(t *testing.T) {
	l, _ := connPair(t, marshal.DefaultPreferences(), marshal.DefaultPreferences())
	td.CmpNil(t, l.Err())
	td.CmpNoError(t, l.Close())
	td.Cmp(t, l.Err(), ErrClosed)
	td.Cmp(t, l.Send(&commands.KeepAliveInfo{}), ErrClosed)
	_, err := l.Receive()
	td.Cmp(t, err, ErrClosed)
}
