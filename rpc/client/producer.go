package client

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dWire/lib/openwire/commands"
)

// Producer sends messages to one destination. It is safe for concurrent use.
type Producer struct {
	client   *Client
	info     *commands.ProducerInfo
	sequence atomic.Int64
}

// CreateProducer opens a session and registers a producer for dest with the server
func (c *Client) CreateProducer(dest commands.IDestination) (*Producer, error) {
	session := &commands.SessionInfo{SessionID: &commands.SessionID{
		ConnectionID: c.connectionID.Value,
		Value:        c.nextSession.Add(1),
	}}
	if _, err := c.Request(session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	info := &commands.ProducerInfo{
		ProducerID: &commands.ProducerID{
			ConnectionID: c.connectionID.Value,
			SessionID:    session.SessionID.Value,
			Value:        c.nextProducer.Add(1),
		},
		Destination:   dest,
		DispatchAsync: true,
	}
	if _, err := c.Request(info); err != nil {
		return nil, fmt.Errorf("creating producer: %w", err)
	}
	return &Producer{client: c, info: info}, nil
}

// ID returns the id the producer was registered with
func (p *Producer) ID() *commands.ProducerID {
	return p.info.ProducerID
}

// Send stamps msg with the producer, destination, message id and timestamp and
// sends it. Persistent messages wait for the server's Response.
func (p *Producer) Send(msg commands.IMessage) error {
	m := msg.Msg()
	m.ProducerID = p.info.ProducerID
	m.Destination = p.info.Destination
	m.MessageID = &commands.MessageID{ProducerID: p.info.ProducerID, ProducerSequenceID: p.sequence.Add(1)}
	if m.Timestamp == 0 {
		m.Timestamp = time.Now().UnixMilli()
	}

	if m.Persistent {
		_, err := p.client.Request(msg)
		return err
	}
	return p.client.Send(msg)
}

// Close unregisters the producer
func (p *Producer) Close() error {
	_, err := p.client.Request(&commands.RemoveInfo{ObjectID: p.info.ProducerID})
	return err
}
