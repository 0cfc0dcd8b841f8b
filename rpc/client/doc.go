// Package client implements the dWire client: it connects to a server through a
// transport connector, negotiates the wire format and correlates responses to
// requests.
//
// Key Components:
//
//   - Client: one connection. Request waits for the Response carrying the
//     command id of the request; Send does not wait. Pending requests live in
//     a concurrent map and fail together when the connection is lost.
//
//   - Producer: a session and producer registered with the server. It stamps
//     every message with its producer id, destination and a message id.
//
// Usage Example:
//
//	c, err := client.Connect(config, tcp.NewConnector())
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	p, err := c.CreateProducer(commands.NewQueue("orders"))
//	if err != nil {
//		return err
//	}
//	msg := &commands.TextMessage{}
//	msg.SetText("hello")
//	return p.Send(msg)
package client
