package marshal

import (
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
	"github.com/ValentinKolb/dWire/lib/openwire/primitivemap"
)

// testOptions is a map of encoding name to options factory
var testOptions = map[string]func(version int) Options{
	"TightCached": func(v int) Options {
		return Options{Version: v, TightEncodingEnabled: true, CacheEnabled: true, CacheSize: 64}
	},
	"TightTinyCache": func(v int) Options {
		return Options{Version: v, TightEncodingEnabled: true, CacheEnabled: true, CacheSize: 1}
	},
	"TightUncached": func(v int) Options {
		return Options{Version: v, TightEncodingEnabled: true}
	},
	"Loose": func(v int) Options {
		return Options{Version: v}
	},
}

func mustProperties(m primitivemap.Map) []byte {
	data, err := primitivemap.Marshal(m)
	if err != nil {
		panic(err)
	}
	return data
}

// fillMessage populates every field of m that exists at the given version
func fillMessage(msg commands.IMessage, version int) commands.IMessage {
	pid := &commands.ProducerID{ConnectionID: "ID:host-1", Value: 1, SessionID: 2}

	m := msg.Msg()
	m.CommandID = 42
	m.ResponseRequired = true
	m.ProducerID = pid
	m.Destination = commands.NewQueue("orders")
	m.TransactionID = &commands.LocalTransactionID{Value: 9, ConnectionID: &commands.ConnectionID{Value: "ID:host-1"}}
	m.OriginalDestination = commands.NewTopic("orders.audit")
	m.MessageID = &commands.MessageID{ProducerID: pid, ProducerSequenceID: 17, BrokerSequenceID: 1 << 40}
	m.OriginalTransactionID = &commands.XATransactionID{FormatID: 5, GlobalTransactionID: []byte{1, 2}, BranchQualifier: []byte{3}}
	m.GroupID = "g1"
	m.GroupSequence = 3
	m.CorrelationID = "corr-1"
	m.Persistent = true
	m.Expiration = 70000
	m.Priority = 4
	m.ReplyTo = &commands.TempQueue{Destination: commands.Destination{PhysicalName: "ID:host-1:1:1"}}
	m.Timestamp = 1700000000000
	m.Type = "order"
	m.Content = []byte("payload")
	m.MarshalledProperties = mustProperties(primitivemap.Map{"region": "eu", "retries": int32(2)})
	m.DataStructure = &commands.ConsumerID{ConnectionID: "ID:host-2", SessionID: 1, Value: 8}
	m.TargetConsumerID = &commands.ConsumerID{ConnectionID: "ID:host-2", SessionID: 1, Value: 9}
	m.RedeliveryCounter = 2
	m.BrokerPath = []*commands.BrokerID{{Value: "broker-a"}, {Value: "broker-b"}}
	m.Arrival = -5
	m.UserID = "alice"
	m.ReceivedByDFBridge = true
	if version >= 2 {
		m.Droppable = true
	}
	if version >= 3 {
		m.Cluster = []*commands.BrokerID{{Value: "broker-a"}}
		m.BrokerInTime = 11
		m.BrokerOutTime = 1 << 33
	}
	if version >= 10 {
		m.JMSXGroupFirstForConsumer = true
	}
	return msg
}

// sampleCommands returns one fully populated instance of every type, with the
// fields introduced after the given version left at their zero value
func sampleCommands(version int) []commands.DataStructure {
	conn := &commands.ConnectionInfo{
		BaseCommand:           commands.BaseCommand{CommandID: 1, ResponseRequired: true},
		ConnectionID:          &commands.ConnectionID{Value: "ID:host-1"},
		ClientID:              "client",
		Password:              "secret",
		UserName:              "alice",
		BrokerPath:            []*commands.BrokerID{{Value: "broker-a"}},
		BrokerMasterConnector: true,
	}
	if version >= 2 {
		conn.ClientMaster = true
	}
	if version >= 6 {
		conn.FaultTolerant = true
		conn.FailoverReconnect = true
	}
	if version >= 8 {
		conn.ClientIP = "10.0.0.1"
	}

	prod := &commands.ProducerInfo{
		BaseCommand: commands.BaseCommand{CommandID: 3, ResponseRequired: true},
		ProducerID:  &commands.ProducerID{ConnectionID: "ID:host-1", Value: 1, SessionID: 2},
		Destination: commands.NewTopic("prices"),
	}
	if version >= 2 {
		prod.DispatchAsync = true
	}
	if version >= 3 {
		prod.WindowSize = 1 << 20
	}

	remove := &commands.RemoveInfo{
		BaseCommand: commands.BaseCommand{CommandID: 4},
		ObjectID:    &commands.SessionID{ConnectionID: "ID:host-1", Value: 2},
	}
	if version >= 5 {
		remove.LastDeliveredSequenceID = 123456789
	}

	return []commands.DataStructure{
		&commands.WireFormatInfo{
			Magic:                commands.Magic,
			Version:              12,
			MarshalledProperties: mustProperties(primitivemap.Map{commands.PropCacheEnabled: true}),
		},
		conn,
		&commands.SessionInfo{
			BaseCommand: commands.BaseCommand{CommandID: 2},
			SessionID:   &commands.SessionID{ConnectionID: "ID:host-1", Value: 2},
		},
		prod,
		&commands.KeepAliveInfo{BaseCommand: commands.BaseCommand{ResponseRequired: true}},
		&commands.ShutdownInfo{BaseCommand: commands.BaseCommand{CommandID: 99}},
		remove,
		&commands.ControlCommand{BaseCommand: commands.BaseCommand{CommandID: 5}, Command: "shutdown"},
		&commands.ProducerAck{
			BaseCommand: commands.BaseCommand{CommandID: 6},
			ProducerID:  &commands.ProducerID{ConnectionID: "ID:host-1", Value: 1, SessionID: 2},
			Size:        4096,
		},
		&commands.Response{BaseCommand: commands.BaseCommand{CommandID: 7}, CorrelationID: 3},
		fillMessage(&commands.Message{}, version),
		fillMessage(&commands.BytesMessage{}, version),
		fillMessage(&commands.MapMessage{}, version),
		fillMessage(&commands.ObjectMessage{}, version),
		fillMessage(&commands.StreamMessage{}, version),
		fillMessage(&commands.TextMessage{}, version),
		fillMessage(&commands.BlobMessage{}, version),
		commands.NewQueue("orders"),
		commands.NewTopic("prices"),
		&commands.TempQueue{Destination: commands.Destination{PhysicalName: "ID:tmp:1"}},
		&commands.TempTopic{Destination: commands.Destination{PhysicalName: "ID:tmp:2"}},
		&commands.MessageID{
			ProducerID:         &commands.ProducerID{ConnectionID: "ID:host-1", Value: 1, SessionID: 2},
			ProducerSequenceID: 1,
		},
		&commands.LocalTransactionID{Value: 1, ConnectionID: &commands.ConnectionID{Value: "ID:host-1"}},
		&commands.XATransactionID{FormatID: -1, GlobalTransactionID: []byte("gtx"), BranchQualifier: []byte("b")},
		&commands.ConnectionID{Value: "ID:host-1"},
		&commands.SessionID{ConnectionID: "ID:host-1", Value: 2},
		&commands.ConsumerID{ConnectionID: "ID:host-1", SessionID: 2, Value: 3},
		&commands.ProducerID{ConnectionID: "ID:host-1", Value: 1, SessionID: 2},
		&commands.BrokerID{Value: "broker-a"},
	}
}
