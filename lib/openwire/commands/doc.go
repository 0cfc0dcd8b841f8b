// Package commands defines the data structures exchanged over an OpenWire
// connection.
//
// Every wire-level entity implements DataStructure and is identified by a
// one-byte type code that never changes between protocol versions. Commands
// (the top-level records of a stream) additionally embed BaseCommand, which
// carries the command id and the response-required flag. Identifiers and
// destinations are plain data structures that only ever appear as fields of
// a command.
//
// The set of types is closed: New constructs an empty instance for every known
// type code and returns nil otherwise. Field layouts and version gates live in
// the marshal package; this package only holds the in-memory model.
//
// Key Components:
//
//   - Identifiers: ConnectionID, SessionID, ConsumerID, ProducerID, BrokerID,
//     MessageID and the transaction ids LocalTransactionID and XATransactionID.
//
//   - Destinations: Queue, Topic, TempQueue and TempTopic, all embedding
//     Destination and exposed through IDestination.
//
//   - Commands: WireFormatInfo, ConnectionInfo, SessionInfo, ProducerInfo,
//     KeepAliveInfo, ShutdownInfo, RemoveInfo, ControlCommand, ProducerAck,
//     Response and the message family.
//
//   - Messages: Message plus the body-specific variants (TextMessage,
//     BytesMessage, MapMessage, ObjectMessage, StreamMessage, BlobMessage). All
//     share the Message field set and are reached through IMessage.
package commands
