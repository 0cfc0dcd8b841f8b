package marshal

import (
	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
)

// IMarshaller encodes and decodes the fields of one data structure type. The
// type byte and, for tight records, the length and boolean stream are handled
// by the caller.
type IMarshaller interface {
	// DataStructureType returns the type code handled by this marshaller
	DataStructureType() byte

	// New creates an empty instance to decode into
	New() commands.DataStructure

	// TightMarshal1 is the sizing pass. It pushes one boolean per optional
	// field to bs and returns the number of field bytes TightMarshal2 writes.
	TightMarshal1(wf *WireFormat, ds commands.DataStructure, bs *codec.BooleanStream) (int, error)

	// TightMarshal2 is the write pass. It pops the booleans pushed by
	// TightMarshal1 in the same order and writes the field bytes.
	TightMarshal2(wf *WireFormat, ds commands.DataStructure, out *codec.Writer, bs *codec.BooleanStream) error

	// TightUnmarshal reads the fields of a tight record into ds
	TightUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader, bs *codec.BooleanStream) error

	// LooseMarshal writes the fields of ds with inline presence markers
	LooseMarshal(wf *WireFormat, ds commands.DataStructure, out *codec.Writer) error

	// LooseUnmarshal reads the fields of a loose record into ds
	LooseUnmarshal(wf *WireFormat, ds commands.DataStructure, in *codec.Reader) error
}

// registry maps type codes to marshallers. It is filled once at init and read-only afterwards.
var registry [256]IMarshaller

func register(ms ...IMarshaller) {
	for _, m := range ms {
		registry[m.DataStructureType()] = m
	}
}

func init() {
	register(
		wireFormatInfoMarshaller{},
		connectionInfoMarshaller{},
		sessionInfoMarshaller{},
		producerInfoMarshaller{},
		baseCommandMarshaller{code: commands.TypeKeepAliveInfo},
		baseCommandMarshaller{code: commands.TypeShutdownInfo},
		removeInfoMarshaller{},
		controlCommandMarshaller{},
		producerAckMarshaller{},
		responseMarshaller{},

		messageMarshaller{code: commands.TypeMessage},
		messageMarshaller{code: commands.TypeBytesMessage},
		messageMarshaller{code: commands.TypeMapMessage},
		messageMarshaller{code: commands.TypeObjectMessage},
		messageMarshaller{code: commands.TypeStreamMessage},
		messageMarshaller{code: commands.TypeTextMessage},
		messageMarshaller{code: commands.TypeBlobMessage},

		destinationMarshaller{code: commands.TypeQueue},
		destinationMarshaller{code: commands.TypeTopic},
		destinationMarshaller{code: commands.TypeTempQueue},
		destinationMarshaller{code: commands.TypeTempTopic},

		messageIDMarshaller{},
		localTransactionIDMarshaller{},
		xaTransactionIDMarshaller{},
		connectionIDMarshaller{},
		sessionIDMarshaller{},
		consumerIDMarshaller{},
		producerIDMarshaller{},
		brokerIDMarshaller{},
	)
}

// MarshallerFor returns the marshaller of a type code, or nil when the code is unknown
func MarshallerFor(code byte) IMarshaller {
	return registry[code]
}
