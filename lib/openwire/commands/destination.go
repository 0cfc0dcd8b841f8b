package commands

import (
	"strings"
)

// Destination holds the name shared by all destination kinds
type Destination struct {
	PhysicalName string
}

func (d *Destination) GetPhysicalName() string {
	return d.PhysicalName
}

// Dest returns the embedded Destination
func (d *Destination) Dest() *Destination {
	return d
}

// IDestination is implemented by Queue, Topic, TempQueue and TempTopic
type IDestination interface {
	DataStructure
	GetPhysicalName() string
	Dest() *Destination
	IsTopic() bool
	IsTemporary() bool
}

type Queue struct{ Destination }

func (d *Queue) DataStructureType() byte { return TypeQueue }
func (d *Queue) IsTopic() bool           { return false }
func (d *Queue) IsTemporary() bool       { return false }
func (d *Queue) String() string          { return "queue://" + d.PhysicalName }

type Topic struct{ Destination }

func (d *Topic) DataStructureType() byte { return TypeTopic }
func (d *Topic) IsTopic() bool           { return true }
func (d *Topic) IsTemporary() bool       { return false }
func (d *Topic) String() string          { return "topic://" + d.PhysicalName }

type TempQueue struct{ Destination }

func (d *TempQueue) DataStructureType() byte { return TypeTempQueue }
func (d *TempQueue) IsTopic() bool           { return false }
func (d *TempQueue) IsTemporary() bool       { return true }
func (d *TempQueue) String() string          { return "temp-queue://" + d.PhysicalName }

type TempTopic struct{ Destination }

func (d *TempTopic) DataStructureType() byte { return TypeTempTopic }
func (d *TempTopic) IsTopic() bool           { return true }
func (d *TempTopic) IsTemporary() bool       { return true }
func (d *TempTopic) String() string          { return "temp-topic://" + d.PhysicalName }

// NewQueue creates a queue destination
func NewQueue(name string) *Queue {
	return &Queue{Destination{PhysicalName: name}}
}

// NewTopic creates a topic destination
func NewTopic(name string) *Topic {
	return &Topic{Destination{PhysicalName: name}}
}

// ParseDestination parses "queue://name", "topic://name", "temp-queue://name"
// or "temp-topic://name". A name without a scheme is a queue.
func ParseDestination(s string) IDestination {
	switch {
	case strings.HasPrefix(s, "topic://"):
		return NewTopic(strings.TrimPrefix(s, "topic://"))
	case strings.HasPrefix(s, "temp-queue://"):
		return &TempQueue{Destination{PhysicalName: strings.TrimPrefix(s, "temp-queue://")}}
	case strings.HasPrefix(s, "temp-topic://"):
		return &TempTopic{Destination{PhysicalName: strings.TrimPrefix(s, "temp-topic://")}}
	default:
		return NewQueue(strings.TrimPrefix(s, "queue://"))
	}
}
