package adapter

// Slot indexes the components of a wide element.
type Slot int

const (
	Election Slot = iota
	District
	Station
	Question
	Ballot
)

// Width is the number of slots of a wide element, and the key width the
// mix-net has to be configured with.
const Width = 5

// labelSlots is the number of leading slots carrying labels.
const labelSlots = int(Ballot)

func (s Slot) String() string {
	switch s {
	case Election:
		return "election"
	case District:
		return "district"
	case Station:
		return "station"
	case Question:
		return "question"
	case Ballot:
		return "ballot"
	}
	return "unknown"
}
