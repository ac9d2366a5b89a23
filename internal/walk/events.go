package walk

type EventType int

const (
	EventProgress  EventType = iota // a waypoint was reached
	EventCompleted                  // the final waypoint was reached
)

type Event struct {
	Type      EventType
	Segment   int // current segment index
	Waypoints int // total waypoints in the path
}

type EventHandler func(Event)

type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
