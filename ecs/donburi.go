package ecs

import (
	"time"

	"github.com/phanxgames/touchline"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InputBatchEvent is one drained snapshot. The record slices are owned by the
// event and stay valid after the drain returns.
type InputBatchEvent struct {
	Action touchline.Action
	Active []touchline.EventRecord
	All    []touchline.EventRecord
	Time   time.Duration
}

// KeyEvent is a key or gamepad button transition.
type KeyEvent struct {
	Code touchline.KeyCode
	Down bool
}

// InputBatchEventType is the Donburi event type for input batches.
var InputBatchEventType = events.NewEventType[InputBatchEvent]()

// KeyEventType is the Donburi event type for key transitions.
var KeyEventType = events.NewEventType[KeyEvent]()

type donburiEngine struct {
	world donburi.World
}

// NewDonburiEngine creates an Engine that publishes into a Donburi world.
// Events are queued until the world processes them with events.ProcessEvents
// or events.ProcessAllEvents.
func NewDonburiEngine(world donburi.World) touchline.Engine {
	return &donburiEngine{world: world}
}

func (e *donburiEngine) OnInputBatch(action touchline.Action, active, all []touchline.EventRecord, t time.Duration) {
	InputBatchEventType.Publish(e.world, InputBatchEvent{
		Action: action,
		Active: append([]touchline.EventRecord(nil), active...),
		All:    append([]touchline.EventRecord(nil), all...),
		Time:   t,
	})
}

func (e *donburiEngine) OnKeyDown(code touchline.KeyCode) {
	KeyEventType.Publish(e.world, KeyEvent{Code: code, Down: true})
}

func (e *donburiEngine) OnKeyUp(code touchline.KeyCode) {
	KeyEventType.Publish(e.world, KeyEvent{Code: code, Down: false})
}
