// Package ecs provides ECS adapters for touchline surfaces.
//
// The primary adapter is [NewDonburiEngine], which republishes drained input
// batches and key transitions into a [Donburi] world as typed events.
// Subscribe to [InputBatchEventType] and [KeyEventType] in your ECS systems
// to receive them.
//
// Usage:
//
//	engine := ecs.NewDonburiEngine(world)
//	surface.Drain(engine)
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
