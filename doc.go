// Package touchline turns platform pointer, stylus and game-controller input
// into an ordered stream of input batches for an engine running on another
// goroutine.
//
// The platform reuses pointer ids as soon as a finger lifts; touchline hands
// the engine [TrackedID] values that are never reused. It folds the platform's
// double-tap notification into the pointer stream, merges multi-touch
// pointers and joystick axes into one [Snapshot] shape, and queues every
// snapshot and key event for the engine without ever blocking the producer.
//
// # Quick start
//
// Create a [Surface], feed it from the platform's input goroutine, and drain
// it once per frame on the engine goroutine:
//
//	surface, err := touchline.NewSurface(touchline.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	// input goroutine
//	surface.OnTouch(touchline.RawSample{
//		Action:   touchline.ActionDown,
//		Pointers: []touchline.Pointer{{ID: 5, X: 120, Y: 80}},
//	})
//
//	// engine goroutine, every frame
//	surface.Drain(engine)
//
// [Engine] receives one OnInputBatch call per snapshot plus OnKeyDown and
// OnKeyUp, in the order the input was produced.
//
// # Pieces
//
// [Surface] wires together a [Tracker] (platform id to tracked id), a
// [TapClassifier] (double-tap promotion), a [Translator] (sample to
// snapshot), a [Controller] (gamepad motion and key repeat filtering) and a
// [Queue] (ordered hand-off). Each can be used on its own.
//
// Platform adapters live in subpackages: ebitenpoll polls [Ebitengine]
// touches, keys and gamepads each tick, and the ecs module publishes drained
// input into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package touchline
