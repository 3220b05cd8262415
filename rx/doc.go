// Package rx is a small push-based reactive-stream core.
//
// A source (any Publisher variant) owns a set of pipelines. Each call to
// Pipe attaches one pipeline and returns its chain head, an *Operator[V],
// on which stages are built front to back and a terminal subscriber is
// registered:
//
//	s := rx.NewSubject(0)
//	unsubscribe := rx.Map(s.Pipe().RemoveDuplicates(), strconv.Itoa).
//		OnReceive(func(v string) { fmt.Println(v) }).
//		OnComplete(func() { fmt.Println("done") }).
//		Subscribe()
//
// Every event carries a broadcast flag: true for a live fan-out push from
// the source, false for the synchronous replay a newly subscribed pipeline
// receives. What a late subscriber replays depends on the variant: Subject
// replays its current value, Emitter the last value, Buffer its full history,
// Operation its single result.
//
// Errors travel as events and do not terminate a stream; only completion
// does, and completion is terminal for every source, stage and subscriber.
//
// # Execution model
//
// The core is single-threaded: delivery runs synchronously to completion
// on the caller's goroutine and no type in this package is safe for
// concurrent use. Time enters only through a Scheduler. Tests drive a
// VirtualScheduler; services run everything on a Loop, which owns one
// goroutine and posts real timer callbacks back onto it.
package rx
