package event

import (
	"context"
	"reflect"

	"github.com/almostearthling/whenever-sub000/internal/logging"
)

// selectLoop multiplexes every event's Chan() plus ctx.Done() in one
// goroutine using reflect.Select, the Go analogue of the original's
// futures::select_all-based reactor: exactly one goroutine services
// every event channel, so firings are handled strictly one at a time with
// no concurrent bucket mutation to reason about.
func selectLoop(ctx context.Context, events []Event, bucket *Bucket) error {
	if len(events) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	cases := make([]reflect.SelectCase, 0, len(events)+1)
	cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())})
	for _, e := range events {
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(e.Chan())})
	}

	for {
		chosen, _, ok := reflect.Select(cases)
		if chosen == 0 {
			for _, e := range events {
				_ = e.Close()
			}
			return ctx.Err()
		}
		if !ok {
			// a closed event channel: drop it from the select set so the
			// loop doesn't spin on a permanently-ready closed channel.
			cases = append(cases[:chosen], cases[chosen+1:]...)
			events = append(events[:chosen-1], events[chosen:]...)
			continue
		}

		ev := events[chosen-1]
		logging.Record(logging.Trace, logEmitterEvent, "fire", &logging.Item{Name: ev.Name(), ID: ev.ID()}, "PROC", "OK", "event fired")
		bucket.Add(ev.ConditionName())
	}
}
