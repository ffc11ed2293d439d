package event

import (
	"context"
	"time"

	"github.com/almostearthling/whenever-sub000/internal/dbusx"
)

// BusSignalEvent fires whenever a matching D-Bus signal arrives, grounded
// on the original implementation's D-Bus event source and backed by
// godbus/dbus (SPEC_FULL.md §6.2).
type BusSignalEvent struct {
	Base

	Client    *dbusx.Client
	Interface string
	Member    string

	watcher *dbusx.SignalWatcher
	ch      chan struct{}
	stop    chan struct{}
}

// NewBusSignalEvent builds a bus-signal event feeding conditionName.
func NewBusSignalEvent(name, conditionName string, client *dbusx.Client, iface, member string) *BusSignalEvent {
	return &BusSignalEvent{Base: NewBase(name, conditionName), Client: client, Interface: iface, Member: member}
}

func (e *BusSignalEvent) Type() string { return "dbus" }

func (e *BusSignalEvent) InitialSetup(ctx context.Context) error {
	w, err := dbusx.Watch(e.Client, e.Interface, e.Member)
	if err != nil {
		return err
	}
	e.watcher = w
	e.ch = make(chan struct{}, 8)
	e.stop = make(chan struct{})
	go e.pump()
	return nil
}

func (e *BusSignalEvent) pump() {
	for {
		select {
		case <-e.stop:
			close(e.ch)
			return
		default:
		}
		if _, ok := e.watcher.Next(time.Second); ok {
			select {
			case e.ch <- struct{}{}:
			default:
			}
		}
	}
}

func (e *BusSignalEvent) Chan() <-chan struct{} { return e.ch }

func (e *BusSignalEvent) Close() error {
	if e.stop != nil {
		close(e.stop)
	}
	return nil
}
