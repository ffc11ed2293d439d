package event

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/almostearthling/whenever-sub000/internal/wres"
)

// FsWatchEvent fires whenever a filesystem change matching Paths/Ops is
// observed, grounded on the original implementation's filesystem-notify
// event source and backed by fsnotify (SPEC_FULL.md §6.5).
type FsWatchEvent struct {
	Base

	Paths []string
	// OpFilter, if non-empty, restricts firing to these fsnotify.Op
	// values; empty means any op fires.
	OpFilter []fsnotify.Op

	watcher *fsnotify.Watcher
	ch      chan struct{}
	stop    chan struct{}
}

// NewFsWatchEvent builds a filesystem-notify event watching paths and
// feeding conditionName.
func NewFsWatchEvent(name, conditionName string, paths []string, ops ...fsnotify.Op) *FsWatchEvent {
	return &FsWatchEvent{Base: NewBase(name, conditionName), Paths: paths, OpFilter: ops}
}

func (e *FsWatchEvent) Type() string { return "fschange" }

func (e *FsWatchEvent) InitialSetup(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return wres.FromFsNotifyError("failed to create watcher", err)
	}
	for _, p := range e.Paths {
		if err := w.Add(p); err != nil {
			_ = w.Close()
			return wres.FromFsNotifyError("failed to watch "+p, err)
		}
	}
	e.watcher = w
	e.ch = make(chan struct{}, 8)
	e.stop = make(chan struct{})

	go e.pump()
	return nil
}

func (e *FsWatchEvent) pump() {
	for {
		select {
		case ev, ok := <-e.watcher.Events:
			if !ok {
				close(e.ch)
				return
			}
			if e.matches(ev) {
				select {
				case e.ch <- struct{}{}:
				default:
				}
			}
		case _, ok := <-e.watcher.Errors:
			if !ok {
				close(e.ch)
				return
			}
		case <-e.stop:
			close(e.ch)
			return
		}
	}
}

func (e *FsWatchEvent) matches(ev fsnotify.Event) bool {
	if len(e.OpFilter) == 0 {
		return true
	}
	for _, op := range e.OpFilter {
		if ev.Op&op != 0 {
			return true
		}
	}
	return false
}

func (e *FsWatchEvent) Chan() <-chan struct{} { return e.ch }

func (e *FsWatchEvent) Close() error {
	if e.stop != nil {
		close(e.stop)
	}
	if e.watcher != nil {
		return e.watcher.Close()
	}
	return nil
}
