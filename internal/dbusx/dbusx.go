// Package dbusx wraps godbus/dbus/v5 as the engine's bus-access
// capability, backing the bus-method-probe condition and the bus-signal
// event source (SPEC_FULL.md §6.2), grounded on
// condition::dbus_cond::DbusMethodCondition and event::registry's bus
// event handling.
package dbusx

import (
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/almostearthling/whenever-sub000/internal/wres"
)

// Client wraps a single D-Bus connection (session or system).
type Client struct {
	conn *dbus.Conn
}

// Dial connects to the session bus, or the system bus when system is
// true.
func Dial(system bool) (*Client, error) {
	var (
		conn *dbus.Conn
		err  error
	)
	if system {
		conn, err = dbus.SystemBus()
	} else {
		conn, err = dbus.SessionBus()
	}
	if err != nil {
		return nil, wres.FromDBusError("failed to connect to bus", err)
	}
	return &Client{conn: conn}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// CallMethod invokes a remote method and flattens its reply into plain
// Go values ([]interface{}, map[string]interface{}, scalars) suitable
// for internal/valuetest to walk.
func (c *Client) CallMethod(service, objectPath, iface, method string, args ...interface{}) (interface{}, error) {
	obj := c.conn.Object(service, dbus.ObjectPath(objectPath))
	call := obj.Call(iface+"."+method, 0, args...)
	if call.Err != nil {
		return nil, wres.FromDBusError("method call failed: "+iface+"."+method, call.Err)
	}
	if len(call.Body) == 1 {
		return flatten(call.Body[0]), nil
	}
	out := make([]interface{}, len(call.Body))
	for i, v := range call.Body {
		out[i] = flatten(v)
	}
	return out, nil
}

func flatten(v interface{}) interface{} {
	switch val := v.(type) {
	case dbus.Variant:
		return flatten(val.Value())
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = flatten(item)
		}
		return out
	case map[string]dbus.Variant:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = flatten(item)
		}
		return out
	default:
		return val
	}
}

// SignalWatcher subscribes to signals matching iface/member and resolves
// its channel whenever one arrives, backing the bus-signal event source.
type SignalWatcher struct {
	client *Client
	ch     chan *dbus.Signal
}

// Watch installs a signal match rule for iface.member and returns a
// watcher whose Next blocks until a matching signal is received.
func Watch(client *Client, iface, member string) (*SignalWatcher, error) {
	rule := "type='signal'"
	if iface != "" {
		rule += ",interface='" + iface + "'"
	}
	if member != "" {
		rule += ",member='" + member + "'"
	}
	call := client.conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule)
	if call.Err != nil {
		return nil, wres.FromDBusError("failed to install signal match", call.Err)
	}
	ch := make(chan *dbus.Signal, 16)
	client.conn.Signal(ch)
	return &SignalWatcher{client: client, ch: ch}, nil
}

// Next blocks until a signal arrives or timeout elapses, returning
// (signal, true) or (nil, false) on timeout.
func (w *SignalWatcher) Next(timeout time.Duration) (*dbus.Signal, bool) {
	select {
	case sig := <-w.ch:
		return sig, true
	case <-time.After(timeout):
		return nil, false
	}
}
