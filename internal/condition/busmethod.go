package condition

import (
	"context"
	"time"

	"github.com/almostearthling/whenever-sub000/internal/dbusx"
	"github.com/almostearthling/whenever-sub000/internal/valuetest"
)

// BusMethodProbeCondition calls a D-Bus method and tests its reply
// against a set of index-path tests, grounded on
// condition::dbus_cond::DbusMethodCondition.
type BusMethodProbeCondition struct {
	Base

	Client     *dbusx.Client
	Service    string
	ObjectPath string
	Interface  string
	Method     string
	CallArgs   []interface{}

	Tests     []valuetest.Test
	ExpectAll bool

	CheckAfter             time.Duration
	RecurAfterFailedCheck  bool
	lastChecked            time.Time
	lastCheckFailed        bool
}

// NewBusMethodProbeCondition builds a bus-method-probe condition.
func NewBusMethodProbeCondition(name string, client *dbusx.Client, service, objectPath, iface, method string) *BusMethodProbeCondition {
	return &BusMethodProbeCondition{
		Base:       NewBase(name),
		Client:     client,
		Service:    service,
		ObjectPath: objectPath,
		Interface:  iface,
		Method:     method,
	}
}

func (c *BusMethodProbeCondition) Type() string { return "bus" }

func (c *BusMethodProbeCondition) Check(ctx context.Context) (*bool, error) {
	if c.CheckAfter > 0 && !c.lastChecked.IsZero() {
		if !(c.lastCheckFailed && !c.RecurAfterFailedCheck) && time.Since(c.lastChecked) < c.CheckAfter {
			return nil, nil
		}
	}

	reply, err := c.Client.CallMethod(c.Service, c.ObjectPath, c.Interface, c.Method, c.CallArgs...)
	c.lastChecked = time.Now()
	if err != nil {
		c.lastCheckFailed = true
		return nil, err
	}

	agg := valuetest.Any
	if c.ExpectAll {
		agg = valuetest.All
	}
	ok := valuetest.EvalAll(reply, c.Tests, agg)
	c.lastCheckFailed = !ok
	return &ok, nil
}
