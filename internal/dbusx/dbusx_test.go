package dbusx

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
)

func TestFlattenUnwrapsVariant(t *testing.T) {
	v := dbus.MakeVariant("hello")
	assert.Equal(t, "hello", flatten(v))
}

func TestFlattenWalksNestedVariants(t *testing.T) {
	in := map[string]dbus.Variant{
		"name":  dbus.MakeVariant("svc"),
		"count": dbus.MakeVariant(int32(3)),
	}
	out, ok := flatten(in).(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "svc", out["name"])
	assert.EqualValues(t, 3, out["count"])
}

func TestFlattenWalksSlices(t *testing.T) {
	in := []interface{}{dbus.MakeVariant("a"), dbus.MakeVariant("b")}
	out, ok := flatten(in).([]interface{})
	assert.True(t, ok)
	assert.Equal(t, []interface{}{"a", "b"}, out)
}
