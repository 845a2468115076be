package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type notifier interface{ Notify() }

type impl struct{}

func (*impl) Notify() {}

func TestNotNil(t *testing.T) {
	require.NotPanics(t, func() { NotNil("value", &impl{}) })
	require.Panics(t, func() { NotNil("value", nil) })

	var typed *impl
	var iface notifier = typed
	require.PanicsWithValue(t, "expected notifier to be not nil", func() {
		NotNil("notifier", iface)
	})
}

func TestNotEmptyStr(t *testing.T) {
	require.NotPanics(t, func() { NotEmptyStr("code", "10651101") })
	require.Panics(t, func() { NotEmptyStr("code", "") })
}
