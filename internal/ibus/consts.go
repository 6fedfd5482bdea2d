//go:build linux

package ibus

// IBus D-Bus constants
const (
	IBusService          = "org.freedesktop.IBus"
	IBusPath             = "/org/freedesktop/IBus"
	IBusFactoryInterface = "org.freedesktop.IBus.Factory"
	IBusEngineInterface  = "org.freedesktop.IBus.Engine"
	IBusServiceInterface = "org.freedesktop.IBus.Service"
	IBusFactoryPath      = "/org/freedesktop/IBus/Factory"
	IBusEnginePathPrefix = "/org/freedesktop/IBus/Engine/"

	ZhuyinBusName       = "org.freedesktop.IBus.Zhuyin"
	ZhuyinEngineName    = "zhuyin"
	ZhuyinEngineVersion = "1.0.0"
)

// IBus serialisable type names.
const (
	typeText        = "IBusText"
	typeAttrList    = "IBusAttrList"
	typeAttribute   = "IBusAttribute"
	typeLookupTable = "IBusLookupTable"
	typeProperty    = "IBusProperty"
	typePropList    = "IBusPropList"
)

// IBusProperty types and states.
const (
	propTypeNormal     uint32 = 0
	propStateUnchecked uint32 = 0
)

// Lookup table orientation: let the panel decide.
const orientationSystem int32 = 2
