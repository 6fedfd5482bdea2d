//go:build linux

package ibus

import (
	"log/slog"

	"github.com/godbus/dbus/v5"

	"zhuyin/internal/ime"
)

// emitter sends D-Bus signals. *dbus.Conn satisfies it.
type emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

// signalHost implements ime.Host by emitting IBus engine signals from one
// engine object path.
type signalHost struct {
	conn emitter
	path dbus.ObjectPath
	log  *slog.Logger
}

var _ ime.Host = (*signalHost)(nil)

func (h *signalHost) emit(member string, values ...interface{}) {
	if err := h.conn.Emit(h.path, IBusEngineInterface+"."+member, values...); err != nil {
		h.log.Warn("emit signal failed", "signal", member, "error", err)
	}
}

func (h *signalHost) UpdatePreedit(text ime.Text, cursor int, visible bool, mode ime.PreeditFocusMode) {
	h.emit("UpdatePreeditText", textVariant(text), uint32(cursor), visible, uint32(mode))
}

func (h *signalHost) CommitText(text ime.Text) {
	h.emit("CommitText", textVariant(text))
}

func (h *signalHost) UpdateAuxiliaryText(text ime.Text, visible bool) {
	h.emit("UpdateAuxiliaryText", textVariant(text), visible)
}

func (h *signalHost) ShowAuxiliaryText() { h.emit("ShowAuxiliaryText") }

func (h *signalHost) HideAuxiliaryText() { h.emit("HideAuxiliaryText") }

func (h *signalHost) UpdateLookupTable(table *ime.LookupTable, visible bool) {
	h.emit("UpdateLookupTable", lookupTableVariant(table), visible)
}

func (h *signalHost) ShowLookupTable() { h.emit("ShowLookupTable") }

func (h *signalHost) HideLookupTable() { h.emit("HideLookupTable") }

func (h *signalHost) RegisterProperties(props []ime.Property) {
	h.emit("RegisterProperties", propListVariant(props))
}

func (h *signalHost) UpdateProperty(prop ime.Property) {
	h.emit("UpdateProperty", propertyVariant(prop))
}
