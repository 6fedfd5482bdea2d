//go:build linux

package ibus

import (
	"github.com/godbus/dbus/v5"

	"zhuyin/internal/ime"
)

// IBus objects travel as structs whose first two fields are the type name
// and an attachment dictionary, always wrapped in a variant.

type ibusAttribute struct {
	Name        string
	Attachments map[string]dbus.Variant
	Type        uint32
	Value       uint32
	Start       uint32
	End         uint32
}

type ibusAttrList struct {
	Name        string
	Attachments map[string]dbus.Variant
	Attributes  []dbus.Variant
}

type ibusText struct {
	Name        string
	Attachments map[string]dbus.Variant
	Text        string
	AttrList    dbus.Variant
}

type ibusLookupTable struct {
	Name          string
	Attachments   map[string]dbus.Variant
	PageSize      uint32
	CursorPos     uint32
	CursorVisible bool
	Round         bool
	Orientation   int32
	Candidates    []dbus.Variant
	Labels        []dbus.Variant
}

type ibusProperty struct {
	Name        string
	Attachments map[string]dbus.Variant
	Key         string
	Type        uint32
	Label       dbus.Variant
	Icon        string
	Tooltip     dbus.Variant
	Sensitive   bool
	Visible     bool
	State       uint32
	SubProps    dbus.Variant
	Symbol      dbus.Variant
}

type ibusPropList struct {
	Name        string
	Attachments map[string]dbus.Variant
	Properties  []dbus.Variant
}

func noAttachments() map[string]dbus.Variant {
	return map[string]dbus.Variant{}
}

// textVariant serialises t with its attributes.
func textVariant(t ime.Text) dbus.Variant {
	attrs := t.Attributes()
	list := ibusAttrList{Name: typeAttrList, Attachments: noAttachments(), Attributes: make([]dbus.Variant, 0, len(attrs))}
	for _, a := range attrs {
		list.Attributes = append(list.Attributes, dbus.MakeVariant(ibusAttribute{
			Name:        typeAttribute,
			Attachments: noAttachments(),
			Type:        uint32(a.Type),
			Value:       a.Value,
			Start:       uint32(a.Start),
			End:         uint32(a.End),
		}))
	}
	return dbus.MakeVariant(ibusText{
		Name:        typeText,
		Attachments: noAttachments(),
		Text:        t.String(),
		AttrList:    dbus.MakeVariant(list),
	})
}

func plainTextVariant(s string) dbus.Variant {
	return textVariant(ime.NewText(s))
}

func lookupTableVariant(lt *ime.LookupTable) dbus.Variant {
	if lt == nil {
		lt = &ime.LookupTable{}
	}
	tbl := ibusLookupTable{
		Name:          typeLookupTable,
		Attachments:   noAttachments(),
		PageSize:      uint32(lt.PageSize),
		CursorPos:     uint32(lt.CursorPos),
		CursorVisible: lt.CursorVisible,
		Round:         lt.Round,
		Orientation:   orientationSystem,
		Candidates:    make([]dbus.Variant, 0, len(lt.Candidates)),
		Labels:        make([]dbus.Variant, 0, len(lt.Labels)),
	}
	for _, c := range lt.Candidates {
		tbl.Candidates = append(tbl.Candidates, plainTextVariant(c))
	}
	for _, l := range lt.Labels {
		tbl.Labels = append(tbl.Labels, plainTextVariant(l))
	}
	return dbus.MakeVariant(tbl)
}

func propertyStruct(p ime.Property) ibusProperty {
	return ibusProperty{
		Name:        typeProperty,
		Attachments: noAttachments(),
		Key:         p.Key,
		Type:        propTypeNormal,
		Label:       plainTextVariant(p.Label),
		Tooltip:     plainTextVariant(p.Tooltip),
		Sensitive:   p.Sensitive,
		Visible:     p.Visible,
		State:       propStateUnchecked,
		SubProps:    dbus.MakeVariant(ibusPropList{Name: typePropList, Attachments: noAttachments(), Properties: []dbus.Variant{}}),
		Symbol:      plainTextVariant(p.Symbol),
	}
}

func propertyVariant(p ime.Property) dbus.Variant {
	return dbus.MakeVariant(propertyStruct(p))
}

func propListVariant(props []ime.Property) dbus.Variant {
	list := ibusPropList{Name: typePropList, Attachments: noAttachments(), Properties: make([]dbus.Variant, 0, len(props))}
	for _, p := range props {
		list.Properties = append(list.Properties, propertyVariant(p))
	}
	return dbus.MakeVariant(list)
}
