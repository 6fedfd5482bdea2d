package ime

// Property names known to the engine.
const (
	PropInputMode = "InputMode"
	PropAlnumSize = "AlnumSize"
	PropSetup     = "setup_prop"
)

// Property is a language-bar entry.
type Property struct {
	Key       string
	Label     string
	Tooltip   string
	Symbol    string
	Sensitive bool
	Visible   bool
}

const (
	labelChinese   = "Switch to Alphanumeric Mode"
	labelEnglish   = "Switch to Chinese Mode"
	labelFullWidth = "Fullwidth Form"
	labelHalfWidth = "Halfwidth Form"

	symbolChinese   = "中"
	symbolEnglish   = "英"
	symbolFullWidth = "全"
	symbolHalfWidth = "半"
	symbolSetup     = "訂"
)

// PropertySet holds the three properties of a session in display order.
type PropertySet struct {
	InputMode Property
	AlnumSize Property
	Setup     Property
}

func newPropertySet() PropertySet {
	return PropertySet{
		InputMode: Property{
			Key:       PropInputMode,
			Label:     labelChinese,
			Tooltip:   "Click to toggle Chinese/Alphanumeric Mode",
			Sensitive: true,
			Visible:   true,
		},
		AlnumSize: Property{
			Key:       PropAlnumSize,
			Label:     labelHalfWidth,
			Tooltip:   "Click to toggle Halfwidth/Fullwidth Form",
			Sensitive: true,
			Visible:   true,
		},
		Setup: Property{
			Key:       PropSetup,
			Label:     "Zhuyin Preferences",
			Tooltip:   "Click to configure Zhuyin",
			Sensitive: true,
			Visible:   true,
		},
	}
}

// Lookup returns the property with the given key, or nil.
func (ps *PropertySet) Lookup(name string) *Property {
	switch name {
	case PropInputMode:
		return &ps.InputMode
	case PropAlnumSize:
		return &ps.AlnumSize
	case PropSetup:
		return &ps.Setup
	}
	return nil
}

// List returns copies of the properties in display order.
func (ps *PropertySet) List() []Property {
	return []Property{ps.InputMode, ps.AlnumSize, ps.Setup}
}

func (ps *PropertySet) setVisible(visible bool) {
	ps.InputMode.Visible = visible
	ps.AlnumSize.Visible = visible
	ps.Setup.Visible = visible
}

func (ps *PropertySet) applyInputMode(chinese bool) {
	if chinese {
		ps.InputMode.Label, ps.InputMode.Symbol = labelChinese, symbolChinese
	} else {
		ps.InputMode.Label, ps.InputMode.Symbol = labelEnglish, symbolEnglish
	}
}

func (ps *PropertySet) applyAlnumSize(full bool) {
	if full {
		ps.AlnumSize.Label, ps.AlnumSize.Symbol = labelFullWidth, symbolFullWidth
	} else {
		ps.AlnumSize.Label, ps.AlnumSize.Symbol = labelHalfWidth, symbolHalfWidth
	}
}
