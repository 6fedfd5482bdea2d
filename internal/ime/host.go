package ime

// Host receives display updates from a session. The IBus transport
// implements it by emitting engine signals.
type Host interface {
	UpdatePreedit(text Text, cursor int, visible bool, mode PreeditFocusMode)
	CommitText(text Text)

	UpdateAuxiliaryText(text Text, visible bool)
	ShowAuxiliaryText()
	HideAuxiliaryText()

	// UpdateLookupTable passes the engine's table by reference.
	UpdateLookupTable(table *LookupTable, visible bool)
	ShowLookupTable()
	HideLookupTable()

	RegisterProperties(props []Property)
	UpdateProperty(prop Property)
}
