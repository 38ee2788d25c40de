package analysis

// mergeHelp attaches help entries to the symbols a script defines.
func (w *Workspace) mergeHelp() {
	for _, id := range w.activeScripts() {
		h, ok := w.helpLinks[id]
		if !ok {
			continue
		}
		entries := make(map[string]*Symbol)
		for _, sym := range w.docs[h].PreprocSymbols() {
			entries[sym.Name] = sym
		}
		for _, sym := range w.docs[id].Symbols {
			if sym.Linked != nil {
				continue
			}
			if entry, ok := entries[sym.Name]; ok {
				sym.Linked = entry
			}
		}
	}
}

// builtinHelpSymbol finds a help entry of the standard commands by name.
func (w *Workspace) builtinHelpSymbol(name string) *Symbol {
	for _, id := range w.builtinHelp {
		for _, sym := range w.docs[id].PreprocSymbols() {
			if sym.Name == name {
				return sym
			}
		}
	}
	return nil
}
