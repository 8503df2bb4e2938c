// Package mouse decodes terminal mouse reports into discrete mouse events.
//
// Terminals report the set of buttons held at the moment of each report
// rather than press and release transitions. A Decoder remembers the
// previous report and derives the transitions:
//
//   - Press: a button appears in the held set
//   - Release: the held button disappears from the held set
//   - Drag: the pointer moves while a button is held
//   - Move: the pointer moves with no button held
//
// Wheel reports never change the held set. They decode to a press of one of
// the scroll buttons and can be turned into a ScrollEvent with
// ParseScrollEvent:
//
//	dec := mouse.NewDecoder()
//	for _, ev := range dec.DecodeTcell(tev) {
//	    if s := mouse.ParseScrollEvent(ev, cfg); s != nil {
//	        view.ScrollBy(s.Delta())
//	        continue
//	    }
//	    dispatch(ev)
//	}
//
// # Thread Safety
//
// Decoder is safe for concurrent use.
package mouse
