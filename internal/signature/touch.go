package signature

// TouchStart handles a touch-contact start. Only the first active contact is
// tracked; extra simultaneous contacts are ignored.
func (p *Pad) TouchStart(touches ...Point) bool { return p.PointerDown(touches...) }

// TouchMove handles movement of the active contacts.
func (p *Pad) TouchMove(touches ...Point) bool { return p.PointerMove(touches...) }

// TouchEnd handles the end of a touch contact.
func (p *Pad) TouchEnd() { p.PointerUp() }
