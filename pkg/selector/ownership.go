package selector

// openOwner decides who holds the open flag. It is chosen once in New.
type openOwner interface {
	isOpen() bool
	// request records a change asked for by the controller and reports
	// whether the controller should apply it itself.
	request(open bool) bool
	// sync records a flag pushed by the host and reports whether it
	// changed.
	sync(open bool) bool
}

// ownedOpen: the controller is the source of truth.
type ownedOpen struct {
	open bool
}

func (o *ownedOpen) isOpen() bool { return o.open }

func (o *ownedOpen) request(open bool) bool {
	if o.open == open {
		return false
	}
	o.open = open
	return true
}

func (o *ownedOpen) sync(bool) bool { return false }

// hostOpen: the host owns the flag; requests are only reported.
type hostOpen struct {
	open bool
}

func (h *hostOpen) isOpen() bool { return h.open }

func (h *hostOpen) request(bool) bool { return false }

func (h *hostOpen) sync(open bool) bool {
	if h.open == open {
		return false
	}
	h.open = open
	return true
}
