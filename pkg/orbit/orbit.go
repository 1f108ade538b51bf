// Package orbit fetches the BBC Orbit navigation fragments (global header and
// footer markup), optionally rendering them as mustache templates.
package orbit

// Orbit is an immutable set of navigation fragments.
type Orbit struct {
	head      string
	bodyFirst string
	bodyLast  string
}

// New builds an Orbit.
func New(head, bodyFirst, bodyLast string) *Orbit {
	return &Orbit{head: head, bodyFirst: bodyFirst, bodyLast: bodyLast}
}

func (o *Orbit) Head() string      { return o.head }
func (o *Orbit) BodyFirst() string { return o.bodyFirst }
func (o *Orbit) BodyLast() string  { return o.bodyLast }
