package domain

// Value is a resolved entry of the variable pool. Render returns the textual
// form used for emission. An empty rendering is valid and distinct from the
// value being absent from the pool.
type Value interface {
	Render() string
}

// Text is the standard plain-text Value.
type Text string

// Render returns the text itself.
func (t Text) Render() string { return string(t) }
