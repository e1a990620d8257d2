package denv

// Key wraps one raw variable name and resolves it as a field or variant
// identifier. Names carry no data of their own; the only extractions a
// key supports are textual.
type Key struct {
	raw string
}

// Text returns the name as UTF-8 text.
func (k Key) Text() (string, error) {
	return decodeText(k.raw)
}

// Identifier resolves the name as a field or variant identifier. The rule
// is the same as Text: a name that is not valid unicode cannot identify
// anything.
func (k Key) Identifier() (string, error) {
	return k.Text()
}

// String returns the name decoded lossily, for use in messages.
func (k Key) String() string {
	return lossy(k.raw)
}
