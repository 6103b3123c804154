package token

import "bytes"

// CollapseSpace trims the source and folds every whitespace run, new lines
// included, into a single space.
func CollapseSpace(source []byte) []byte {
	return bytes.Join(bytes.Fields(source), []byte{SPACE})
}
