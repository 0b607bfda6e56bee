package formats

import _ "embed"

//go:embed models/dwarf.geo.json
var dwarfGeo []byte

// DwarfGeo returns the built-in dwarf geometry used when no model is given.
func DwarfGeo() []byte {
	out := make([]byte, len(dwarfGeo))
	copy(out, dwarfGeo)
	return out
}
