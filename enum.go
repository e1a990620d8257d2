package denv

// Variant describes one arm of an enumeration type.
type Variant struct {
	// Name is the variant's declared name, exactly as it appears in the
	// input value.
	Name string
	// Unit is true when the variant carries no associated data. Only unit
	// variants can be decoded from an environment value.
	Unit bool
}

// UnitVariants builds a Variant list in which every arm is a unit variant.
func UnitVariants(names ...string) []Variant {
	vs := make([]Variant, len(names))
	for i, name := range names {
		vs[i] = Variant{Name: name, Unit: true}
	}
	return vs
}

// Enum is implemented by enumeration types that decode from a variant
// name. The value's text is resolved against Variants; on a match with a
// unit variant, UnmarshalVariant receives the matched name.
//
//	type Mode int
//
//	func (Mode) Variants() []denv.Variant {
//		return denv.UnitVariants("ON", "OFF")
//	}
//
//	func (m *Mode) UnmarshalVariant(name string) error {
//		switch name {
//		case "ON":
//			*m = ModeOn
//		case "OFF":
//			*m = ModeOff
//		}
//		return nil
//	}
type Enum interface {
	Variants() []Variant
	UnmarshalVariant(name string) error
}
