// Package objects parses explicitly-formatted logical record payloads into
// object sets.
//
// An explicit payload is a stream of components. Every component starts
// with a one-byte descriptor: the top three bits are the component role,
// the low five bits say which of the role's fields follow. A payload holds
// exactly one set: the set header, a template of attribute slots, then the
// objects, each followed by the attributes that override its template
// slots positionally.
package objects

import (
	"github.com/jokva/dlisio/pkg/codec"
	"github.com/jokva/dlisio/pkg/dliserr"
)

// Component roles, from the top three descriptor bits.
const (
	roleAbsent    = 0x0 // advances an object's slot without binding
	roleInvariant = 0x1 // template attribute whose value binds globally
	roleAttribute = 0x2
	roleObject    = 0x3
	roleReserved  = 0x4
	roleRDSet     = 0x5 // redundant set
	roleRSet      = 0x6 // replacement set
	roleSet       = 0x7
)

// Field presence flags. Set descriptors use type/name; attribute
// descriptors use label/count/reprc/units/value; object descriptors use
// name only.
const (
	setType = 0x10
	setName = 0x08

	attrLabel = 0x10
	attrCount = 0x08
	attrRepC  = 0x04
	attrUnits = 0x02
	attrValue = 0x01

	objectName = 0x10
)

// Attribute is one attribute slot: either a template slot or an object's
// positional override of it. Value is nil for absent slots.
type Attribute struct {
	Label     codec.Ident
	Count     int
	RepC      codec.RepCode
	Units     codec.Units
	Value     []codec.Value
	Invariant bool
}

// Object is a named instance; Attributes aligns with the set's template.
type Object struct {
	Name       codec.ObName
	Attributes []Attribute
}

// ObjectSet is one parsed set: its type, optional name, template and
// objects. Inconsistent is a soft warning: the payload parsed, but an
// object contradicted an invariant binding.
type ObjectSet struct {
	Type         codec.Ident
	Name         codec.Ident
	Template     []Attribute
	Objects      []Object
	Inconsistent bool
}

// defaultAttribute is the slot value before any field is given: count 1,
// representation code ident.
func defaultAttribute() Attribute {
	return Attribute{Count: 1, RepC: codec.IDENT}
}

// parseAttributeInto reads the fields selected by flags over base. The
// fixed field order is label, count, reprc, units, value; value reads
// count elements of reprc, with both taken after any overrides.
func parseAttributeInto(cur *codec.Cursor, flags uint8, base Attribute) (Attribute, error) {
	attr := base
	attr.Value = base.Value
	var err error

	if flags&attrLabel != 0 {
		if attr.Label, err = cur.Ident(); err != nil {
			return attr, err
		}
	}
	if flags&attrCount != 0 {
		n, err := cur.UVari()
		if err != nil {
			return attr, err
		}
		attr.Count = int(n)
	}
	if flags&attrRepC != 0 {
		r, err := cur.UShort()
		if err != nil {
			return attr, err
		}
		attr.RepC = codec.RepCode(r)
	}
	if flags&attrUnits != 0 {
		if attr.Units, err = cur.Units(); err != nil {
			return attr, err
		}
	}
	if flags&attrValue != 0 {
		if !attr.RepC.Valid() {
			return attr, dliserr.At(dliserr.UnexpectedValue, int64(cur.Pos()),
				"attribute %q has undefined representation code %d",
				string(attr.Label), uint8(attr.RepC))
		}
		if attr.Value, err = codec.DecodeValues(cur, attr.RepC, attr.Count); err != nil {
			return attr, err
		}
	}
	return attr, nil
}

// Parse decodes one object set from an explicitly-formatted record payload.
func Parse(data []byte) (*ObjectSet, error) {
	cur := codec.NewCursor(data)
	set := &ObjectSet{}

	desc, err := cur.UShort()
	if err != nil {
		return nil, err
	}
	role := desc >> 5
	flags := desc & 0x1F

	if role != roleSet && role != roleRSet && role != roleRDSet {
		return nil, dliserr.At(dliserr.UnexpectedValue, 0,
			"payload does not begin with a set component (role %d)", role)
	}
	if flags&setType != 0 {
		if set.Type, err = cur.Ident(); err != nil {
			return nil, err
		}
	}
	if flags&setName != 0 {
		if set.Name, err = cur.Ident(); err != nil {
			return nil, err
		}
	}

	inTemplate := true
	var current *Object

	flush := func() {
		if current != nil {
			set.Objects = append(set.Objects, *current)
			current = nil
		}
	}

	slot := 0
	for !cur.Done() {
		at := int64(cur.Pos())
		desc, err := cur.UShort()
		if err != nil {
			return nil, err
		}
		role := desc >> 5
		flags := desc & 0x1F

		switch role {
		case roleInvariant, roleAttribute:
			if inTemplate {
				attr, err := parseAttributeInto(cur, flags, defaultAttribute())
				if err != nil {
					return nil, err
				}
				attr.Invariant = role == roleInvariant
				set.Template = append(set.Template, attr)
				continue
			}

			if slot >= len(set.Template) {
				return nil, dliserr.At(dliserr.Inconsistent, at,
					"object %s has more attributes than the %d template slots",
					current.Name, len(set.Template))
			}
			tmpl := set.Template[slot]
			if tmpl.Invariant && flags&attrRepC != 0 {
				// contradicting an invariant binding is suspicious
				// but recoverable; keep the override and flag it
				set.Inconsistent = true
			}
			attr, err := parseAttributeInto(cur, flags, tmpl)
			if err != nil {
				return nil, err
			}
			current.Attributes[slot] = attr
			slot++

		case roleAbsent:
			if inTemplate {
				return nil, dliserr.At(dliserr.UnexpectedValue, at,
					"absent-attribute component inside the template")
			}
			if slot >= len(set.Template) {
				return nil, dliserr.At(dliserr.Inconsistent, at,
					"object %s has more attributes than the %d template slots",
					current.Name, len(set.Template))
			}
			absent := set.Template[slot]
			absent.Value = nil
			current.Attributes[slot] = absent
			slot++

		case roleObject:
			inTemplate = false
			flush()

			obj := Object{Attributes: make([]Attribute, len(set.Template))}
			copy(obj.Attributes, set.Template)
			if flags&objectName != 0 {
				if obj.Name, err = cur.ObName(); err != nil {
					return nil, err
				}
			}
			current = &obj
			slot = 0

		case roleSet, roleRSet, roleRDSet:
			return nil, dliserr.At(dliserr.UnexpectedValue, at,
				"second set component (role %d) inside a payload", role)

		default:
			return nil, dliserr.At(dliserr.UnexpectedValue, at,
				"undefined component role %d", role)
		}
	}

	flush()
	return set, nil
}
