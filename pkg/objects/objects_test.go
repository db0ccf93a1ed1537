package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokva/dlisio/pkg/codec"
	"github.com/jokva/dlisio/pkg/dliserr"
)

// payload builders in the shape the component stream actually has

func setHeader(enc *codec.Encoder, typ, name codec.Ident) {
	flags := uint8(setType)
	if name != "" {
		flags |= setName
	}
	enc.PutUShort(roleSet<<5 | flags)
	enc.PutIdent(typ)
	if name != "" {
		enc.PutIdent(name)
	}
}

func templateAttr(enc *codec.Encoder, label codec.Ident, count uint32, reprc codec.RepCode) {
	enc.PutUShort(roleAttribute<<5 | attrLabel | attrCount | attrRepC)
	enc.PutIdent(label)
	enc.PutUVari(count)
	enc.PutUShort(uint8(reprc))
}

func object(enc *codec.Encoder, name codec.ObName) {
	enc.PutUShort(roleObject<<5 | objectName)
	enc.PutObName(name)
}

func TestParseFrameSet(t *testing.T) {
	var enc codec.Encoder
	setHeader(&enc, "FRAME", "")
	templateAttr(&enc, "CHANNEL", 1, codec.OBNAME)
	templateAttr(&enc, "DESCRIPTION", 1, codec.ASCII)
	object(&enc, codec.ObName{Origin: 2, Copy: 0, ID: "FRAME1"})

	ch1 := codec.ObName{Origin: 2, Copy: 0, ID: "CH1"}
	enc.PutUShort(roleAttribute<<5 | attrValue)
	enc.PutObName(ch1)
	enc.PutUShort(roleAttribute<<5 | attrValue)
	enc.PutASCII("primary")

	set, err := Parse(enc.Bytes())
	require.NoError(t, err)

	assert.Equal(t, codec.Ident("FRAME"), set.Type)
	assert.Equal(t, codec.Ident(""), set.Name)
	assert.False(t, set.Inconsistent)
	require.Len(t, set.Template, 2)
	require.Len(t, set.Objects, 1)

	obj := set.Objects[0]
	assert.Equal(t, codec.ObName{Origin: 2, Copy: 0, ID: "FRAME1"}, obj.Name)
	require.Len(t, obj.Attributes, 2)

	assert.Equal(t, codec.Ident("CHANNEL"), obj.Attributes[0].Label)
	require.Len(t, obj.Attributes[0].Value, 1)
	assert.Equal(t, ch1, obj.Attributes[0].Value[0].V)

	assert.Equal(t, codec.Ident("DESCRIPTION"), obj.Attributes[1].Label)
	require.Len(t, obj.Attributes[1].Value, 1)
	assert.Equal(t, "primary", obj.Attributes[1].Value[0].V)
}

func TestParseNamedSetAndDefaults(t *testing.T) {
	var enc codec.Encoder
	setHeader(&enc, "EQUIPMENT", "RIG")

	// label-only template attribute: count and reprc take their defaults
	enc.PutUShort(roleAttribute<<5 | attrLabel)
	enc.PutIdent("SERIAL")

	object(&enc, codec.ObName{Origin: 1, Copy: 0, ID: "E1"})
	enc.PutUShort(roleAttribute<<5 | attrValue)
	enc.PutIdent("X-100")

	set, err := Parse(enc.Bytes())
	require.NoError(t, err)

	assert.Equal(t, codec.Ident("EQUIPMENT"), set.Type)
	assert.Equal(t, codec.Ident("RIG"), set.Name)

	require.Len(t, set.Template, 1)
	assert.Equal(t, 1, set.Template[0].Count)
	assert.Equal(t, codec.IDENT, set.Template[0].RepC)
	assert.Nil(t, set.Template[0].Value)

	require.Len(t, set.Objects, 1)
	attr := set.Objects[0].Attributes[0]
	assert.Equal(t, codec.Ident("SERIAL"), attr.Label)
	require.Len(t, attr.Value, 1)
	assert.Equal(t, codec.Ident("X-100"), attr.Value[0].V)
}

func TestObjectInheritsTemplateSlot(t *testing.T) {
	var enc codec.Encoder
	setHeader(&enc, "CHANNEL", "")

	// template binds label, count, reprc, units and a value
	enc.PutUShort(roleAttribute<<5 | attrLabel | attrCount | attrRepC | attrUnits | attrValue)
	enc.PutIdent("OFFSET")
	enc.PutUVari(1)
	enc.PutUShort(uint8(codec.FSINGL))
	enc.PutUnits("m")
	enc.PutFSingl(0.5)

	// first object says nothing: the slot is the template's
	object(&enc, codec.ObName{Origin: 1, Copy: 0, ID: "GR"})

	// second object overrides only the value
	object(&enc, codec.ObName{Origin: 1, Copy: 0, ID: "RHOB"})
	enc.PutUShort(roleAttribute<<5 | attrValue)
	enc.PutFSingl(1.25)

	set, err := Parse(enc.Bytes())
	require.NoError(t, err)
	require.Len(t, set.Objects, 2)

	gr := set.Objects[0].Attributes[0]
	assert.Equal(t, codec.Units("m"), gr.Units)
	require.Len(t, gr.Value, 1)
	assert.Equal(t, float32(0.5), gr.Value[0].V)

	rhob := set.Objects[1].Attributes[0]
	assert.Equal(t, codec.Units("m"), rhob.Units)
	assert.Equal(t, codec.FSINGL, rhob.RepC)
	require.Len(t, rhob.Value, 1)
	assert.Equal(t, float32(1.25), rhob.Value[0].V)
}

func TestAbsentAttributeAdvancesSlot(t *testing.T) {
	var enc codec.Encoder
	setHeader(&enc, "TOOL", "")
	templateAttr(&enc, "STATUS", 1, codec.STATUS)
	templateAttr(&enc, "SERIAL", 1, codec.IDENT)

	object(&enc, codec.ObName{Origin: 1, Copy: 0, ID: "T1"})
	enc.PutUShort(roleAbsent << 5)
	enc.PutUShort(roleAttribute<<5 | attrValue)
	enc.PutIdent("S-1")

	set, err := Parse(enc.Bytes())
	require.NoError(t, err)
	require.Len(t, set.Objects, 1)

	attrs := set.Objects[0].Attributes
	assert.Nil(t, attrs[0].Value, "absent slot carries no value")
	assert.Equal(t, codec.Ident("STATUS"), attrs[0].Label)
	require.Len(t, attrs[1].Value, 1)
	assert.Equal(t, codec.Ident("S-1"), attrs[1].Value[0].V)
}

func TestMultiValueAttribute(t *testing.T) {
	var enc codec.Encoder
	setHeader(&enc, "FRAME", "")
	templateAttr(&enc, "CHANNELS", 1, codec.OBNAME)

	object(&enc, codec.ObName{Origin: 1, Copy: 0, ID: "F"})
	enc.PutUShort(roleAttribute<<5 | attrCount | attrValue)
	enc.PutUVari(3)
	enc.PutObName(codec.ObName{Origin: 1, Copy: 0, ID: "A"})
	enc.PutObName(codec.ObName{Origin: 1, Copy: 0, ID: "B"})
	enc.PutObName(codec.ObName{Origin: 1, Copy: 0, ID: "C"})

	set, err := Parse(enc.Bytes())
	require.NoError(t, err)

	attr := set.Objects[0].Attributes[0]
	assert.Equal(t, 3, attr.Count)
	require.Len(t, attr.Value, 3)
	assert.Equal(t, codec.ObName{Origin: 1, Copy: 0, ID: "B"}, attr.Value[1].V)
}

func TestInvariantOverrideIsSoftWarning(t *testing.T) {
	var enc codec.Encoder
	setHeader(&enc, "TOOL", "")

	enc.PutUShort(roleInvariant<<5 | attrLabel | attrRepC | attrValue)
	enc.PutIdent("VERSION")
	enc.PutUShort(uint8(codec.UNORM))
	enc.PutUNorm(2)

	object(&enc, codec.ObName{Origin: 1, Copy: 0, ID: "T1"})
	enc.PutUShort(roleAttribute<<5 | attrRepC | attrValue)
	enc.PutUShort(uint8(codec.ULONG))
	enc.PutULong(7)

	set, err := Parse(enc.Bytes())
	require.NoError(t, err, "contradicting an invariant binding is not fatal")
	assert.True(t, set.Inconsistent)

	attr := set.Objects[0].Attributes[0]
	assert.Equal(t, codec.ULONG, attr.RepC)
	require.Len(t, attr.Value, 1)
	assert.Equal(t, uint32(7), attr.Value[0].V)
}

func TestTemplateOverrun(t *testing.T) {
	var enc codec.Encoder
	setHeader(&enc, "TOOL", "")
	templateAttr(&enc, "ONLY", 1, codec.IDENT)

	object(&enc, codec.ObName{Origin: 1, Copy: 0, ID: "T1"})
	enc.PutUShort(roleAttribute<<5 | attrValue)
	enc.PutIdent("a")
	enc.PutUShort(roleAttribute<<5 | attrValue)
	enc.PutIdent("b")

	_, err := Parse(enc.Bytes())
	assert.ErrorIs(t, err, dliserr.Inconsistent)
}

func TestBadDescriptors(t *testing.T) {
	t.Run("payload must start with a set", func(t *testing.T) {
		var enc codec.Encoder
		enc.PutUShort(roleAttribute<<5 | attrLabel)
		enc.PutIdent("X")
		_, err := Parse(enc.Bytes())
		assert.ErrorIs(t, err, dliserr.UnexpectedValue)
	})

	t.Run("reserved role", func(t *testing.T) {
		var enc codec.Encoder
		setHeader(&enc, "TOOL", "")
		enc.PutUShort(roleReserved << 5)
		_, err := Parse(enc.Bytes())
		assert.ErrorIs(t, err, dliserr.UnexpectedValue)
	})

	t.Run("second set in payload", func(t *testing.T) {
		var enc codec.Encoder
		setHeader(&enc, "TOOL", "")
		setHeader(&enc, "FRAME", "")
		_, err := Parse(enc.Bytes())
		assert.ErrorIs(t, err, dliserr.UnexpectedValue)
	})

	t.Run("absent attribute inside template", func(t *testing.T) {
		var enc codec.Encoder
		setHeader(&enc, "TOOL", "")
		enc.PutUShort(roleAbsent << 5)
		_, err := Parse(enc.Bytes())
		assert.ErrorIs(t, err, dliserr.UnexpectedValue)
	})
}

func TestTruncatedPayload(t *testing.T) {
	var enc codec.Encoder
	setHeader(&enc, "FRAME", "")
	templateAttr(&enc, "DESCRIPTION", 1, codec.ASCII)
	object(&enc, codec.ObName{Origin: 1, Copy: 0, ID: "F"})
	enc.PutUShort(roleAttribute<<5 | attrValue)
	enc.PutUVari(40) // claims 40 bytes of ascii, provides none

	_, err := Parse(enc.Bytes())
	assert.ErrorIs(t, err, dliserr.Truncated)
}

func TestRedundantSetHeader(t *testing.T) {
	var enc codec.Encoder
	flags := uint8(setType)
	enc.PutUShort(roleRDSet<<5 | flags)
	enc.PutIdent("ORIGIN")

	set, err := Parse(enc.Bytes())
	require.NoError(t, err)
	assert.Equal(t, codec.Ident("ORIGIN"), set.Type)
	assert.Empty(t, set.Objects)
}
