package nbtconv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
)

func testTree() *nbt.Compound {
	return nbt.NewCompound().
		Put("LevelName", nbt.String("My World")).
		Put("GameType", nbt.Int(1)).
		Put("NetherScale", nbt.Short(8)).
		Put("RandomSeed", nbt.Long(-6543210987654321)).
		Put("rainLevel", nbt.Float(0.25)).
		Put("reach", nbt.Double(4.5)).
		Put("commandsEnabled", nbt.Byte(1)).
		Put("icon", nbt.ByteArray{0x01, 0x02}).
		Put("chunk", nbt.IntArray{-1, 7}).
		Put("regions", nbt.LongArray{42}).
		Put("versions", nbt.NewList(nbt.TagInt, nbt.Int(1), nbt.Int(21))).
		Put("abilities", nbt.NewCompound().Put("mayfly", nbt.Byte(1)))
}

func TestMapGetters(t *testing.T) {
	t.Parallel()
	m := ToMap(testTree())

	b, ok := m.Uint8("commandsEnabled")
	require.True(t, ok)
	require.Equal(t, uint8(1), b)

	on, ok := m.Bool("commandsEnabled")
	require.True(t, ok)
	require.True(t, on)

	s, ok := m.Int16("NetherScale")
	require.True(t, ok)
	require.Equal(t, int16(8), s)

	i, ok := m.Int32("GameType")
	require.True(t, ok)
	require.Equal(t, int32(1), i)

	ii, ok := m.Int("GameType")
	require.True(t, ok)
	require.Equal(t, 1, ii)

	l, ok := m.Int64("RandomSeed")
	require.True(t, ok)
	require.Equal(t, int64(-6543210987654321), l)

	f, ok := m.Float32("rainLevel")
	require.True(t, ok)
	require.Equal(t, float32(0.25), f)

	d, ok := m.Float64("reach")
	require.True(t, ok)
	require.Equal(t, 4.5, d)

	str, ok := m.String("LevelName")
	require.True(t, ok)
	require.Equal(t, "My World", str)

	ba, ok := m.ByteArray("icon")
	require.True(t, ok)
	require.Equal(t, []byte{0x01, 0x02}, ba)

	ia, ok := m.Int32Array("chunk")
	require.True(t, ok)
	require.Equal(t, []int32{-1, 7}, ia)

	la, ok := m.Int64Array("regions")
	require.True(t, ok)
	require.Equal(t, []int64{42}, la)

	list, ok := m.List("versions")
	require.True(t, ok)
	require.Equal(t, []any{int32(1), int32(21)}, list)

	sub, ok := m.Map("abilities")
	require.True(t, ok)
	fly, ok := sub.Uint8("mayfly")
	require.True(t, ok)
	require.Equal(t, uint8(1), fly)

	_, ok = m.String("GameType")
	require.False(t, ok)
	_, ok = m.Int32("missing")
	require.False(t, ok)
}

func TestToMapKeepsFirstDuplicate(t *testing.T) {
	t.Parallel()
	c := nbt.NewCompound()
	c.Append("seed", nbt.Long(1))
	c.Append("seed", nbt.Long(2))
	m := ToMap(c)
	v, ok := m.Int64("seed")
	require.True(t, ok)
	require.Equal(t, int64(1), v)
}

func TestFromMapRoundTrip(t *testing.T) {
	t.Parallel()
	m := ToMap(testTree())
	c, err := FromMap(m)
	require.NoError(t, err)

	// Entry order is not preserved, compare the value model instead.
	require.Equal(t, m, ToMap(c))
}

func TestFromMapConveniences(t *testing.T) {
	t.Parallel()
	c, err := FromMap(Map{
		"flag":  true,
		"small": 7,
		"big":   int(1) << 40,
		"empty": []any{},
	})
	require.NoError(t, err)

	flag, ok := c.Byte("flag")
	require.True(t, ok)
	require.Equal(t, int8(1), flag)

	small, ok := c.Int("small")
	require.True(t, ok)
	require.Equal(t, int32(7), small)

	big, ok := c.Long("big")
	require.True(t, ok)
	require.Equal(t, int64(1)<<40, big)

	empty, ok := c.List("empty")
	require.True(t, ok)
	require.Equal(t, nbt.TagEnd, empty.ElementKind())
	require.Equal(t, 0, empty.Len())
}

func TestFromMapRejectsMixedList(t *testing.T) {
	t.Parallel()
	_, err := FromMap(Map{"l": []any{int32(1), "two"}})
	require.Error(t, err)
}

// TestDecodeMapInterop cross-checks the tag tree codec against the
// independent gophertunnel codec on the same bytes.
func TestDecodeMapInterop(t *testing.T) {
	t.Parallel()
	for _, enc := range []nbt.Encoding{nbt.BigEndian, nbt.LittleEndian} {
		data, err := nbt.Encode(nbt.Root{Compound: testTree()}, enc)
		require.NoError(t, err)

		m, err := DecodeMap(data, enc)
		require.NoError(t, err)
		require.Equal(t, ToMap(testTree()), m, "codecs disagree under %s", enc)

		// The map survives a trip through gophertunnel's encoder and back
		// through the tag tree decoder.
		data2, err := EncodeMap(m, enc)
		require.NoError(t, err)
		root, _, err := nbt.Decode(data2, enc)
		require.NoError(t, err)
		require.Equal(t, m, ToMap(root.Compound))
	}
}
