package nbt

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/require"
)

// goldenBE is the big-endian encoding of a document with an empty root name
// containing a single Short entry "health" with value 20.
var goldenBE = []byte{
	0x0A,       // Compound
	0x00, 0x00, // root name ""
	0x02,       // Short
	0x00, 0x06, // name length 6
	'h', 'e', 'a', 'l', 't', 'h',
	0x00, 0x14, // 20
	0x00, // End
}

// goldenLE is the same document in Bedrock body byte order.
var goldenLE = []byte{
	0x0A,
	0x00, 0x00,
	0x02,
	0x06, 0x00,
	'h', 'e', 'a', 'l', 't', 'h',
	0x14, 0x00,
	0x00,
}

func goldenRoot() Root {
	return Root{Compound: NewCompound().Put("health", Short(20))}
}

func TestEncodeGolden(t *testing.T) {
	t.Parallel()
	out, err := Encode(goldenRoot(), BigEndian)
	require.NoError(t, err)
	require.Equal(t, goldenBE, out)

	out, err = Encode(goldenRoot(), LittleEndian)
	require.NoError(t, err)
	require.Equal(t, goldenLE, out)
}

func TestDecodeGolden(t *testing.T) {
	t.Parallel()
	root, n, err := Decode(goldenBE, BigEndian)
	require.NoError(t, err)
	require.Equal(t, len(goldenBE), n)
	require.True(t, root.Equal(goldenRoot()))

	root, n, err = Decode(goldenLE, LittleEndian)
	require.NoError(t, err)
	require.Equal(t, len(goldenLE), n)
	require.True(t, root.Equal(goldenRoot()))
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	t.Parallel()
	data := append(append([]byte{}, goldenBE...), 0xDE, 0xAD, 0xBE, 0xEF)
	root, n, err := Decode(data, BigEndian)
	require.NoError(t, err)
	require.Equal(t, len(goldenBE), n)
	require.True(t, root.Equal(goldenRoot()))
}

// kitchenSink builds a document using every tag kind.
func kitchenSink() Root {
	abilities := NewCompound().
		Put("mayfly", Byte(1)).
		Put("flySpeed", Float(0.05)).
		Put("walkSpeed", Float(0.1))
	c := NewCompound().
		Put("LevelName", String("My World")).
		Put("GameType", Int(1)).
		Put("Difficulty", Int(2)).
		Put("RandomSeed", Long(-6543210987654321)).
		Put("rainLevel", Float(0.25)).
		Put("lightningLevel", Double(0.125)).
		Put("commandsEnabled", Byte(0)).
		Put("NetherScale", Short(8)).
		Put("icon", ByteArray{0x00, 0x7F, 0xFF, 0x80}).
		Put("abilities", abilities).
		Put("lastOpenedWithVersion", NewList(TagInt, Int(1), Int(21), Int(44), Int(0), Int(0))).
		Put("packs", NewList(TagCompound,
			NewCompound().Put("pack_id", String("core")),
			NewCompound().Put("pack_id", String("vanilla")),
		)).
		Put("emptyList", NewList(TagEnd)).
		Put("chunk", IntArray{-1, 0, 1, math.MaxInt32, math.MinInt32}).
		Put("regions", LongArray{-1, 0, math.MaxInt64, math.MinInt64}).
		Put("", String("unnamed entry"))
	return Root{Name: "", Compound: c}
}

func TestRoundTripTreeToBytes(t *testing.T) {
	t.Parallel()
	for _, enc := range []Encoding{BigEndian, LittleEndian} {
		data, err := Encode(kitchenSink(), enc)
		require.NoError(t, err)

		root, n, err := Decode(data, enc)
		require.NoError(t, err, "encoding %s", enc)
		require.Equal(t, len(data), n)
		require.True(t, root.Equal(kitchenSink()), "decoded tree differs under %s", enc)

		again, err := Encode(root, enc)
		require.NoError(t, err)
		require.Equal(t, data, again, "re-encoding differs under %s", enc)
	}
}

func TestEncodingsDiffer(t *testing.T) {
	t.Parallel()
	be, err := Encode(kitchenSink(), BigEndian)
	require.NoError(t, err)
	le, err := Encode(kitchenSink(), LittleEndian)
	require.NoError(t, err)
	require.NotEqual(t, be, le)
	require.Len(t, le, len(be))
}

func TestRoundTripDuplicateNames(t *testing.T) {
	t.Parallel()
	c := NewCompound()
	c.Append("seed", Long(1))
	c.Append("seed", Long(2))
	c.Append("other", Byte(3))

	data, err := Encode(Root{Compound: c}, LittleEndian)
	require.NoError(t, err)
	root, _, err := Decode(data, LittleEndian)
	require.NoError(t, err)

	require.Equal(t, 3, root.Compound.Len())
	require.Equal(t, []string{"seed", "seed", "other"}, root.Compound.Keys())
	v, ok := root.Compound.Long("seed")
	require.True(t, ok)
	require.Equal(t, int64(1), v, "lookup must address the first occurrence")
}

func TestRoundTripRawStringBytes(t *testing.T) {
	t.Parallel()
	// Name and payload carry bytes that are not valid UTF-8.
	raw := string([]byte{0xC3, 0x28, 0xFF, 0x00, 'x'})
	c := NewCompound()
	c.Append(raw, String(raw))

	data, err := Encode(Root{Compound: c}, BigEndian)
	require.NoError(t, err)
	root, _, err := Decode(data, BigEndian)
	require.NoError(t, err)

	again, err := Encode(root, BigEndian)
	require.NoError(t, err)
	require.Equal(t, data, again)

	got, ok := root.Compound.Get(raw)
	require.True(t, ok)
	require.Equal(t, String(raw), got)
}

func TestRoundTripNaN(t *testing.T) {
	t.Parallel()
	c := NewCompound().
		Put("f", Float(math.Float32frombits(0x7FC0_0001))).
		Put("d", Double(math.Float64frombits(0x7FF8_0000_0000_0001)))
	data, err := Encode(Root{Compound: c}, LittleEndian)
	require.NoError(t, err)
	root, _, err := Decode(data, LittleEndian)
	require.NoError(t, err)
	require.True(t, Equal(c, root.Compound))
}

func TestRoundTripEmptyListKeepsElementKind(t *testing.T) {
	t.Parallel()
	c := NewCompound().
		Put("ends", NewList(TagEnd)).
		Put("ints", NewList(TagInt))
	data, err := Encode(Root{Compound: c}, BigEndian)
	require.NoError(t, err)
	root, _, err := Decode(data, BigEndian)
	require.NoError(t, err)

	ends, ok := root.Compound.List("ends")
	require.True(t, ok)
	require.Equal(t, TagEnd, ends.ElementKind())
	ints, ok := root.Compound.List("ints")
	require.True(t, ok)
	require.Equal(t, TagInt, ints.ElementKind())

	again, err := Encode(root, BigEndian)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()
	deep := []byte{0x0A, 0x00, 0x00}
	deep = append(deep, bytes.Repeat([]byte{0x0A, 0x00, 0x00}, maxDepth+5)...)

	testCases := []struct {
		name string
		data []byte
	}{
		{name: "empty input", data: []byte{}},
		{name: "root not compound", data: []byte{0x02, 0x00, 0x00, 0x00, 0x14}},
		{name: "unknown root kind", data: []byte{0x0D, 0x00, 0x00}},
		{name: "truncated root name", data: []byte{0x0A, 0x00}},
		{name: "name overruns buffer", data: []byte{0x0A, 0x00, 0x05, 'a', 'b'}},
		{name: "missing end terminator", data: []byte{0x0A, 0x00, 0x00}},
		{
			name: "unknown entry kind",
			data: []byte{0x0A, 0x00, 0x00, 0x2A, 0x00, 0x01, 'a'},
		},
		{
			name: "truncated short payload",
			data: []byte{0x0A, 0x00, 0x00, 0x02, 0x00, 0x01, 'a', 0x00},
		},
		{
			name: "negative byte array count",
			data: []byte{0x0A, 0x00, 0x00, 0x07, 0x00, 0x01, 'a', 0xFF, 0xFF, 0xFF, 0xFF},
		},
		{
			name: "negative list count",
			data: []byte{0x0A, 0x00, 0x00, 0x09, 0x00, 0x01, 'a', 0x01, 0xFF, 0xFF, 0xFF, 0xFF},
		},
		{
			name: "list of end tags with nonzero count",
			data: []byte{0x0A, 0x00, 0x00, 0x09, 0x00, 0x01, 'a', 0x00, 0x00, 0x00, 0x00, 0x02},
		},
		{
			name: "list count overruns buffer",
			data: []byte{0x0A, 0x00, 0x00, 0x09, 0x00, 0x01, 'a', 0x01, 0x7F, 0xFF, 0xFF, 0xFF},
		},
		{
			name: "int array count overruns buffer",
			data: []byte{0x0A, 0x00, 0x00, 0x0B, 0x00, 0x01, 'a', 0x00, 0x00, 0x10, 0x00, 0x01, 0x02},
		},
		{name: "nesting too deep", data: deep},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Decode(tc.data, BigEndian)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrMalformedStream)
		})
	}
}

func TestEncodeInvalidTag(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		root Root
	}{
		{name: "nil root compound", root: Root{}},
		{
			name: "list element kind mismatch",
			root: Root{Compound: NewCompound().Put("l", NewList(TagInt, Int(1), String("x")))},
		},
		{
			name: "nil list element",
			root: Root{Compound: NewCompound().Put("l", NewList(TagString, nil))},
		},
		{
			name: "non-empty end list",
			root: Root{Compound: NewCompound().Put("l", NewList(TagEnd, Byte(0)))},
		},
		{
			name: "unknown list element kind",
			root: Root{Compound: NewCompound().Put("l", NewList(Kind(42)))},
		},
		{
			name: "nil entry",
			root: Root{Compound: NewCompound().Put("x", nil)},
		},
		{
			name: "name exceeds length prefix",
			root: Root{Compound: NewCompound().Put(strings.Repeat("n", math.MaxUint16+1), Byte(1))},
		},
		{
			name: "string exceeds length prefix",
			root: Root{Compound: NewCompound().Put("s", String(strings.Repeat("v", math.MaxUint16+1)))},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Encode(tc.root, LittleEndian)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidTag)
			require.Nil(t, out)
		})
	}
}

func TestDecoderEncoderStream(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf, LittleEndian).Encode(kitchenSink()))
	root, err := NewDecoder(&buf, LittleEndian).Decode()
	require.NoError(t, err)
	require.True(t, root.Equal(kitchenSink()))
}

// fakeFields drives the randomized round-trip grid below.
type fakeFields struct {
	B   int8
	S   int16
	I   int32
	L   int64
	F   float32
	D   float64
	Str string
	IA  []int32
	LA  []int64
}

func TestRoundTripFakeData(t *testing.T) {
	t.Parallel()
	for i := 0; i < 25; i++ {
		var ff fakeFields
		require.NoError(t, faker.FakeData(&ff))

		c := NewCompound().
			Put("b", Byte(ff.B)).
			Put("s", Short(ff.S)).
			Put("i", Int(ff.I)).
			Put("l", Long(ff.L)).
			Put("f", Float(ff.F)).
			Put("d", Double(ff.D)).
			Put("str", String(ff.Str)).
			Put("ba", ByteArray(ff.Str)).
			Put("ia", IntArray(ff.IA)).
			Put("la", LongArray(ff.LA))
		doc := Root{Name: ff.Str, Compound: c}

		for _, enc := range []Encoding{BigEndian, LittleEndian} {
			data, err := Encode(doc, enc)
			require.NoError(t, err)
			back, n, err := Decode(data, enc)
			require.NoError(t, err)
			require.Equal(t, len(data), n)
			require.True(t, back.Equal(doc), "round trip %d differs under %s", i, enc)
		}
	}
}

func FuzzDecode(f *testing.F) {
	f.Add(goldenBE)
	f.Add(goldenLE)
	f.Add([]byte{0x0A, 0x00, 0x00, 0x00})
	f.Add([]byte{})
	sink, _ := Encode(kitchenSink(), LittleEndian)
	f.Add(sink)

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, enc := range []Encoding{BigEndian, LittleEndian} {
			root, n, err := Decode(data, enc)
			if err != nil {
				continue
			}
			// Whatever decodes must re-encode to the exact consumed bytes.
			out, err := Encode(root, enc)
			if err != nil {
				t.Fatalf("decoded tree failed to encode under %s: %v", enc, err)
			}
			if !bytes.Equal(out, data[:n]) {
				t.Fatalf("re-encoding under %s differs from input", enc)
			}
		}
	})
}

func BenchmarkDecode(b *testing.B) {
	data, err := Encode(kitchenSink(), LittleEndian)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err = Decode(data, LittleEndian); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	doc := kitchenSink()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(doc, LittleEndian); err != nil {
			b.Fatal(err)
		}
	}
}
