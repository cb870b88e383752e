package editor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
)

func TestParseForKind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		kind    nbt.Kind
		input   string
		want    nbt.Tag
		wantErr string
	}{
		{name: "string verbatim", kind: nbt.TagString, input: `has "quotes" and spaces`, want: nbt.String(`has "quotes" and spaces`)},
		{name: "byte true", kind: nbt.TagByte, input: "true", want: nbt.Byte(1)},
		{name: "byte false", kind: nbt.TagByte, input: "False", want: nbt.Byte(0)},
		{name: "byte from int", kind: nbt.TagByte, input: "5", want: nbt.Byte(5)},
		{name: "short from int", kind: nbt.TagShort, input: "-20", want: nbt.Short(-20)},
		{name: "int exact", kind: nbt.TagInt, input: "42", want: nbt.Int(42)},
		{name: "long from int", kind: nbt.TagLong, input: "42", want: nbt.Long(42)},
		{name: "float from double literal", kind: nbt.TagFloat, input: "0.5", want: nbt.Float(0.5)},
		{name: "float from int", kind: nbt.TagFloat, input: "3", want: nbt.Float(3)},
		{name: "double from float literal", kind: nbt.TagDouble, input: "0.5f", want: nbt.Double(0.5)},
		{name: "double from int", kind: nbt.TagDouble, input: "3", want: nbt.Double(3)},
		{name: "int array exact", kind: nbt.TagIntArray, input: "[I;1,2]", want: nbt.IntArray{1, 2}},
		{name: "byte out of range", kind: nbt.TagByte, input: "200", wantErr: "does not fit"},
		{name: "short out of range", kind: nbt.TagShort, input: "70000", wantErr: "does not fit"},
		{name: "array for int field", kind: nbt.TagInt, input: "[I;1,2]", wantErr: "cannot use"},
		{name: "text for int field", kind: nbt.TagInt, input: "hello", wantErr: "cannot use"},
		{name: "float for int field", kind: nbt.TagInt, input: "0.5", wantErr: "cannot use"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseForKind(tt.kind, tt.input)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.True(t, nbt.Equal(tt.want, got), "got %s", nbt.SNBT(got))
		})
	}
}
