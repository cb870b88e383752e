package console

import (
	"github.com/gookit/color"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
)

// Value colors a rendered tag value by its kind. gookit/color turns
// itself off when stdout is not a terminal, so output stays pipeable.
func Value(k nbt.Kind, s string) string {
	return convert(k).Sprint(s)
}

// Name colors a compound entry name.
func Name(s string) string {
	return color.LightBlue.Sprint(s)
}

// Muted renders annotations such as offsets and kind names.
func Muted(s string) string {
	return color.Gray.Sprint(s)
}

// Warn renders recovery and mismatch notices.
func Warn(s string) string {
	return color.LightRed.Sprint(s)
}

func convert(k nbt.Kind) color.Color {
	switch k {
	case nbt.TagByte, nbt.TagShort, nbt.TagInt, nbt.TagLong:
		return color.LightYellow
	case nbt.TagFloat, nbt.TagDouble:
		return color.LightMagenta
	case nbt.TagString:
		return color.LightGreen
	case nbt.TagByteArray, nbt.TagIntArray, nbt.TagLongArray:
		return color.LightCyan
	case nbt.TagList:
		return color.Cyan
	case nbt.TagCompound:
		return color.White
	default:
		return color.OpReset
	}
}
