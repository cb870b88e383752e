package nbtconv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	gonbt "github.com/Tnze/go-mc/nbt"
	"gopkg.in/yaml.v3"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
)

// formatSNBT adds spaces after colons and commas that are not within
// quotes, the yaml parser requires them.
// Example: {a:1,b:hello} -> {a: 1, b: hello}
func formatSNBT(snbt string) string {
	var result strings.Builder
	inQuotes := false

	for i := 0; i < len(snbt); i++ {
		switch snbt[i] {
		case '"':
			inQuotes = !inQuotes
		case ':', ',':
			if !inQuotes {
				result.WriteByte(snbt[i])
				result.WriteByte(' ')
				continue
			}
		}
		result.WriteByte(snbt[i])
	}

	return result.String()
}

// SnbtToJSON converts stringified NBT to JSON. Typed numeric suffixes such
// as 1b or 3L come through as strings, the distinction has no JSON form.
// Example: {a:1,b:hello,c:"world"} -> {"a":1,"b":"hello","c":"world"}
func SnbtToJSON(snbt string) (json.RawMessage, error) {
	snbt = strings.TrimSpace(snbt)
	if len(snbt) < 2 || !strings.HasPrefix(snbt, "{") || !strings.HasSuffix(snbt, "}") {
		// Not an object, just a json string.
		return json.RawMessage(strconv.Quote(snbt)), nil
	}

	// Parse with yaml, a superset of json where quotes are optional.
	snbt = formatSNBT(snbt)
	var m map[string]any
	if err := yaml.Unmarshal([]byte(snbt), &m); err != nil {
		return nil, fmt.Errorf("error unmarshalling snbt to yaml: %w", err)
	}
	j, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("error marshalling yaml to json: %w", err)
	}
	return j, nil
}

// JsonToSNBT converts JSON to stringified NBT.
// Example: {"a":1,"b":"hello","d":true} -> {a:1,b:"hello",d:1}
func JsonToSNBT(j json.RawMessage) (string, error) {
	var m map[string]any
	if err := json.Unmarshal(j, &m); err != nil {
		return "", fmt.Errorf("error unmarshalling json to map: %w", err)
	}
	var b strings.Builder
	err := convertToSNBT(m, &b)
	return b.String(), err
}

func convertToSNBT(v any, b *strings.Builder) error {
	switch v := v.(type) {
	case map[string]any:
		return mapToSNBT(v, b)
	case []any:
		return sliceToSNBT(v, b)
	case string:
		writeStr(v, b, false)
	case bool:
		if v {
			b.WriteString("1")
		} else {
			b.WriteString("0")
		}
	default:
		b.WriteString(fmt.Sprintf("%v", v))
	}
	return nil
}

func mapToSNBT(m map[string]any, b *strings.Builder) error {
	b.WriteString("{")
	sep := ""
	for k, v := range m {
		b.WriteString(sep)
		writeStr(k, b, true)
		b.WriteString(":")
		if err := convertToSNBT(v, b); err != nil {
			return err
		}
		sep = ","
	}
	b.WriteString("}")
	return nil
}

var bareStrRe = regexp.MustCompile(`^[a-zA-Z0-9_\-.+]+$`)

func writeStr(s string, b *strings.Builder, isKey bool) {
	if isKey && strings.TrimSpace(s) != "" && bareStrRe.MatchString(s) {
		b.WriteString(s)
		return
	}
	// Only " needs escaping, strconv.Quote would also mangle \n and \t.
	b.WriteString(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`)
}

func sliceToSNBT(s []any, b *strings.Builder) error {
	b.WriteString("[")
	for i, item := range s {
		if i != 0 {
			b.WriteString(",")
		}
		if err := convertToSNBT(item, b); err != nil {
			return err
		}
	}
	b.WriteString("]")
	return nil
}

// SnbtToCompound parses stringified NBT into a compound tree. The snbt
// parser emits Java big-endian bytes which then pass through the regular
// decoder, so typed suffixes keep their kinds.
func SnbtToCompound(snbt string) (*nbt.Compound, error) {
	snbt = strings.TrimSpace(snbt)
	if !strings.HasPrefix(snbt, "{") {
		return nil, fmt.Errorf("snbt %q is not a compound", truncate(snbt))
	}
	buf := new(bytes.Buffer)
	if err := gonbt.StringifiedMessage(snbt).MarshalNBT(buf); err != nil {
		return nil, fmt.Errorf("error marshalling snbt to binary: %w", err)
	}

	data := make([]byte, 0, buf.Len()+4)
	data = append(data, byte(nbt.TagCompound), 0, 0) // unnamed root
	data = append(data, buf.Bytes()...)
	data = append(data, byte(nbt.TagEnd))

	root, _, err := nbt.Decode(data, nbt.BigEndian)
	if err != nil {
		return nil, fmt.Errorf("error decoding snbt binary form: %w", err)
	}
	return root.Compound, nil
}

// valueKey wraps bare SNBT values into a one-entry compound for parsing.
const valueKey = "v"

// ParseValue parses any stringified NBT value, scalars with typed
// suffixes, quoted strings, lists, arrays and compounds.
// Examples: 1b, 20s, 3, 4L, 0.5f, "text", [I;1,2], {mayfly:1b}
func ParseValue(snbt string) (nbt.Tag, error) {
	snbt = strings.TrimSpace(snbt)
	if snbt == "" {
		return nil, fmt.Errorf("empty snbt value")
	}
	if strings.HasPrefix(snbt, "{") {
		return SnbtToCompound(snbt)
	}
	c, err := SnbtToCompound("{" + valueKey + ":" + snbt + "}")
	if err != nil {
		return nil, fmt.Errorf("error parsing value %q: %w", truncate(snbt), err)
	}
	t, ok := c.Get(valueKey)
	if !ok {
		return nil, fmt.Errorf("error parsing value %q", truncate(snbt))
	}
	return t, nil
}

// CompoundToJSON renders a compound tree as JSON by way of its
// stringified form.
func CompoundToJSON(c *nbt.Compound) (json.RawMessage, error) {
	return SnbtToJSON(nbt.SNBT(c))
}

func truncate(s string) string {
	if len(s) > 13 {
		return s[:5] + "..." + s[len(s)-5:]
	}
	return s
}
