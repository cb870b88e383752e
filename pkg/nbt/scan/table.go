// Package scan recovers fields from NBT streams the structured decoder
// rejects. It is a last resort: a linear sweep for known field names
// followed by plausibility checks on the bytes after them. Results are
// approximations and are typed as such, they never masquerade as a
// trusted decode.
package scan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
)

// Table maps known field names to the shape expected after them in the
// stream. Tables are data, not code: they load from YAML so new world
// fields need no parser change.
type Table map[string]Field

// Field describes one known field. Compound fields may carry a sub-table
// searched within a bounded window after the field name.
type Field struct {
	Kind   nbt.Kind
	Fields Table
}

var _ yaml.Unmarshaler = (*Field)(nil)
var _ yaml.Marshaler = Field{}

var yamlKinds = map[string]nbt.Kind{
	"byte":     nbt.TagByte,
	"short":    nbt.TagShort,
	"int":      nbt.TagInt,
	"long":     nbt.TagLong,
	"float":    nbt.TagFloat,
	"double":   nbt.TagDouble,
	"string":   nbt.TagString,
	"compound": nbt.TagCompound,
}

func kindByYAMLName(name string) (nbt.Kind, error) {
	k, ok := yamlKinds[name]
	if !ok {
		return 0, fmt.Errorf("unsupported scan kind %q", name)
	}
	return k, nil
}

func yamlKindName(k nbt.Kind) string {
	for name, kk := range yamlKinds {
		if kk == k {
			return name
		}
	}
	return ""
}

// UnmarshalYAML accepts either the scalar shorthand
//
//	LevelName: string
//
// or the full form used for nested fields
//
//	abilities:
//	  kind: compound
//	  fields:
//	    mayfly: byte
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	var shorthand string
	if err := node.Decode(&shorthand); err == nil {
		k, err := kindByYAMLName(shorthand)
		if err != nil {
			return err
		}
		*f = Field{Kind: k}
		return nil
	}
	var full struct {
		Kind   string `yaml:"kind"`
		Fields Table  `yaml:"fields"`
	}
	if err := node.Decode(&full); err != nil {
		return fmt.Errorf("field must be a kind name or a kind/fields mapping: %w", err)
	}
	k, err := kindByYAMLName(full.Kind)
	if err != nil {
		return err
	}
	*f = Field{Kind: k, Fields: full.Fields}
	return nil
}

// MarshalYAML writes the scalar shorthand when the field has no sub-table.
func (f Field) MarshalYAML() (any, error) {
	name := yamlKindName(f.Kind)
	if name == "" {
		return nil, fmt.Errorf("unsupported scan kind %s", f.Kind)
	}
	if len(f.Fields) == 0 {
		return name, nil
	}
	return struct {
		Kind   string `yaml:"kind"`
		Fields Table  `yaml:"fields"`
	}{Kind: name, Fields: f.Fields}, nil
}

// ParseTable parses a YAML table document.
func ParseTable(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("error parsing scan table: %w", err)
	}
	return t, nil
}

// LoadTable reads and parses a YAML table file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading scan table: %w", err)
	}
	return ParseTable(data)
}

// DefaultLevelDat returns the built-in table of well-known Bedrock
// level.dat fields.
func DefaultLevelDat() Table {
	t := Table{}
	for _, name := range []string{
		"BiomeOverride", "FlatWorldLayers", "InventoryVersion", "LevelName",
		"baseGameVersion", "prid",
	} {
		t[name] = Field{Kind: nbt.TagString}
	}
	for _, name := range []string{
		"CenterMapsToOrigin", "ConfirmedPlatformLockedContent", "ForceGameType",
		"HasUncompleteWorldFileOnDisk", "IsHardcore", "LANBroadcast",
		"LANBroadcastIntent", "MultiplayerGame", "MultiplayerGameIntent",
		"PlayerHasDied", "SpawnV1Villagers", "bonusChestEnabled",
		"bonusChestSpawned", "cheatsEnabled", "commandblockoutput",
		"commandblocksenabled", "commandsEnabled", "dodaylightcycle",
		"doentitydrops", "dofiretick", "doimmediaterespawn", "doinsomnia",
		"dolimitedcrafting", "domobloot", "domobspawning", "dotiledrops",
		"doweathercycle", "drowningdamage", "educationFeaturesEnabled",
		"falldamage", "firedamage", "freezedamage", "hasBeenLoadedInCreative",
		"hasLockedBehaviorPack", "hasLockedResourcePack", "immutableWorld",
		"isCreatedInEditor", "isExportedFromEditor", "isFromLockedTemplate",
		"isFromWorldTemplate", "isRandomSeedAllowed", "isSingleUseWorld",
		"isWorldTemplateOptionLocked", "keepinventory", "locatorbar",
		"mobgriefing", "naturalregeneration", "projectilescanbreakblocks",
		"pvp", "recipesunlock", "requiresCopiedPackRemovalCheck",
		"respawnblocksexplode", "sendcommandfeedback", "showbordereffect",
		"showcoordinates", "showdaysplayed", "showdeathmessages",
		"showrecipemessages", "showtags", "spawnMobs", "startWithMapEnabled",
		"texturePacksRequired", "tntexplodes", "tntexplosiondropdecay",
		"useMsaGamertagsOnly",
	} {
		t[name] = Field{Kind: nbt.TagByte}
	}
	for _, name := range []string{
		"Difficulty", "GameType", "Generator", "LimitedWorldOriginX",
		"LimitedWorldOriginY", "LimitedWorldOriginZ", "NetherScale",
		"NetworkVersion", "Platform", "PlatformBroadcastIntent", "SpawnX",
		"SpawnY", "SpawnZ", "StorageVersion", "WorldVersion",
		"XBLBroadcastIntent", "daylightCycle", "editorWorldType", "eduOffer",
		"functioncommandlimit", "lightningTime", "limitedWorldDepth",
		"limitedWorldWidth", "maxcommandchainlength", "permissionsLevel",
		"playerPermissionsLevel", "playerssleepingpercentage", "rainTime",
		"randomtickspeed", "serverChunkTickRange", "spawnradius",
	} {
		t[name] = Field{Kind: nbt.TagInt}
	}
	for _, name := range []string{
		"LastPlayed", "RandomSeed", "Time", "currentTick", "worldStartCount",
	} {
		t[name] = Field{Kind: nbt.TagLong}
	}
	for _, name := range []string{"lightningLevel", "rainLevel"} {
		t[name] = Field{Kind: nbt.TagFloat}
	}

	abilities := Table{}
	for _, name := range []string{
		"attackmobs", "attackplayers", "build", "doorsandswitches", "flying",
		"instabuild", "invulnerable", "lightning", "mayfly", "mine", "op",
		"opencontainers", "teleport",
	} {
		abilities[name] = Field{Kind: nbt.TagByte}
	}
	for _, name := range []string{"flySpeed", "walkSpeed", "verticalFlySpeed"} {
		abilities[name] = Field{Kind: nbt.TagFloat}
	}
	t["abilities"] = Field{Kind: nbt.TagCompound, Fields: abilities}

	experiments := Table{}
	for _, name := range []string{
		"data_driven_biomes", "experiments_ever_used", "gametest",
		"jigsaw_structures", "saved_with_toggled_experiments",
	} {
		experiments[name] = Field{Kind: nbt.TagByte}
	}
	t["experiments"] = Field{Kind: nbt.TagCompound, Fields: experiments}

	// Version arrays and policy compounds: recovered as int lists when the
	// bytes after the name look like one, otherwise by their sub-table.
	t["world_policies"] = Field{Kind: nbt.TagCompound}
	t["MinimumCompatibleClientVersion"] = Field{Kind: nbt.TagCompound}
	t["lastOpenedWithVersion"] = Field{Kind: nbt.TagCompound}

	return t
}
