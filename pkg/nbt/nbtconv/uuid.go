package nbtconv

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
)

// UUIDToIntArray encodes a UUID as the 4-element IntArray Java Edition
// stores player UUIDs in, most significant quarter first.
func UUIDToIntArray(id uuid.UUID) nbt.IntArray {
	return nbt.IntArray{
		int32(binary.BigEndian.Uint32(id[0:4])),
		int32(binary.BigEndian.Uint32(id[4:8])),
		int32(binary.BigEndian.Uint32(id[8:12])),
		int32(binary.BigEndian.Uint32(id[12:16])),
	}
}

// UUIDFromIntArray rebuilds a UUID from its 4-element IntArray form.
func UUIDFromIntArray(a nbt.IntArray) (uuid.UUID, error) {
	if len(a) != 4 {
		return uuid.Nil, fmt.Errorf("uuid int array has %d elements, want 4", len(a))
	}
	var id uuid.UUID
	binary.BigEndian.PutUint32(id[0:4], uint32(a[0]))
	binary.BigEndian.PutUint32(id[4:8], uint32(a[1]))
	binary.BigEndian.PutUint32(id[8:12], uint32(a[2]))
	binary.BigEndian.PutUint32(id[12:16], uint32(a[3]))
	return id, nil
}
