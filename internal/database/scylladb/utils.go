package scylladb

import (
	"fmt"

	"github.com/google/uuid"
)

// uuidBytes encodes an id the way uuid columns are bound
func uuidBytes(id uuid.UUID) []byte {
	return id[:]
}

// nullableUUID binds NULL for the zero id
func nullableUUID(id *uuid.UUID) interface{} {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return uuidBytes(*id)
}

func parseUUID(b []byte) (uuid.UUID, error) {
	var id uuid.UUID
	if err := id.UnmarshalBinary(b); err != nil {
		return uuid.Nil, fmt.Errorf("failed to unmarshal uuid: %w", err)
	}
	return id, nil
}

// parseNullableUUID returns nil for a NULL column
func parseNullableUUID(b []byte) (*uuid.UUID, error) {
	if len(b) == 0 {
		return nil, nil
	}
	id, err := parseUUID(b)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
