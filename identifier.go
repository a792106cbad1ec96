package rendercore

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// ID is the opaque 128-bit identifier naming shapes and cached images.
// Hosts transport it as four 32-bit words.
type ID uuid.UUID

// RootID is the all-zero identifier. When a shape with this ID exists it is
// the root of every render walk.
var RootID = ID(uuid.Nil)

// FromQuartet builds an ID from four 32-bit words. Word a carries the most
// significant bits; each word is stored big-endian.
func FromQuartet(a, b, c, d uint32) ID {
	var id ID
	binary.BigEndian.PutUint32(id[0:4], a)
	binary.BigEndian.PutUint32(id[4:8], b)
	binary.BigEndian.PutUint32(id[8:12], c)
	binary.BigEndian.PutUint32(id[12:16], d)
	return id
}

// ParseID parses the canonical string form produced by Key.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, err
	}
	return ID(u), nil
}

// Words splits the ID back into the four words FromQuartet was given.
func (id ID) Words() (a, b, c, d uint32) {
	return binary.BigEndian.Uint32(id[0:4]),
		binary.BigEndian.Uint32(id[4:8]),
		binary.BigEndian.Uint32(id[8:12]),
		binary.BigEndian.Uint32(id[12:16])
}

// Key returns the canonical string used for map lookups. It is stable for a
// given ID but is not a display format.
func (id ID) Key() string {
	return uuid.UUID(id).String()
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return id.Key()
}

// IsRoot reports whether id is RootID.
func (id ID) IsRoot() bool {
	return id == RootID
}
