package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IDKind tags which identity scheme an EntityID carries.
type IDKind uint8

const (
	// KindNone is the zero EntityID.
	KindNone IDKind = iota
	// KindStoreRef identifies a persisted record. It is the only kind the
	// store produces and the only kind mutations accept.
	KindStoreRef
	KindString
	KindInteger
	KindUUID
)

func (k IDKind) String() string {
	switch k {
	case KindStoreRef:
		return "store_ref"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindUUID:
		return "uuid"
	default:
		return "none"
	}
}

// Record entity names used in store references.
const (
	EntityTask  = "task"
	EntityGroup = "group"
	EntityMemo  = "memo"
)

// StoreRef is an opaque reference to a persisted record.
type StoreRef struct {
	Entity string
	Key    int64
}

func (r StoreRef) String() string {
	return r.Entity + "/" + strconv.FormatInt(r.Key, 10)
}

// ParseStoreRef parses the "entity/key" form produced by StoreRef.String.
func ParseStoreRef(s string) (StoreRef, error) {
	entity, key, ok := strings.Cut(s, "/")
	if !ok {
		return StoreRef{}, fmt.Errorf("invalid store reference %q: missing separator", s)
	}
	switch entity {
	case EntityTask, EntityGroup, EntityMemo:
	default:
		return StoreRef{}, fmt.Errorf("invalid store reference %q: unknown entity %q", s, entity)
	}
	n, err := strconv.ParseInt(key, 10, 64)
	if err != nil || n <= 0 {
		return StoreRef{}, fmt.Errorf("invalid store reference %q: key must be a positive integer", s)
	}
	return StoreRef{Entity: entity, Key: n}, nil
}

// EntityID is a tagged union over the identity schemes a value may carry.
// It is comparable, so == and map keys use tag plus payload.
type EntityID struct {
	kind IDKind
	ref  StoreRef
	str  string
	num  int64
	uid  uuid.UUID
}

// RefID wraps a store reference.
func RefID(entity string, key int64) EntityID {
	return EntityID{kind: KindStoreRef, ref: StoreRef{Entity: entity, Key: key}}
}

// TaskRef, GroupRef and MemoRef build store references for each record kind.
func TaskRef(key int64) EntityID  { return RefID(EntityTask, key) }
func GroupRef(key int64) EntityID { return RefID(EntityGroup, key) }
func MemoRef(key int64) EntityID  { return RefID(EntityMemo, key) }

// StringID is a synthetic identity, e.g. a placeholder before creation.
func StringID(s string) EntityID { return EntityID{kind: KindString, str: s} }

// IntegerID is a synthetic integer identity.
func IntegerID(n int64) EntityID { return EntityID{kind: KindInteger, num: n} }

// UUIDID is a synthetic UUID identity.
func UUIDID(u uuid.UUID) EntityID { return EntityID{kind: KindUUID, uid: u} }

// NewUUIDID returns a random UUID identity.
func NewUUIDID() EntityID { return UUIDID(uuid.New()) }

func (id EntityID) Kind() IDKind { return id.kind }
func (id EntityID) IsZero() bool { return id.kind == KindNone }

// AsStoreRef returns the store reference if id is of KindStoreRef.
func (id EntityID) AsStoreRef() (StoreRef, bool) {
	if id.kind != KindStoreRef {
		return StoreRef{}, false
	}
	return id.ref, true
}

func (id EntityID) AsString() (string, bool) {
	if id.kind != KindString {
		return "", false
	}
	return id.str, true
}

func (id EntityID) AsInteger() (int64, bool) {
	if id.kind != KindInteger {
		return 0, false
	}
	return id.num, true
}

func (id EntityID) AsUUID() (uuid.UUID, bool) {
	if id.kind != KindUUID {
		return uuid.UUID{}, false
	}
	return id.uid, true
}

// String renders the payload only, matching the parse rules of ParseEntityID.
func (id EntityID) String() string {
	switch id.kind {
	case KindStoreRef:
		return id.ref.String()
	case KindString:
		return id.str
	case KindInteger:
		return strconv.FormatInt(id.num, 10)
	case KindUUID:
		return id.uid.String()
	default:
		return ""
	}
}

// ParseEntityID turns user input back into an identity. Store references
// ("task/3") are tried first, then UUIDs, then integers; anything else is a
// string identity.
func ParseEntityID(s string) EntityID {
	if ref, err := ParseStoreRef(s); err == nil {
		return EntityID{kind: KindStoreRef, ref: ref}
	}
	if u, err := uuid.Parse(s); err == nil {
		return UUIDID(u)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntegerID(n)
	}
	return StringID(s)
}
