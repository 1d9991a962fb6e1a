package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "teamcms:"

// UUID derives a stable UUID from key. Keys must be prefixed by entity kind to
// avoid collisions across tables.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ModuleUUID is the id of a seeded module definition.
func ModuleUUID(name string) uuid.UUID {
	return UUID(namespace + "module:" + strings.ToLower(strings.TrimSpace(name)))
}

// MenuUUID is the id of the menu owned by a menu module instance.
func MenuUUID(moduleInstanceID uuid.UUID) uuid.UUID {
	return UUID(namespace + "menu:" + moduleInstanceID.String())
}
