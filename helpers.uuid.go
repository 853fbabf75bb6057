package main

import (
	"strings"

	"github.com/gofrs/uuid"
)

var _ UIDHandler = (*IDsHandler)(nil)

// UIDHandler issues and checks the request ids carried by the
// X-Request-ID header. Book ids are issued by an IDGenerator instead.
type UIDHandler interface {
	Generate(prefix string) string
	IsValid(id string, prefix string) bool
}

// IDsHandler builds ids of the form `<prefix>:<uuid v4>`.
type IDsHandler struct{}

func NewIDsHandler() *IDsHandler {
	return &IDsHandler{}
}

func (idh *IDsHandler) Generate(prefix string) string {
	return prefix + ":" + uuid.Must(uuid.NewV4()).String()
}

// IsValid reports whether id carries the prefix followed by a version 4 uuid.
func (idh *IDsHandler) IsValid(id, prefix string) bool {
	raw, found := strings.CutPrefix(id, prefix+":")
	if !found {
		return false
	}
	u, err := uuid.FromString(raw)
	return err == nil && u.Version() == uuid.V4
}
