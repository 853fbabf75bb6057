package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDsHandler(t *testing.T) {
	idh := NewIDsHandler()
	id := idh.Generate(RequestIDPrefix)
	assert.True(t, idh.IsValid(id, RequestIDPrefix))
	assert.NotEqual(t, id, idh.Generate(RequestIDPrefix))

	assert.False(t, idh.IsValid(id[len(RequestIDPrefix)+1:], RequestIDPrefix))
	assert.False(t, idh.IsValid("r:not-a-uuid", RequestIDPrefix))
	assert.False(t, idh.IsValid("", RequestIDPrefix))
	assert.False(t, idh.IsValid("b:"+id[len(RequestIDPrefix)+1:], RequestIDPrefix))
}
