package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStaff(t *testing.T) {
	assert.True(t, IsStaff(RoleAdmin))
	assert.True(t, IsStaff(RoleModerator))
	assert.False(t, IsStaff(RoleUser))
	assert.False(t, IsStaff(""))
}
