package persist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/persist"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "NEW", persist.StatusNew.String())
	assert.Equal(t, "MANAGED", persist.StatusManaged.String())
	assert.Equal(t, "REMOVED", persist.StatusRemoved.String())
	assert.Equal(t, "UNKNOWN", persist.Status(9).String())
}
