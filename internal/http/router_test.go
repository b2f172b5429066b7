package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchRoute(t *testing.T) {
	tests := []struct {
		path     string
		ok       bool
		expected match
	}{
		{"/groups", true, match{Resource: resourceGroups}},
		{"/groups/", true, match{Resource: resourceGroups}},
		{"/groups/edna", true, match{Resource: resourceGroups, Group: "edna"}},
		{"/groups/edna/transfers", true, match{Resource: resourceTransfers, Group: "edna"}},
		{"/groups/edna/transfers/", true, match{Resource: resourceTransfers, Group: "edna"}},
		{"/groups/edna/transfers/abc", true, match{Resource: resourceTransfers, Group: "edna", ID: "abc"}},
		{"/groups/edna/schedules", true, match{Resource: resourceSchedules, Group: "edna"}},
		{"/groups/edna/schedules/abc", true, match{Resource: resourceSchedules, Group: "edna", ID: "abc"}},
		// a group literally named "transfers" is still a group item
		{"/groups/transfers", true, match{Resource: resourceGroups, Group: "transfers"}},
		{"/groups/transfers/transfers", true, match{Resource: resourceTransfers, Group: "transfers"}},
		{"/groups/a%2Fb/transfers", true, match{Resource: resourceTransfers, Group: "a/b"}},
		{"/groups/my%20group", true, match{Resource: resourceGroups, Group: "my group"}},
		{"/groups/edna/unknown", false, match{}},
		{"/groups/edna/transfers/abc/logs", false, match{}},
		{"/groupsx", false, match{}},
		{"/transfers", false, match{}},
		{"/", false, match{}},
		{"/groups/%zz", false, match{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, ok := matchRoute(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, m)
		})
	}
}

func TestMatchIsItem(t *testing.T) {
	assert.False(t, match{Resource: resourceGroups}.IsItem())
	assert.True(t, match{Resource: resourceGroups, Group: "g"}.IsItem())
	assert.False(t, match{Resource: resourceTransfers, Group: "g"}.IsItem())
	assert.True(t, match{Resource: resourceTransfers, Group: "g", ID: "x"}.IsItem())
	assert.True(t, match{Resource: resourceSchedules, Group: "g", ID: "x"}.IsItem())
}

func TestResourceString(t *testing.T) {
	assert.Equal(t, "groups", resourceGroups.String())
	assert.Equal(t, "transfers", resourceTransfers.String())
	assert.Equal(t, "schedules", resourceSchedules.String())
	assert.Equal(t, "unknown", resource(42).String())
}
