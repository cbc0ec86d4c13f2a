package shapefile

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestIsMacOSXPath(t *testing.T) {
	type testCase struct {
		path     string
		expected bool
	}
	testCases := []testCase{
		{"__MACOSX/dir/._test.shp", true},
		{"dir/__MACOSX/._test.shp", true},
		{"dir/__MACOSX/dir/._test.shp", true},
		{"dir/ABC__MACOSX/._test.shp", false},
		{"dir/._test.shp", false},
		{"dir/._test.shp.__MACOSX", false},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, isMacOSXPath(tc.path))
		})
	}
}

func TestMaxOf(t *testing.T) {
	assert.Equal(t, 0, maxOf[int]())
	assert.Equal(t, 3, maxOf(1, 3, 2))
	assert.Equal(t, 2.5, maxOf(2.5, -1))
}
