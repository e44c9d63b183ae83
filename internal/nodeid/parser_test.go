package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		rawID        string
		expectErr    bool
		expectedAddr *Address
	}{
		{
			name:  "single segment",
			rawID: "compile",
			expectedAddr: &Address{
				Path: []PathSegment{NewPathSegment("compile")},
			},
		},
		{
			name:  "nested path",
			rawID: "app.lib.compile",
			expectedAddr: &Address{
				Path: []PathSegment{NewPathSegment("app"), NewPathSegment("lib"), NewPathSegment("compile")},
			},
		},
		{
			name:  "indexed segments",
			rawID: "deploy.region[2].smoke[0]",
			expectedAddr: &Address{
				Path: []PathSegment{NewPathSegment("deploy"), NewPathSegmentWithIndex("region", 2), NewPathSegmentWithIndex("smoke", 0)},
			},
		},
		{
			name:  "hyphen and underscore",
			rawID: "web-app.run_tests",
			expectedAddr: &Address{
				Path: []PathSegment{NewPathSegment("web-app"), NewPathSegment("run_tests")},
			},
		},
		{name: "error - empty string", rawID: "", expectErr: true},
		{name: "error - empty segment", rawID: "a..b", expectErr: true},
		{name: "error - trailing dot", rawID: "a.", expectErr: true},
		{name: "error - non numeric index", rawID: "a.b[x]", expectErr: true},
		{name: "error - only hyphens", rawID: "a.--", expectErr: true},
		{name: "error - just dot", rawID: ".", expectErr: true},
		{name: "error - whitespace", rawID: "a b", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := Parse(tc.rawID)

			if tc.expectErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, addr)
			assert.True(t, tc.expectedAddr.Equal(addr), "parsed %q into %q", tc.rawID, addr.String())
		})
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustParse("a..b") })
	assert.NotPanics(t, func() { MustParse("a.b") })
}
