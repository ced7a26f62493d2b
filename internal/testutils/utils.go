package testutils

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// AssertEqualDiff fails the test with a readable diff when expected and
// actual differ.
func AssertEqualDiff(t *testing.T, expected, actual interface{}, opts ...cmp.Option) bool {
	t.Helper()

	if diff := cmp.Diff(expected, actual, opts...); diff != "" {
		msg := fmt.Sprintf(
			"Not equal:\n"+
				"expected:\n\t'%v'\n"+
				"actual:\n\t'%v'\n"+
				"diff (-expected +actual):\n%s",
			expected, actual, diff,
		)
		return assert.Fail(t, msg)
	}
	return true
}
