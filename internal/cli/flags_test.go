package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommitFlags_Validate(t *testing.T) {
	tests := []struct {
		name  string
		flags commitFlags
		valid bool
	}{
		{"defaults", commitFlags{}, true},
		{"message alone", commitFlags{message: "custom"}, true},
		{"no-commit alone", commitFlags{noCommit: true}, true},
		{"no-index alone", commitFlags{noIndex: true}, true},
		{"quiet combines with anything", commitFlags{quiet: true, noCommit: true}, true},
		{"no-index with no-commit", commitFlags{noIndex: true, noCommit: true}, false},
		{"no-index with message", commitFlags{noIndex: true, message: "custom"}, false},
		{"message with no-commit", commitFlags{message: "custom", noCommit: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.flags.validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCommitFlags_MapToLifecycle(t *testing.T) {
	f := commitFlags{message: "m", quiet: true, noIndex: true, noCommit: true}
	lf := f.lifecycle()

	assert.Equal(t, "m", lf.Message)
	assert.True(t, lf.Quiet)
	assert.True(t, lf.NoIndex)
	assert.True(t, lf.NoCommit)
}
