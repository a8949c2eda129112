package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-refgraph/refgraph/dereference"
)

func TestParseCircularPolicyFlag(t *testing.T) {
	p, err := parseCircularPolicyFlag("share")
	assert.NoError(t, err)
	assert.Equal(t, dereference.CircularShare, p)

	_, err = parseCircularPolicyFlag("bogus")
	assert.Error(t, err)
}

func TestHandleDereference_NoArgs(t *testing.T) {
	err := HandleDereference([]string{})
	assert.Error(t, err)
}

func TestHandleDereference_InvalidCircularPolicy(t *testing.T) {
	err := HandleDereference([]string{"--circular-policy", "bogus", "test.yaml"})
	assert.Error(t, err)
}
