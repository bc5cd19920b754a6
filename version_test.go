package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/flow"
)

func TestVersion(t *testing.T) {
	defer func(commit string) { flow.GitCommit = commit }(flow.GitCommit)

	flow.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", flow.Version())

	flow.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", flow.Version())
}
