package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stub struct {
	name string
	err  error
}

func (s stub) Name() string                  { return s.name }
func (s stub) Check(context.Context) error { return s.err }

func TestReady(t *testing.T) {
	assert.NoError(t, NewService(stub{name: "postgres"}, nil).Ready(context.Background()))

	down := errors.New("connection refused")
	err := NewService(stub{name: "postgres"}, stub{name: "redis", err: down}).Ready(context.Background())
	assert.ErrorIs(t, err, down)
	assert.ErrorContains(t, err, "redis")
}
