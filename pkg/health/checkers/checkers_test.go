package checkers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artem13815/hr-crm/pkg/health"
)

func TestFuncAndNilRedis(t *testing.T) {
	assert.Nil(t, Redis(nil))

	down := errors.New("down")
	ch := New("s3", func(context.Context) error { return down })
	assert.Equal(t, "s3", ch.Name())

	err := health.NewService(ch, Redis(nil)).Ready(context.Background())
	assert.ErrorIs(t, err, down)
}
