package vectorstore_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg/codewiki/internal/vectorstore"
)

type fakePinger struct {
	id int32
}

func (f *fakePinger) Ping(ctx context.Context) error { return nil }

func TestConnOpensOnceAndReusesClient(t *testing.T) {
	var opens int32
	conn := vectorstore.NewConn(func(ctx context.Context) (*fakePinger, error) {
		n := atomic.AddInt32(&opens, 1)
		return &fakePinger{id: n}, nil
	})

	first, err := conn.Client(context.Background())
	require.NoError(t, err)
	second, err := conn.Client(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&opens))
}

func TestConnSurfacesOpenError(t *testing.T) {
	conn := vectorstore.NewConn(func(ctx context.Context) (*fakePinger, error) {
		return nil, assert.AnError
	})
	_, err := conn.Client(context.Background())
	assert.Error(t, err)
}
