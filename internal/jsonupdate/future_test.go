package jsonupdate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_Go(t *testing.T) {
	f := Go(context.Background(), func(context.Context) (int, error) {
		time.Sleep(5 * time.Millisecond)
		return 7, nil
	})

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	// A settled future can be awaited again.
	v, err = f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFuture_GoError(t *testing.T) {
	want := errors.New("failed")
	f := Go(context.Background(), func(context.Context) (string, error) { return "", want })

	_, err := f.Await(context.Background())
	assert.ErrorIs(t, err, want)
}

func TestFuture_GoPanic(t *testing.T) {
	f := Go(context.Background(), func(context.Context) (int, error) { panic("kaboom") })

	v, err := f.Await(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Zero(t, v)
}

func TestFuture_ResolvedRejected(t *testing.T) {
	v, err := Resolved("x").Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	want := errors.New("no")
	_, err = Rejected[string](want).Await(context.Background())
	assert.ErrorIs(t, err, want)
}

func TestFuture_AwaitCanceled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	f := Go(context.Background(), func(context.Context) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFuture_SettledWinsOverCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := Resolved(3).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestFuture_NilAwait(t *testing.T) {
	var f *Future[int]
	_, err := f.Await(context.Background())
	assert.ErrorIs(t, err, ErrNilFuture)
}

func TestFuture_Done(t *testing.T) {
	f := Resolved(1)
	select {
	case <-f.Done():
	default:
		t.Fatal("expected resolved future to be done")
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "persist-failed", StatePersistFailed.String())
	assert.Equal(t, "unknown", State(-1).String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestState_Terminal(t *testing.T) {
	terminal := []State{StateLoadFailed, StateDefaultFailed, StateUpdateFailed, StateDone, StatePersistFailed}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), s.String())
	}
	for _, s := range []State{StateIdle, StateLoading, StateLoaded, StateDefaulting, StateDefaulted, StateUpdating, StateUpdated, StatePersisting} {
		assert.False(t, s.Terminal(), s.String())
	}
}

func TestDefault_NilFactories(t *testing.T) {
	assert.Nil(t, Factory[int](nil))
	assert.Nil(t, FactoryOf[int](nil))
}

func TestFunc_Nil(t *testing.T) {
	assert.Nil(t, Func[int](nil))
	assert.Nil(t, Async[int](nil))
}
