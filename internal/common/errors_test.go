package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorageError_NilPassthrough(t *testing.T) {
	require.NoError(t, NewStorageError("insert entry", nil))
}

func TestNewStorageError_WrapsAndUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("insert entry", cause)

	require.Error(t, err)
	assert.True(t, IsStorage(err))
	assert.False(t, IsRemote(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage: insert entry: disk full", err.Error())
}

func TestNewStorageError_DoesNotDoubleWrap(t *testing.T) {
	inner := NewStorageError("a", errors.New("x"))
	outer := NewStorageError("b", fmt.Errorf("ctx: %w", inner))

	var se *StorageError
	require.True(t, errors.As(outer, &se))
	assert.Equal(t, "a", se.Op)
}

func TestRemoteError_MessageAndSentinel(t *testing.T) {
	err := NewRemoteError("add", CollectionDiaries, ErrUnavailable)

	assert.True(t, IsRemote(err))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "remote: add diaries: remote unavailable", err.Error())

	noColl := NewRemoteError("ping", "", ErrUnauthorized)
	assert.Equal(t, "remote: ping: unauthorized", noColl.Error())
}

func TestKnownCollection(t *testing.T) {
	assert.True(t, KnownCollection(CollectionDiaries))
	assert.True(t, KnownCollection(CollectionSocialLinks))
	assert.False(t, KnownCollection(CollectionUsers))
	assert.False(t, KnownCollection("passwords"))
}
