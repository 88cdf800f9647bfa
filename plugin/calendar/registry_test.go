package calendar

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySessionFor_CreatesOnce(t *testing.T) {
	var created atomic.Int32
	registry := NewRegistry(func(string) (Provider, error) {
		created.Add(1)
		return NewStaticProvider(nil), nil
	})

	first, err := registry.SessionFor("alice@example.com")
	require.NoError(t, err)
	second, err := registry.SessionFor("alice@example.com")
	require.NoError(t, err)

	assert.Same(t, first.(*StaticProvider), second.(*StaticProvider))
	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, 1, registry.Len())
}

func TestRegistrySessionFor_ConcurrentSameParticipant(t *testing.T) {
	var created atomic.Int32
	registry := NewRegistry(func(string) (Provider, error) {
		created.Add(1)
		return NewStaticProvider(nil), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := registry.SessionFor("bob@example.com")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load(), "concurrent callers must not create duplicate sessions")
}

func TestRegistrySessionFor_FactoryErrorNotCached(t *testing.T) {
	var calls atomic.Int32
	registry := NewRegistry(func(string) (Provider, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("backend down")
		}
		return NewStaticProvider(nil), nil
	})

	_, err := registry.SessionFor("carol@example.com")
	require.Error(t, err)
	assert.Equal(t, 0, registry.Len())

	session, err := registry.SessionFor("carol@example.com")
	require.NoError(t, err)
	assert.NotNil(t, session)
}
