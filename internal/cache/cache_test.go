package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

func TestKeyIsStableAndSensitive(t *testing.T) {
	role := &types.RoleDescriptor{Name: "Backend Developer", RequiredSkills: []string{"go", "sql"}}

	base := Key("resume text", role, "abc")
	assert.Equal(t, base, Key("resume text", role, "abc"))
	assert.Len(t, base, 64)

	variants := map[string]string{
		"text":   Key("resume text!", role, "abc"),
		"policy": Key("resume text", role, "abd"),
		"skills": Key("resume text", &types.RoleDescriptor{Name: "Backend Developer", RequiredSkills: []string{"go"}}, "abc"),
		"norole": Key("resume text", nil, "abc"),
	}
	for name, k := range variants {
		t.Run(name, func(t *testing.T) {
			assert.NotEqual(t, base, k)
		})
	}

	upper := &types.RoleDescriptor{Name: "BACKEND DEVELOPER", RequiredSkills: []string{"go", "sql"}}
	assert.Equal(t, base, Key("resume text", upper, "abc"))
}

func TestNopCache(t *testing.T) {
	ctx := context.Background()
	var c Cache = NopCache{}
	require.NoError(t, c.Set(ctx, "k", &types.AnalysisResult{ATSScore: 10}))
	got, ok, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestNewFallsBackWhenDisabledOrUnreachable(t *testing.T) {
	ctx := context.Background()
	assert.IsType(t, NopCache{}, New(ctx, config.CacheConfig{Enabled: false}, nil))

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	c := New(ctx, config.CacheConfig{Enabled: true, RedisAddr: "127.0.0.1:1", TTL: time.Minute}, errors.Discard())
	assert.IsType(t, NopCache{}, c)
}

func TestRedisCacheErrorsAreNetworkErrors(t *testing.T) {
	rc := NewRedisCache(config.CacheConfig{RedisAddr: "127.0.0.1:1", TTL: time.Minute, Prefix: "t:"}, nil)
	defer rc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, ok, err := rc.Get(ctx, "missing")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, errors.ErrorTypeNetwork))
	assert.True(t, errors.Is(rc.Set(ctx, "k", &types.AnalysisResult{}), errors.ErrorTypeNetwork))
}
