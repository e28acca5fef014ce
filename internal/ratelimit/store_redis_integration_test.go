//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"licensehub/internal/ratelimit"
	"licensehub/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	client *redis.Client
	store  *ratelimit.Redis
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.client = containers.GetManager().GetRedis(s.T()).Client
	s.store = ratelimit.NewRedis(s.client)
}

func (s *RedisStoreSuite) TestLimitIsSharedAcrossStores() {
	ctx := context.Background()
	key := "admin-writes:" + uuid.NewString()
	other := ratelimit.NewRedis(s.client)

	for i := range 2 {
		res, err := s.store.Allow(ctx, key, 3, time.Minute)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(2-i, res.Remaining)
	}
	res, err := other.Allow(ctx, key, 3, time.Minute)
	s.Require().NoError(err)
	s.True(res.Allowed)
	s.Zero(res.Remaining)

	res, err = s.store.Allow(ctx, key, 3, time.Minute)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Positive(res.RetryAfter)
}

func (s *RedisStoreSuite) TestWindowExpires() {
	ctx := context.Background()
	key := "admin-writes:" + uuid.NewString()

	res, err := s.store.Allow(ctx, key, 1, 200*time.Millisecond)
	s.Require().NoError(err)
	s.True(res.Allowed)

	res, err = s.store.Allow(ctx, key, 1, 200*time.Millisecond)
	s.Require().NoError(err)
	s.False(res.Allowed)

	s.Eventually(func() bool {
		res, err := s.store.Allow(ctx, key, 1, 200*time.Millisecond)
		return err == nil && res.Allowed
	}, 2*time.Second, 50*time.Millisecond)
}
