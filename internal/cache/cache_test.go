package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return &Cache{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}), TTL: time.Minute}, mr
}

type row struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestSetGetRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := Key("leads", "user", "42")

	var got []row
	hit, err := c.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	want := []row{{ID: "1", Title: "first"}, {ID: "2", Title: "second"}}
	require.NoError(t, c.SetJSON(ctx, "leads", key, want))

	hit, err = c.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)

	assert.Equal(t, time.Minute, mr.TTL(key))
	members, err := mr.Members(indexKey("leads"))
	require.NoError(t, err)
	assert.Equal(t, []string{key}, members)
}

func TestInvalidateRemovesIndexedKeys(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	leadsA := Key("leads", "all")
	leadsB := Key("leads", "user", "7")
	todos := Key("todos", "user", "7")
	require.NoError(t, c.SetJSON(ctx, "leads", leadsA, []row{{ID: "a"}}))
	require.NoError(t, c.SetJSON(ctx, "leads", leadsB, []row{{ID: "b"}}))
	require.NoError(t, c.SetJSON(ctx, "todos", todos, []row{{ID: "t"}}))

	require.NoError(t, c.Invalidate(ctx, "leads"))

	assert.False(t, mr.Exists(leadsA))
	assert.False(t, mr.Exists(leadsB))
	assert.False(t, mr.Exists(indexKey("leads")))
	assert.True(t, mr.Exists(todos), "other tables keep their entries")

	// Invalidating a table with nothing cached is not an error.
	assert.NoError(t, c.Invalidate(ctx, "meetings"))
}

func TestGetJSONCorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(Key("leads", "bad"), "{not json"))

	var got []row
	hit, err := c.GetJSON(context.Background(), Key("leads", "bad"), &got)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestPing(t *testing.T) {
	c, mr := newTestCache(t)
	assert.NoError(t, c.Ping(context.Background()))

	mr.SetError("LOADING")
	assert.Error(t, c.Ping(context.Background()))
}
