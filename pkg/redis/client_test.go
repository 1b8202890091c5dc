package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vendixo/vendixo-backend/pkg/config"
)

type fakeCmdable struct {
	values map[string]string
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{values: map[string]string{}}
}

func (f *fakeCmdable) Ping(ctx context.Context) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeCmdable) Set(ctx context.Context, key string, value any, _ time.Duration) *goredis.StatusCmd {
	f.values[key] = value.(string)
	cmd := goredis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeCmdable) Get(ctx context.Context, key string) *goredis.StringCmd {
	cmd := goredis.NewStringCmd(ctx)
	if val, ok := f.values[key]; ok {
		cmd.SetVal(val)
	} else {
		cmd.SetErr(goredis.Nil)
	}
	return cmd
}

func (f *fakeCmdable) SetNX(ctx context.Context, key string, value any, _ time.Duration) *goredis.BoolCmd {
	cmd := goredis.NewBoolCmd(ctx)
	if _, exists := f.values[key]; exists {
		cmd.SetVal(false)
		return cmd
	}
	f.values[key] = value.(string)
	cmd.SetVal(true)
	return cmd
}

func (f *fakeCmdable) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	cmd := goredis.NewIntCmd(ctx)
	var removed int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			removed++
		}
	}
	cmd.SetVal(removed)
	return cmd
}

func TestKeyBuilders(t *testing.T) {
	t.Parallel()

	client := NewWithCmdable(newFakeCmdable())

	if got := client.CartKey("abc"); got != "vendixo:cart:abc" {
		t.Fatalf("cart key = %q", got)
	}
	if got := client.WishlistKey("abc"); got != "vendixo:wishlist:abc" {
		t.Fatalf("wishlist key = %q", got)
	}
	if got := client.CouponKey("abc"); got != "vendixo:coupon:abc" {
		t.Fatalf("coupon key = %q", got)
	}
	if got := client.SubmitLockKey("abc"); got != "vendixo:submit_lock:abc" {
		t.Fatalf("submit lock key = %q", got)
	}
	if got := client.IdempotencyKey("checkout", "k1"); got != "vendixo:idempotency:checkout:k1" {
		t.Fatalf("idempotency key = %q", got)
	}
}

func TestSetGetDelRoundTrip(t *testing.T) {
	t.Parallel()

	client := NewWithCmdable(newFakeCmdable())
	ctx := context.Background()

	if err := client.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, err := client.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if val != "v" {
		t.Fatalf("got %q", val)
	}

	if err := client.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := client.Get(ctx, "k"); !IsNil(err) {
		t.Fatalf("expected nil error after delete, got %v", err)
	}
}

func TestSetNXGuardsDoubleAcquire(t *testing.T) {
	t.Parallel()

	client := NewWithCmdable(newFakeCmdable())
	ctx := context.Background()

	ok, err := client.SetNX(ctx, "lock", "1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(ctx, "lock", "1", time.Minute)
	if err != nil {
		t.Fatalf("second acquire err: %v", err)
	}
	if ok {
		t.Fatal("expected second acquire to fail")
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	t.Parallel()

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor addr set")
	}
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 2 {
		t.Fatalf("db = %d", opts.DB)
	}
}
