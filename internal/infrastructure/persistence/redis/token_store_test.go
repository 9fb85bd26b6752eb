package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func TestTokenStore_RevokeAndCheck(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewTokenStore(NewClientFromRedis(rdb, "task_ai"))

	mock.ExpectSetNX("task_ai:revoked_token:jti-1", "1", time.Hour).SetVal(true)
	mock.ExpectExists("task_ai:revoked_token:jti-1").SetVal(1)
	mock.ExpectExists("task_ai:revoked_token:jti-2").SetVal(0)

	won, err := store.Revoke(context.Background(), "jti-1", time.Hour)
	if err != nil || !won {
		t.Fatalf("Revoke = (%v, %v), want (true, nil)", won, err)
	}
	revoked, err := store.IsRevoked(context.Background(), "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected jti-1 revoked, got (%v, %v)", revoked, err)
	}
	revoked, err = store.IsRevoked(context.Background(), "jti-2")
	if err != nil || revoked {
		t.Fatalf("expected jti-2 active, got (%v, %v)", revoked, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenStore_SkipsExpiredAndEmpty(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewTokenStore(NewClientFromRedis(rdb, "task_ai"))

	if won, err := store.Revoke(context.Background(), "jti-1", 0); err != nil || !won {
		t.Fatalf("Revoke expired = (%v, %v)", won, err)
	}
	if won, err := store.Revoke(context.Background(), "", time.Hour); err != nil || !won {
		t.Fatalf("Revoke empty = (%v, %v)", won, err)
	}
	if revoked, err := store.IsRevoked(context.Background(), ""); err != nil || revoked {
		t.Fatalf("empty jti is never revoked")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no redis command expected: %v", err)
	}
}

func TestTokenStore_RedisError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewTokenStore(NewClientFromRedis(rdb, ""))

	boom := errors.New("connection refused")
	mock.ExpectExists("revoked_token:jti-1").SetErr(boom)

	if _, err := store.IsRevoked(context.Background(), "jti-1"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped redis error, got %v", err)
	}
}

func TestTokenStore_RevokeOnlyOnce(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewTokenStore(NewClientFromRedis(rdb, "task_ai"))

	mock.ExpectSetNX("task_ai:revoked_token:jti-1", "1", time.Hour).SetVal(true)
	mock.ExpectSetNX("task_ai:revoked_token:jti-1", "1", time.Hour).SetVal(false)

	first, err := store.Revoke(context.Background(), "jti-1", time.Hour)
	if err != nil || !first {
		t.Fatalf("first Revoke = (%v, %v), want (true, nil)", first, err)
	}
	second, err := store.Revoke(context.Background(), "jti-1", time.Hour)
	if err != nil || second {
		t.Fatalf("second Revoke = (%v, %v), want (false, nil)", second, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenStore_RevokeRedisError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewTokenStore(NewClientFromRedis(rdb, ""))

	boom := errors.New("connection refused")
	mock.ExpectSetNX("revoked_token:jti-1", "1", time.Hour).SetErr(boom)

	won, err := store.Revoke(context.Background(), "jti-1", time.Hour)
	if !errors.Is(err, boom) || won {
		t.Fatalf("Revoke = (%v, %v), want wrapped redis error", won, err)
	}
}
