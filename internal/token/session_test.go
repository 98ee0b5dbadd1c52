package token

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hadmin/pkg/auth"
	"github.com/hadmin/pkg/config"
	"github.com/hadmin/pkg/errors"
	"github.com/redis/go-redis/v9"
)

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtManager := auth.NewJWTManager(&config.JWTConfig{
		Secret:        "test-secret",
		Issuer:        "hadmin-test",
		Algorithm:     "HS256",
		ExpireMinutes: 60,
	})
	return NewSessionManager(jwtManager, NewStore(client)), mr
}

func TestIssueAndValidate(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	raw, err := m.Issue(ctx, 42)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := m.Validate(ctx, raw)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	userID, err := claims.UserID()
	if err != nil {
		t.Fatalf("claims user id: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestValidateRejectsMalformedToken(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Validate(context.Background(), "not-a-token")
	if !errors.Is(err, errors.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestRevokedTokenIndistinguishableFromMalformed(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	raw, err := m.Issue(ctx, 7)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if err := m.Revoke(ctx, raw); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	_, revokedErr := m.Validate(ctx, raw)
	_, malformedErr := m.Validate(ctx, "garbage")
	if !errors.Is(revokedErr, errors.ErrTokenInvalid) || !errors.Is(malformedErr, errors.ErrTokenInvalid) {
		t.Fatalf("expected identical rejection, got %v vs %v", revokedErr, malformedErr)
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	raw, err := m.Issue(ctx, 7)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := m.Revoke(ctx, raw); err != nil {
			t.Fatalf("revoke #%d failed: %v", i, err)
		}
	}
	if err := m.Revoke(ctx, "never-issued"); err != nil {
		t.Fatalf("revoke of unparseable token should succeed, got %v", err)
	}
}

func TestSequentialLoginsLeaveExactlyOneValidToken(t *testing.T) {
	m, mr := newTestManager(t)
	ctx := context.Background()

	var issued []string
	var latest string
	for i := 0; i < 5; i++ {
		if err := m.RevokeAll(ctx, 1); err != nil {
			t.Fatalf("revoke all failed: %v", err)
		}
		raw, err := m.Issue(ctx, 1)
		if err != nil {
			t.Fatalf("issue failed: %v", err)
		}
		issued = append(issued, raw)
		latest = raw
	}

	for _, raw := range issued[:len(issued)-1] {
		if _, err := m.Validate(ctx, raw); err == nil {
			t.Fatal("superseded token must not validate")
		}
	}
	if _, err := m.Validate(ctx, latest); err != nil {
		t.Fatalf("latest token must validate, got %v", err)
	}
	if got := len(mr.Keys()); got != 1 {
		t.Fatalf("expected exactly one live session key, got %d", got)
	}
}

func TestConcurrentLoginsConvergeToSingleSession(t *testing.T) {
	m, mr := newTestManager(t)
	ctx := context.Background()

	const workers = 8
	tokens := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := m.RevokeAll(ctx, 1); err != nil {
				t.Errorf("revoke all failed: %v", err)
				return
			}
			raw, err := m.Issue(ctx, 1)
			if err != nil {
				t.Errorf("issue failed: %v", err)
				return
			}
			tokens[i] = raw
		}(i)
	}
	wg.Wait()

	// 收敛：最后一次完整的登录序列之后只剩一个会话
	if err := m.RevokeAll(ctx, 1); err != nil {
		t.Fatalf("final revoke all failed: %v", err)
	}
	final, err := m.Issue(ctx, 1)
	if err != nil {
		t.Fatalf("final issue failed: %v", err)
	}

	for _, raw := range tokens {
		if raw == "" {
			continue
		}
		if _, err := m.Validate(ctx, raw); err == nil {
			t.Fatal("pre-convergence token must not validate")
		}
	}
	if _, err := m.Validate(ctx, final); err != nil {
		t.Fatalf("final token must validate, got %v", err)
	}
	if got := len(mr.Keys()); got != 1 {
		t.Fatalf("expected exactly one live session key, got %d", got)
	}
}

func TestRevokeAllDoesNotTouchOtherSubjects(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	t1, err := m.Issue(ctx, 1)
	if err != nil {
		t.Fatalf("issue user 1 failed: %v", err)
	}
	t2, err := m.Issue(ctx, 2)
	if err != nil {
		t.Fatalf("issue user 2 failed: %v", err)
	}

	if err := m.RevokeAll(ctx, 1); err != nil {
		t.Fatalf("revoke all failed: %v", err)
	}

	if _, err := m.Validate(ctx, t1); err == nil {
		t.Fatal("user 1 token must be revoked")
	}
	if _, err := m.Validate(ctx, t2); err != nil {
		t.Fatalf("user 2 token must survive, got %v", err)
	}
}

func TestSessionEvictedByStoreTTL(t *testing.T) {
	m, mr := newTestManager(t)
	ctx := context.Background()

	raw, err := m.Issue(ctx, 9)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	mr.FastForward(61 * time.Minute)

	if _, err := m.Validate(ctx, raw); !errors.Is(err, errors.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid after ttl eviction, got %v", err)
	}
}

func TestStoreOutageFailsClosed(t *testing.T) {
	m, mr := newTestManager(t)
	ctx := context.Background()

	raw, err := m.Issue(ctx, 3)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	mr.Close()

	if _, err := m.Validate(ctx, raw); !errors.IsStoreUnavailable(err) {
		t.Fatalf("expected store-unavailable on validate, got %v", err)
	}
	if _, err := m.Issue(ctx, 3); !errors.IsStoreUnavailable(err) {
		t.Fatalf("expected store-unavailable on issue, got %v", err)
	}
	if err := m.RevokeAll(ctx, 3); !errors.IsStoreUnavailable(err) {
		t.Fatalf("expected store-unavailable on revoke all, got %v", err)
	}
}
