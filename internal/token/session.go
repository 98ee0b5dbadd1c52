package token

import (
	"context"

	"github.com/hadmin/pkg/auth"
	"github.com/hadmin/pkg/errors"
	"github.com/hadmin/pkg/logger"
	"go.uber.org/zap"
)

const keyPrefix = "token:"

// sessionKey 生成会话存储键
func sessionKey(sessionID string) string {
	return keyPrefix + sessionID
}

// SessionManager 会话管理器，签发、校验与吊销用户会话令牌
type SessionManager struct {
	jwt   *auth.JWTManager
	store *Store
}

// NewSessionManager 创建会话管理器
func NewSessionManager(jwtManager *auth.JWTManager, store *Store) *SessionManager {
	return &SessionManager{
		jwt:   jwtManager,
		store: store,
	}
}

// Issue 为用户签发新会话令牌并写入存储
func (m *SessionManager) Issue(ctx context.Context, userID int64) (string, error) {
	token, claims, err := m.jwt.GenerateToken(userID)
	if err != nil {
		return "", errors.Internal("令牌签发失败")
	}

	if err := m.store.Put(ctx, sessionKey(claims.SessionID), token, m.jwt.GetExpireIn()); err != nil {
		return "", err
	}
	return token, nil
}

// Validate 校验令牌：签名与有效期在本地校验，随后与存储中的当前会话比对。
// 被吊销、被新登录顶替或格式非法的令牌一律返回 ErrTokenInvalid，不区分原因。
func (m *SessionManager) Validate(ctx context.Context, raw string) (*auth.Claims, error) {
	claims, err := m.jwt.ParseToken(raw)
	if err != nil {
		return nil, errors.ErrTokenInvalid
	}

	stored, found, err := m.store.Get(ctx, sessionKey(claims.SessionID))
	if err != nil {
		return nil, err
	}
	if !found || stored != raw {
		return nil, errors.ErrTokenInvalid
	}
	return claims, nil
}

// Revoke 吊销令牌，幂等：已失效或无法解析的令牌视为吊销成功
func (m *SessionManager) Revoke(ctx context.Context, raw string) error {
	claims, err := m.jwt.ParseToken(raw)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, sessionKey(claims.SessionID))
}

// RevokeAll 吊销用户的全部会话。遍历整个令牌键空间，
// 逐个解码存储值的subject并与目标用户比对。
// TODO: 大量在线会话时应维护 user_sessions:{user_id} 二级索引避免全量扫描
func (m *SessionManager) RevokeAll(ctx context.Context, userID int64) error {
	var stale []string

	err := m.store.Scan(ctx, keyPrefix+"*", func(key string) error {
		value, found, err := m.store.Get(ctx, key)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}

		claims, err := m.jwt.ParseToken(value)
		if err != nil {
			// 无法解析的存量值留给TTL清理
			logger.Warn("skip unparseable session token", zap.String("key", key))
			return nil
		}

		id, err := claims.UserID()
		if err != nil {
			return nil
		}
		if id == userID {
			stale = append(stale, key)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return m.store.Delete(ctx, stale...)
}
