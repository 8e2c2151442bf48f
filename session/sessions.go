package session

import (
	"fieldops/bizerror"
	"fieldops/common"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var TokenExpiration = 24 * time.Hour

var TokenCache = cache.New(TokenExpiration, 1*time.Minute)

const KeySecCtx = "SecCtx"
const KeySecToken = "sec_token"

func ExtractSessionFromGinContext(ctx *gin.Context) *Session {
	value, found := ctx.Get(KeySecCtx)
	if !found {
		return nil
	}
	secCtx, ok := value.(*Session)
	if !ok || secCtx.Token == "" {
		return nil
	}
	return secCtx
}

func InjectSessionIntoGinContext(ctx *gin.Context, secCtx *Session) {
	if secCtx != nil && secCtx.Token != "" {
		ctx.Set(KeySecCtx, secCtx)
	}
}

// AuthFilter is the private-route guard: no console token, no screen. It only
// checks token presence; an expired upstream access token is discovered when
// the next API call fails.
func AuthFilter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(KeySecToken)
		if err != nil {
			panic(bizerror.ErrUnauthenticated)
		}
		securityContextValue, found := TokenCache.Get(token)
		if !found {
			// cache is empty after a restart; sessions survive in the
			// record store
			restored, err := LoadSessionRecordFunc(token)
			if err != nil || restored == nil {
				panic(bizerror.ErrUnauthenticated)
			}
			TokenCache.Set(token, restored, cache.DefaultExpiration)
			securityContextValue = restored
		}
		secCtx, ok := securityContextValue.(*Session)
		if !ok {
			panic(bizerror.ErrUnauthenticated)
		}
		InjectSessionIntoGinContext(ctx, secCtx)
		ctx.Next()
	}
}

// Sign opens a console session for an authenticated identity.
func Sign(identity Identity, accessToken, refreshToken string) (*Session, error) {
	secCtx := &Session{
		Token:        uuid.New().String(),
		Identity:     identity,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SigningTime:  time.Now(),
	}
	if err := SaveSessionRecordFunc(secCtx); err != nil {
		return nil, err
	}
	TokenCache.Set(secCtx.Token, secCtx, cache.DefaultExpiration)
	return secCtx, nil
}

// Destroy drops a session from the cache and the record store. The caller
// clears the cookie.
func Destroy(token string) {
	TokenCache.Delete(token)
	if err := DeleteSessionRecordFunc(token); err != nil {
		// the cached entry is gone either way; a stale record only
		// lingers until its TTL
		common.Log.Warnf("failed to delete session record: %v", err)
	}
}
