package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

const (
	// LearnerCookieName carries the anonymous learner id, which is also
	// the learner's snapshot name.
	LearnerCookieName = "bitlit_learner"

	// LearnerHeaderName lets non-browser clients pick a learner id.
	LearnerHeaderName = "X-Bitlit-Learner"

	learnerCookieMaxAge = 365 * 24 * time.Hour
)

type contextKey int

const learnerIDKey contextKey = iota

var learnerIDPattern = regexp.MustCompile(`^anon_[a-f0-9]{32}$`)

// LearnerIDFromContext extracts the learner id from the request context.
func LearnerIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(learnerIDKey).(string); ok {
		return v
	}
	return ""
}

// NewLearnerID returns a fresh anonymous learner id.
func NewLearnerID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate learner id: %w", err)
	}
	return "anon_" + hex.EncodeToString(buf), nil
}

// ValidLearnerID reports whether id has the anonymous id shape.
func ValidLearnerID(id string) bool {
	return learnerIDPattern.MatchString(id)
}

func setLearnerCookie(w http.ResponseWriter, id string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     LearnerCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(learnerCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(learnerCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

func learnerIDFromRequest(r *http.Request) string {
	if id := r.Header.Get(LearnerHeaderName); ValidLearnerID(id) {
		return id
	}
	if c, err := r.Cookie(LearnerCookieName); err == nil && ValidLearnerID(c.Value) {
		return c.Value
	}
	return ""
}

// Identity assigns every request an anonymous learner id, refreshing or
// setting the cookie.
func Identity(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := learnerIDFromRequest(r)
			if id == "" {
				var err error
				if id, err = NewLearnerID(); err != nil {
					Error(w, http.StatusInternalServerError, "failed to establish learner identity")
					return
				}
			}
			setLearnerCookie(w, id, isDev)

			ctx := context.WithValue(r.Context(), learnerIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
