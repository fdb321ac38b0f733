package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const familyCookieName = "hsu_family_unlocked"

// rememberDuration is how long an unlock cookie stays valid.
const rememberDuration = 180 * 24 * time.Hour

// FamilyGate issues and verifies the unlock cookie that fronts all /api
// routes. The gate is a thin presentational concern: the core never sees
// it. With no PIN hash configured the gate admits everyone, which keeps
// local development and tests friction-free.
type FamilyGate struct {
	pinHash []byte
	secret  []byte
}

func NewFamilyGate(pinHash, secret string) *FamilyGate {
	return &FamilyGate{pinHash: []byte(pinHash), secret: []byte(secret)}
}

func (g *FamilyGate) enabled() bool {
	return len(g.pinHash) > 0
}

// VerifyPIN checks a 4-digit PIN against the configured bcrypt hash.
func (g *FamilyGate) VerifyPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return bcrypt.CompareHashAndPassword(g.pinHash, []byte(pin)) == nil
}

// MintToken creates a signed unlock token: "1.<unix>.<hmac>".
func (g *FamilyGate) MintToken(now time.Time) string {
	payload := fmt.Sprintf("1.%d", now.Unix())
	return payload + "." + g.sign(payload)
}

func (g *FamilyGate) sign(payload string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyToken checks signature and age of an unlock token.
func (g *FamilyGate) VerifyToken(token string, now time.Time) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] != "1" {
		return false
	}
	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(g.sign(payload)), []byte(parts[2])) {
		return false
	}
	iat, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return false
	}
	issued := time.Unix(iat, 0)
	return !issued.After(now) && now.Sub(issued) <= rememberDuration
}

// Middleware rejects requests without a valid unlock cookie.
func (g *FamilyGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.enabled() {
			next.ServeHTTP(w, r)
			return
		}
		cookie, err := r.Cookie(familyCookieName)
		if err != nil || !g.VerifyToken(cookie.Value, time.Now()) {
			writeError(w, http.StatusUnauthorized, "family unlock required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UnlockRequest is the body for POST /api/unlock.
type UnlockRequest struct {
	PIN string `json:"pin"`
}

type UnlockResponse struct {
	OK bool `json:"ok"`
}

func handleUnlock(gate *FamilyGate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UnlockRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.PIN) != 4 {
			writeError(w, http.StatusBadRequest, "PIN must be exactly 4 digits")
			return
		}
		if !gate.enabled() || !gate.VerifyPIN(req.PIN) {
			writeError(w, http.StatusUnauthorized, "incorrect PIN")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     familyCookieName,
			Value:    gate.MintToken(time.Now()),
			Path:     "/",
			MaxAge:   int(rememberDuration / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, UnlockResponse{OK: true})
	}
}
