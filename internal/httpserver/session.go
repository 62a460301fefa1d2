package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessions issues the signed "last room" cookie so a device can reopen
// the room it created or joined.
type sessions struct {
	secret []byte
	ttl    time.Duration
	name   string
	secure bool
}

func newSessions(opts Options) *sessions {
	days := opts.JWTExpiresDays
	if days <= 0 {
		days = 14
	}
	secret := opts.JWTSecret
	if secret == "" {
		secret = "dev_secret_change_me"
	}
	name := opts.CookieName
	if name == "" {
		name = "rummy_room"
	}
	return &sessions{
		secret: []byte(secret),
		ttl:    time.Duration(days) * 24 * time.Hour,
		name:   name,
		secure: opts.Secure,
	}
}

// roomClaims is the JWT payload of the room cookie.
type roomClaims struct {
	Room string `json:"room"`
	jwt.RegisteredClaims
}

// sign creates an HS256 token naming the room.
func (s *sessions) sign(code string, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, roomClaims{
		Room: code,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString(s.secret)
	return ss, exp, err
}

// parse validates a token and returns its room code.
func (s *sessions) parse(token string) (string, error) {
	var claims roomClaims
	t, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !t.Valid || claims.Room == "" {
		return "", errors.New("invalid room token")
	}
	return claims.Room, nil
}

// remember sets the room cookie. Failures are non-fatal to the request.
func (s *sessions) remember(w http.ResponseWriter, code string) error {
	tok, exp, err := s.sign(code, time.Now())
	if err != nil {
		return err
	}
	sameSite := http.SameSiteLaxMode
	if s.secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: sameSite,
		Expires:  exp,
	})
	return nil
}

// current reads the room code from the cookie or an Authorization bearer token.
func (s *sessions) current(r *http.Request) (string, bool) {
	tok := bearerOrCookie(r, s.name)
	if tok == "" {
		return "", false
	}
	code, err := s.parse(tok)
	if err != nil {
		return "", false
	}
	return code, true
}

// bearerOrCookie extracts a bearer token from Authorization header or the named cookie.
func bearerOrCookie(r *http.Request, cookie string) string {
	if a := r.Header.Get("Authorization"); len(a) > 7 && (a[:7] == "Bearer " || a[:7] == "bearer ") {
		return a[7:]
	}
	if c, err := r.Cookie(cookie); err == nil {
		return c.Value
	}
	return ""
}
