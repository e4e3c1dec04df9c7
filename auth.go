package mojang

import (
	"net/http"

	"github.com/aabss/mojang-go/auth"
	"github.com/aabss/mojang-go/headers"
)

// authStrategy attaches a credential to an outgoing request. A client holds exactly
// one strategy for its lifetime.
type authStrategy interface {
	Apply(req *http.Request)
	surface() Surface
}

// Surface names which API family a client authenticates against.
type Surface string

const (
	SurfaceAccount Surface = "account"
	SurfaceRealms  Surface = "realms"
)

type bearerAuth struct {
	token string
}

func (b bearerAuth) Apply(req *http.Request) {
	if b.token == "" {
		return
	}
	req.Header.Set(headers.Authorization, headers.BearerPrefix+b.token)
}

func (bearerAuth) surface() Surface { return SurfaceAccount }

type cookieAuth struct {
	cookie string
}

func newCookieAuth(c auth.CookieSession) cookieAuth {
	return cookieAuth{cookie: c.String()}
}

func (c cookieAuth) Apply(req *http.Request) {
	if c.cookie == "" {
		return
	}
	req.Header.Set(headers.Cookie, c.cookie)
}

func (cookieAuth) surface() Surface { return SurfaceRealms }
