package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/auth"
	"github.com/frahmantamala/garments-tracker/internal/core/access"
	"github.com/frahmantamala/garments-tracker/internal/transport"
	"github.com/frahmantamala/garments-tracker/internal/user"
	"github.com/frahmantamala/garments-tracker/pkg/logger"
)

type fakeRegistrar struct {
	got user.RegisterDTO
	err error
}

func (f *fakeRegistrar) Register(_ context.Context, dto user.RegisterDTO) (string, error) {
	f.got = dto
	if f.err != nil {
		return "", f.err
	}
	return "u-new", nil
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == transport.SessionCookieName {
			return c
		}
	}
	return nil
}

var _ = Describe("Auth Handler", func() {
	var (
		registrar *fakeRegistrar
		handler   *auth.Handler
		policy    auth.CookiePolicy
	)

	BeforeEach(func() {
		alice := &user.User{
			ID:           "u-alice",
			Email:        "alice@example.com",
			Name:         "Alice",
			PasswordHash: mustHash("correct horse"),
			Role:         access.RoleBuyer,
			Status:       access.StatusActive,
		}
		svc := auth.NewService(newFakeAccounts(alice), auth.NewBcryptHasher(4), auth.NewJWTCodec(testSecret, time.Hour, ""), logger.Discard())
		registrar = &fakeRegistrar{}
		policy = auth.NewCookiePolicy(internal.SecurityConfig{CookieSameSite: "none"})
		handler = auth.NewHandler(svc, registrar, policy, logger.Discard())
	})

	Describe("POST /auth/login", func() {
		It("sets an HttpOnly session cookie and returns the profile", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"correct horse"}`))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			cookie := sessionCookie(rec)
			Expect(cookie).NotTo(BeNil())
			Expect(cookie.Value).NotTo(BeEmpty())
			Expect(cookie.HttpOnly).To(BeTrue())
			Expect(cookie.Secure).To(BeTrue())
			Expect(cookie.SameSite).To(Equal(http.SameSiteNoneMode))
			Expect(cookie.Path).To(Equal("/"))

			var body map[string]map[string]string
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body["user"]).To(Equal(map[string]string{
				"id": "u-alice", "name": "Alice", "email": "alice@example.com", "role": "buyer",
			}))
		})

		It("answers 401 without a cookie for bad credentials", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"wrong"}`))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeInvalidCredentials)))
			Expect(sessionCookie(rec)).To(BeNil())
		})

		It("answers 400 for a malformed body", func() {
			rec := httptest.NewRecorder()
			handler.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{`)))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /auth/logout", func() {
		It("expires the cookie with the attributes it was set with", func() {
			rec := httptest.NewRecorder()
			handler.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(MatchJSON(`{"success":true}`))
			cookie := sessionCookie(rec)
			Expect(cookie).NotTo(BeNil())
			Expect(cookie.Value).To(BeEmpty())
			Expect(cookie.MaxAge).To(BeNumerically("<", 0))
			Expect(cookie.HttpOnly).To(BeTrue())
			Expect(cookie.Secure).To(BeTrue())
			Expect(cookie.SameSite).To(Equal(http.SameSiteNoneMode))
		})
	})

	Describe("POST /auth/register", func() {
		It("returns success", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"name":"Bob","email":"bob@example.com","password":"secret1","role":"manager"}`))
			rec := httptest.NewRecorder()
			handler.Register(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(MatchJSON(`{"success":true}`))
			Expect(registrar.got.Role).To(Equal("manager"))
		})

		It("maps a duplicate email to 409", func() {
			registrar.err = internal.ErrDuplicateAccount
			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"name":"Bob","email":"bob@example.com","password":"secret1"}`))
			rec := httptest.NewRecorder()
			handler.Register(rec, req)

			Expect(rec.Code).To(Equal(http.StatusConflict))
			Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeDuplicateAccount)))
		})
	})
})

var _ = Describe("CookiePolicy", func() {
	It("keeps lax same-site cookies as configured", func() {
		p := auth.NewCookiePolicy(internal.SecurityConfig{CookieSameSite: "lax", CookieSecure: false})
		c := p.SessionCookie("tok", time.Now().Add(time.Hour))
		Expect(c.SameSite).To(Equal(http.SameSiteLaxMode))
		Expect(c.Secure).To(BeFalse())
		Expect(c.MaxAge).To(BeNumerically(">", 3500))
	})
})
