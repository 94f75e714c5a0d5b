package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
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

func errorCode(rec *httptest.ResponseRecorder) string {
	var body struct {
		Error struct {
			Type string `json:"type"`
			Code string `json:"code"`
		} `json:"error"`
	}
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	return body.Error.Code
}

var _ = Describe("Guard", func() {
	var (
		codec    *auth.JWTCodec
		accounts *fakeAccounts
		guard    *auth.Guard
		buyer    *user.User
	)

	BeforeEach(func() {
		codec = auth.NewJWTCodec(testSecret, time.Hour, "")
		buyer = &user.User{ID: "u-buyer", Email: "buyer@example.com", Role: access.RoleBuyer, Status: access.StatusActive}
		accounts = newFakeAccounts(buyer)
		guard = auth.NewGuard(codec, accounts, logger.Discard())
	})

	Describe("Authenticate", func() {
		var (
			seen    internal.Identity
			reached bool
			handler http.Handler
		)

		BeforeEach(func() {
			reached = false
			handler = guard.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				seen, _ = internal.IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			}))
		})

		issue := func() string {
			token, _, err := codec.Issue(internal.Identity{UserID: buyer.ID, Email: buyer.Email, Role: string(buyer.Role)}, 0)
			Expect(err).NotTo(HaveOccurred())
			return token
		}

		It("answers 401 without a token", func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/mine", nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeUnauthenticated)))
			Expect(reached).To(BeFalse())
		})

		It("answers 401 for a bad token", func() {
			req := httptest.NewRequest(http.MethodGet, "/orders/mine", nil)
			req.Header.Set("Authorization", "Bearer nope")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeInvalidToken)))
			Expect(reached).To(BeFalse())
		})

		It("reads the session cookie", func() {
			req := httptest.NewRequest(http.MethodGet, "/orders/mine", nil)
			req.AddCookie(&http.Cookie{Name: transport.SessionCookieName, Value: issue()})
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(seen).To(Equal(internal.Identity{UserID: "u-buyer", Email: "buyer@example.com", Role: "buyer"}))
		})

		It("reads a bearer token", func() {
			req := httptest.NewRequest(http.MethodGet, "/orders/mine", nil)
			req.Header.Set("Authorization", "Bearer "+issue())
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(seen.UserID).To(Equal("u-buyer"))
		})
	})

	Describe("Authorize", func() {
		actor := func(u *user.User) internal.Identity {
			return internal.Identity{UserID: u.ID, Email: u.Email, Role: string(u.Role)}
		}

		It("rejects an anonymous actor", func() {
			err := guard.Authorize(context.Background(), internal.Identity{}, access.OpOrderListOwn)
			Expect(err).To(MatchError(internal.ErrUnauthenticated))
		})

		It("rejects a role mismatch", func() {
			err := guard.Authorize(context.Background(), actor(buyer), access.OpOrderApprove)
			Expect(err).To(MatchError(internal.ErrForbidden))
		})

		It("denies operations missing from the table", func() {
			err := guard.Authorize(context.Background(), actor(buyer), access.Operation("order.delete"))
			Expect(err).To(MatchError(internal.ErrForbidden))
		})

		It("lets an active buyer place orders", func() {
			Expect(guard.Authorize(context.Background(), actor(buyer), access.OpOrderPlace)).To(Succeed())
		})

		It("checks the live status, not the token", func() {
			buyer.Status = access.StatusSuspended

			err := guard.Authorize(context.Background(), actor(buyer), access.OpOrderPlace)
			Expect(err).To(MatchError(internal.ErrAccountSuspended))
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeForbidden))

			// reads stay open to suspended accounts
			Expect(guard.Authorize(context.Background(), actor(buyer), access.OpOrderListOwn)).To(Succeed())
		})

		It("treats a deleted account as unauthenticated", func() {
			ghost := &user.User{ID: "u-ghost", Email: "ghost@example.com", Role: access.RoleBuyer}
			err := guard.Authorize(context.Background(), actor(ghost), access.OpOrderPlace)
			Expect(err).To(MatchError(internal.ErrUnauthenticated))
		})

		It("surfaces store failures", func() {
			accounts.err = internal.NewStoreUnavailableError(errors.New("db down"))
			err := guard.Authorize(context.Background(), actor(buyer), access.OpOrderPlace)
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeStoreUnavailable))
		})
	})

	Describe("Require", func() {
		It("blocks callers outside the policy", func() {
			h := guard.Require(access.OpUserList)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			req = req.WithContext(internal.ContextWithIdentity(req.Context(),
				internal.Identity{UserID: buyer.ID, Email: buyer.Email, Role: "buyer"}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeForbidden)))
		})

		It("answers 401 when no identity is present", func() {
			h := guard.Require(access.OpUserList)(http.NotFoundHandler())
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
