package auth_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/auth"
	"github.com/frahmantamala/garments-tracker/internal/core/access"
	"github.com/frahmantamala/garments-tracker/internal/user"
	"github.com/frahmantamala/garments-tracker/pkg/logger"
)

// unsignableCodec verifies like the real codec but cannot issue.
type unsignableCodec struct {
	*auth.JWTCodec
}

func (unsignableCodec) Issue(internal.Identity, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, errors.New("signing key unavailable")
}

var _ = Describe("Login", func() {
	var (
		alice    *user.User
		accounts *fakeAccounts
		hasher   *countingHasher
		codec    *auth.JWTCodec
		svc      *auth.Service
	)

	BeforeEach(func() {
		alice = &user.User{
			ID:           "u-alice",
			Email:        "alice@example.com",
			Name:         "Alice",
			PasswordHash: mustHash("correct horse"),
			Role:         access.RoleBuyer,
			Status:       access.StatusActive,
		}
		accounts = newFakeAccounts(alice)
		hasher = newCountingHasher()
		codec = auth.NewJWTCodec(testSecret, time.Hour, "")
		svc = auth.NewService(accounts, hasher, codec, logger.Discard())
	})

	It("issues a session for valid credentials", func() {
		session, err := svc.Login(context.Background(), auth.LoginDTO{Email: "  Alice@Example.com ", Password: "correct horse"})
		Expect(err).NotTo(HaveOccurred())
		Expect(session.User.ID).To(Equal("u-alice"))
		Expect(session.ExpiresAt).To(BeTemporally("~", time.Now().Add(time.Hour), 5*time.Second))

		claims, err := codec.Verify(session.Token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.Identity()).To(Equal(internal.Identity{UserID: "u-alice", Email: "alice@example.com", Role: "buyer"}))
	})

	It("answers the same error for a wrong password and an unknown email", func() {
		_, wrongPassword := svc.Login(context.Background(), auth.LoginDTO{Email: "alice@example.com", Password: "nope"})
		_, unknownEmail := svc.Login(context.Background(), auth.LoginDTO{Email: "bob@example.com", Password: "nope"})

		Expect(wrongPassword).To(MatchError(internal.ErrInvalidCredentials))
		Expect(unknownEmail).To(MatchError(internal.ErrInvalidCredentials))
		Expect(wrongPassword.Error()).To(Equal(unknownEmail.Error()))
	})

	It("spends a bcrypt comparison on unknown emails", func() {
		_, err := svc.Login(context.Background(), auth.LoginDTO{Email: "bob@example.com", Password: "whatever"})
		Expect(err).To(MatchError(internal.ErrInvalidCredentials))
		Expect(hasher.verifies.Load()).To(BeEquivalentTo(1))
	})

	It("refuses a suspended account only after the password matched", func() {
		alice.Status = access.StatusSuspended

		_, err := svc.Login(context.Background(), auth.LoginDTO{Email: "alice@example.com", Password: "nope"})
		Expect(err).To(MatchError(internal.ErrInvalidCredentials))

		_, err = svc.Login(context.Background(), auth.LoginDTO{Email: "alice@example.com", Password: "correct horse"})
		Expect(err).To(MatchError(internal.ErrAccountSuspended))
	})

	It("validates the payload", func() {
		_, err := svc.Login(context.Background(), auth.LoginDTO{Email: " ", Password: ""})
		Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
	})

	It("passes store failures through", func() {
		accounts.err = internal.NewStoreUnavailableError(errors.New("db down"))
		_, err := svc.Login(context.Background(), auth.LoginDTO{Email: "alice@example.com", Password: "correct horse"})
		Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeStoreUnavailable))
	})

	It("reports a signing failure as an internal error", func() {
		svc = auth.NewService(accounts, hasher, unsignableCodec{codec}, logger.Discard())
		_, err := svc.Login(context.Background(), auth.LoginDTO{Email: "alice@example.com", Password: "correct horse"})
		Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeInternal))
		Expect(err).To(MatchError(internal.ErrInternal))
	})
})
