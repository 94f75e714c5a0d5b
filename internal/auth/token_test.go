package auth_test

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/auth"
)

var _ = Describe("JWTCodec", func() {
	var (
		now      time.Time
		codec    *auth.JWTCodec
		identity internal.Identity
	)

	BeforeEach(func() {
		now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		codec = auth.NewJWTCodec(testSecret, time.Hour, "garments-tracker").
			WithClock(func() time.Time { return now })
		identity = internal.Identity{UserID: "u-1", Email: "alice@example.com", Role: "buyer"}
	})

	It("round-trips the identity", func() {
		token, expiresAt, err := codec.Issue(identity, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(expiresAt).To(Equal(now.Add(time.Hour)))

		claims, err := codec.Verify(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.Identity()).To(Equal(identity))
		Expect(claims.Subject).To(Equal("u-1"))
		Expect(claims.Issuer).To(Equal("garments-tracker"))
	})

	It("accepts a token just before expiry and rejects it after", func() {
		token, _, err := codec.Issue(identity, time.Hour)
		Expect(err).NotTo(HaveOccurred())

		now = now.Add(59 * time.Minute)
		_, err = codec.Verify(token)
		Expect(err).NotTo(HaveOccurred())

		now = now.Add(2 * time.Minute)
		_, err = codec.Verify(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("rejects a token at the exact expiry instant", func() {
		token, expiresAt, err := codec.Issue(identity, time.Hour)
		Expect(err).NotTo(HaveOccurred())

		now = expiresAt
		_, err = codec.Verify(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("rejects tokens signed with another secret", func() {
		other := auth.NewJWTCodec("ffffffffffffffffffffffffffffffff", time.Hour, "garments-tracker").
			WithClock(func() time.Time { return now })
		token, _, err := other.Issue(identity, 0)
		Expect(err).NotTo(HaveOccurred())

		_, err = codec.Verify(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("rejects a different algorithm even with the right secret", func() {
		claims := &auth.Claims{
			UserID: identity.UserID,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "garments-tracker",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		Expect(err).NotTo(HaveOccurred())
		_, err = codec.Verify(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))

		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		Expect(err).NotTo(HaveOccurred())
		_, err = codec.Verify(unsigned)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("rejects a foreign issuer", func() {
		other := auth.NewJWTCodec(testSecret, time.Hour, "someone-else").
			WithClock(func() time.Time { return now })
		token, _, err := other.Issue(identity, 0)
		Expect(err).NotTo(HaveOccurred())

		_, err = codec.Verify(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("rejects tokens without an expiry", func() {
		claims := &auth.Claims{
			UserID:           identity.UserID,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "garments-tracker"},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		Expect(err).NotTo(HaveOccurred())

		_, err = codec.Verify(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	DescribeTable("malformed input",
		func(token string) {
			_, err := codec.Verify(token)
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		},
		Entry("empty", ""),
		Entry("garbage", "not-a-token"),
		Entry("three empty segments", ".."),
	)

	It("falls back to the default ttl", func() {
		Expect(auth.NewJWTCodec(testSecret, 0, "").TTL()).To(Equal(internal.DefaultTokenTTL))
	})
})

var _ = Describe("BcryptHasher", func() {
	It("salts each digest and verifies the plain text", func() {
		h := auth.NewBcryptHasher(4)
		a, err := h.Hash("s3cret!")
		Expect(err).NotTo(HaveOccurred())
		b, err := h.Hash("s3cret!")
		Expect(err).NotTo(HaveOccurred())

		Expect(a).NotTo(Equal(b))
		Expect(a).NotTo(ContainSubstring("s3cret!"))
		Expect(h.Verify("s3cret!", a)).To(BeTrue())
		Expect(h.Verify("s3cret?", a)).To(BeFalse())
	})

	It("never matches a malformed digest", func() {
		Expect(auth.NewBcryptHasher(4).Verify("x", "not-a-digest")).To(BeFalse())
		Expect(auth.NewBcryptHasher(4).Verify("", "")).To(BeFalse())
	})
})
