package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mihirp/food-order/internal/core/domain"
	"github.com/mihirp/food-order/internal/port"
)

type participantKey struct{}

// accountClaims is the token shape issued by the auth service. Token issuing
// and password handling live outside this service; here the token is only
// verified and mapped to a participant.
type accountClaims struct {
	AccountID string `json:"accountId"`
	jwt.RegisteredClaims
}

// Auth verifies bearer tokens and resolves the account to its user or seller
// participant once per request.
type Auth struct {
	secret []byte
	users  port.UserRepository
}

func NewAuth(secret string, users port.UserRepository) *Auth {
	return &Auth{
		secret: []byte(secret),
		users:  users,
	}
}

// Middleware authenticates the request and stores the resolved participant
// in the context.
func (a *Auth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participant, err := a.authenticate(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "not authenticated"})
			return
		}

		ctx := context.WithValue(r.Context(), participantKey{}, participant)
		next(w, r.WithContext(ctx))
	}
}

func (a *Auth) authenticate(r *http.Request) (domain.Participant, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return domain.Participant{}, fmt.Errorf("missing bearer token")
	}

	var claims accountClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.AccountID == "" {
		return domain.Participant{}, fmt.Errorf("token has no account id")
	}

	participant, err := a.users.ResolveParticipant(r.Context(), claims.AccountID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("resolve account %s: %w", claims.AccountID, err)
	}

	return participant, nil
}

// ParticipantFrom returns the authenticated participant stored by the
// middleware.
func ParticipantFrom(ctx context.Context) (domain.Participant, bool) {
	p, ok := ctx.Value(participantKey{}).(domain.Participant)
	return p, ok
}
