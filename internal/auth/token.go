// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Grant is the result of a successful sign-in or token refresh.
type Grant struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the access token is past its expiry at now.
// A grant without a known expiry never expires.
func (g Grant) Expired(now time.Time) bool {
	return !g.ExpiresAt.IsZero() && !now.Before(g.ExpiresAt)
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// Callers only use it to decide when to refresh; the issuer verifies the token.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("parsing token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no exp claim")
	}
	return claims.ExpiresAt.Time, nil
}

// Token lifetimes of locally issued grants.
const (
	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

const (
	tokenIssuer  = "mre-site"
	useAccess    = "access"
	useRefresh   = "refresh"
	signingAlgHS = "HS256"
)

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the claims of a locally issued token.
type Claims struct {
	Email string `json:"email"`
	Use   string `json:"token_use"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens for the local admin backend.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer keyed by secret.
func NewTokenIssuer(secret []byte) *TokenIssuer {
	return &TokenIssuer{secret: secret, now: time.Now}
}

// Issue creates an access and refresh token pair for a user.
func (i *TokenIssuer) Issue(userID, email string) (*Grant, error) {
	now := i.now()
	access, err := i.sign(userID, email, useAccess, now, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(userID, email, useRefresh, now, RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &Grant{
		UserID:       userID,
		Email:        email,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(AccessTokenTTL).Truncate(time.Second),
	}, nil
}

func (i *TokenIssuer) sign(userID, email, use string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Email: email,
		Use:   use,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", use, err)
	}
	return signed, nil
}

// VerifyAccess validates an access token and returns its claims.
func (i *TokenIssuer) VerifyAccess(token string) (*Claims, error) {
	return i.verify(token, useAccess)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (i *TokenIssuer) VerifyRefresh(token string) (*Claims, error) {
	return i.verify(token, useRefresh)
}

func (i *TokenIssuer) verify(token, use string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{signingAlgHS}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Use != use {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, use, claims.Use)
	}
	return claims, nil
}
