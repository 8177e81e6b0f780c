package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"labloan-backend/internal/directory"
	"labloan-backend/internal/platform/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnavailable        = errors.New("directory unavailable")
)

// Claim names carried by issued tokens. sub is the numeric user or admin id.
const (
	claimSub        = "sub"
	claimRole       = "role"
	claimName       = "name"
	claimIdentifier = "idf"
	claimExp        = "exp"
	claimIat        = "iat"
)

type Service struct {
	creds  directory.CredentialVerifier
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(creds directory.CredentialVerifier, secret []byte, ttl time.Duration) *Service {
	return &Service{creds: creds, secret: secret, ttl: ttl, now: time.Now}
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  directory.Identity
}

func (s *Service) LoginStudent(ctx context.Context, nim, password string) (Session, error) {
	id, err := s.creds.VerifyStudent(ctx, nim, password)
	if err != nil {
		return Session{}, s.credentialErr("student", nim, err)
	}
	return s.issue(id)
}

func (s *Service) LoginAdmin(ctx context.Context, name, password string) (Session, error) {
	id, err := s.creds.VerifyAdmin(ctx, name, password)
	if err != nil {
		return Session{}, s.credentialErr("admin", name, err)
	}
	return s.issue(id)
}

func (s *Service) credentialErr(kind, who string, err error) error {
	if errors.Is(err, directory.ErrInvalidCredentials) {
		logger.Info().Str("kind", kind).Str("identifier", who).Msg("login rejected")
		return ErrInvalidCredentials
	}
	logger.Error().Err(err).Str("kind", kind).Msg("credential check failed")
	return ErrUnavailable
}

// Issue signs an HS256 token for id. The program of study is deliberately not a claim.
func (s *Service) issue(id directory.Identity) (Session, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		claimSub:        strconv.FormatInt(id.ID, 10),
		claimRole:       id.Role,
		claimName:       id.Name,
		claimIdentifier: id.Identifier,
		claimIat:        now.Unix(),
		claimExp:        exp.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: signed, ExpiresAt: exp, Identity: id}, nil
}
