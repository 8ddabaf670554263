package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks KeyProvider

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"

	"golang.org/x/crypto/chacha20poly1305"

	keymodels "chatguard/internal/keys/models"
	"chatguard/internal/sanitizer/metrics"
	"chatguard/internal/sanitizer/models"
	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/platform/audit"
	"chatguard/pkg/platform/audit/auditlog"
	"chatguard/pkg/requestcontext"
)

// KeyProvider is satisfied by the keys service.
type KeyProvider interface {
	ActiveKey(ctx context.Context) (*keymodels.EncryptionKey, error)
	KeyByID(ctx context.Context, keyID id.KeyID) (*keymodels.EncryptionKey, error)
}

type Service struct {
	keys           KeyProvider
	auditPublisher auditlog.Publisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher auditlog.Publisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(keys KeyProvider, opts ...Option) (*Service, error) {
	if keys == nil {
		return nil, errors.New("key provider is required")
	}
	svc := &Service{
		keys:   keys,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Classify passes clean text through and seals sensitive text with the
// current active key.
func (s *Service) Classify(ctx context.Context, text string, hints models.Hints) (*models.Result, error) {
	patterns := Detect(text, hints)
	if s.metrics != nil {
		s.metrics.IncrementClassification(len(patterns) > 0)
		for _, p := range patterns {
			s.metrics.IncrementPattern(string(p))
		}
	}
	if len(patterns) == 0 {
		return &models.Result{Sensitive: false, Encrypted: false, Content: text}, nil
	}

	key, err := s.keys.ActiveKey(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "no encryption key available")
	}
	payload, err := seal(key, text)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encrypt message")
	}

	meta := &models.Metadata{
		OriginalLength: len([]rune(text)),
		Patterns:       patterns,
		KeyID:          key.KeyID,
		ClassifiedAt:   requestcontext.Now(ctx),
	}
	auditlog.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventSensitiveContent, audit.SeverityInfo,
		"user_id", requestcontext.UserID(ctx).String(),
		"key_id", key.KeyID.String(),
		"patterns", patterns,
	)
	return &models.Result{
		Sensitive:        true,
		Encrypted:        true,
		EncryptedContent: payload,
		Metadata:         meta,
	}, nil
}

// Open decrypts a payload with the key it names. Deprecated keys still open.
func (s *Service) Open(ctx context.Context, payload *models.EncryptedPayload) (string, error) {
	if err := payload.Validate(); err != nil {
		return "", err
	}
	if payload.Algorithm != keymodels.AlgorithmXChaCha20Poly1305 {
		return "", dErrors.New(dErrors.CodeValidation, "unsupported payload algorithm: "+payload.Algorithm)
	}
	key, err := s.keys.KeyByID(ctx, payload.KeyID)
	if err != nil {
		return "", err
	}
	nonce, err := base64.StdEncoding.DecodeString(payload.Nonce)
	if err != nil || len(nonce) != chacha20poly1305.NonceSizeX {
		return "", dErrors.New(dErrors.CodeValidation, "invalid payload nonce")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(payload.Ciphertext)
	if err != nil {
		return "", dErrors.New(dErrors.CodeValidation, "invalid payload ciphertext")
	}
	aead, err := chacha20poly1305.NewX(key.Material)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "invalid key material")
	}
	plain, err := aead.Open(nil, nonce, ciphertext, []byte(key.KeyID))
	if err != nil {
		return "", dErrors.New(dErrors.CodeValidation, "payload failed authentication")
	}
	return string(plain), nil
}

func seal(key *keymodels.EncryptionKey, text string) (*models.EncryptedPayload, error) {
	aead, err := chacha20poly1305.NewX(key.Material)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ciphertext := aead.Seal(nil, nonce, []byte(text), []byte(key.KeyID))
	return &models.EncryptedPayload{
		KeyID:      key.KeyID,
		Algorithm:  key.Algorithm,
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}
