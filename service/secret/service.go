// Package secret resolves endpoint credentials stored as scy encrypted
// resources, so endpoint configs and route sheets never carry plain tokens.
package secret

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/scy"
	"github.com/viant/scy/cred"
)

// Service reveals and provisions endpoint credentials using viant/scy.
type Service struct {
	scyService *scy.Service
}

// New creates a credential service
func New() *Service {
	return &Service{scyService: scy.New()}
}

// Token reveals the secret stored at URL as a plain bearer token.
func (s *Service) Token(ctx context.Context, URL, key string) (string, error) {
	resource := scy.NewResource(nil, URL, key)
	secret, err := s.scyService.Load(ctx, resource)
	if err != nil {
		return "", fmt.Errorf("failed to load secret from %s: %w", URL, err)
	}
	token := strings.TrimSpace(secret.String())
	if token == "" {
		return "", fmt.Errorf("secret at %s was empty", URL)
	}
	return token, nil
}

// Basic reveals the secret stored at URL as a username and password pair.
func (s *Service) Basic(ctx context.Context, URL, key string) (*cred.Basic, error) {
	resource := scy.NewResource(&cred.Basic{}, URL, key)
	secret, err := s.scyService.Load(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to load secret from %s: %w", URL, err)
	}
	basic, ok := secret.Target.(*cred.Basic)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not a basic credential", URL)
	}
	return basic, nil
}

// Store encrypts content and writes it to destURL, creating the resource a
// later Token call reveals.
func (s *Service) Store(ctx context.Context, content, destURL, key string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("no content provided")
	}
	resource := scy.NewResource(nil, destURL, key)
	if err := s.scyService.Store(ctx, scy.NewSecret(content, resource)); err != nil {
		return fmt.Errorf("failed to store secret at %s: %w", destURL, err)
	}
	return nil
}
