// Package meta loads configuration documents (engine config, route sheets)
// from any location afs can reach, with ${env.KEY} references expanded before
// decoding.
package meta

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads documents relative to an optional base URL.
type Service struct {
	fs        afs.Service
	baseURL   string
	fsOptions []storage.Option
}

// New creates a meta service.
func New(fs afs.Service, baseURL string, fsOptions ...storage.Option) *Service {
	return &Service{
		fs:        fs,
		baseURL:   baseURL,
		fsOptions: fsOptions,
	}
}

// Load downloads the document at URL and decodes the YAML into target.
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	data, err := s.Download(ctx, URL)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %v: %w", URL, err)
	}
	return nil
}

// Download fetches the raw document with env expansion applied.
func (s *Service) Download(ctx context.Context, URL string) ([]byte, error) {
	location := s.normalizeURL(URL)
	data, err := s.fs.DownloadWithURL(ctx, location, s.fsOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %v: %w", location, err)
	}
	return []byte(expandEnvExpr(string(data))), nil
}

// normalizeURL resolves a relative URL against the base URL.
func (s *Service) normalizeURL(URL string) string {
	if s.baseURL == "" || strings.Contains(URL, "://") || strings.HasPrefix(URL, "/") {
		return URL
	}
	return url.Join(s.baseURL, URL)
}
