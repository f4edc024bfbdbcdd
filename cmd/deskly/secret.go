package main

import (
	"context"
	"fmt"

	"github.com/viant/deskly/service/secret"
)

// SecretCmd provisions or reveals endpoint credentials stored as scy
// resources, so endpoint configs reference a URL instead of a plain token.
type SecretCmd struct {
	Content   string `long:"content" description:"token to encrypt and store"`
	DestURL   string `long:"dest" description:"destination URL for the encrypted secret"`
	SourceURL string `long:"source" description:"URL of an encrypted secret to reveal"`
	Key       string `long:"key" description:"encryption key" default:"blowfish://default"`
}

func (s *SecretCmd) Execute(_ []string) error {
	service := secret.New()
	ctx := context.Background()
	switch {
	case s.Content != "" && s.DestURL != "":
		if err := service.Store(ctx, s.Content, s.DestURL, s.Key); err != nil {
			return err
		}
		fmt.Printf("secret stored at %s\n", s.DestURL)
		return nil
	case s.SourceURL != "":
		token, err := service.Token(ctx, s.SourceURL, s.Key)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	default:
		return fmt.Errorf("either --content with --dest or --source is required")
	}
}
