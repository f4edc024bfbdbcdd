package secret

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/scy"
	"github.com/viant/scy/cred"
)

func TestService_TokenRoundTrip(t *testing.T) {
	service := New()
	ctx := context.Background()
	URL := "mem://localhost/deskly/secrets/endpoint.tok"
	key := "blowfish://default"

	err := service.Store(ctx, "tok-abc123\n", URL, key)
	assert.Nil(t, err)

	token, err := service.Token(ctx, URL, key)
	assert.Nil(t, err)
	assert.EqualValues(t, "tok-abc123", token)
}

func TestService_TokenMissing(t *testing.T) {
	service := New()
	_, err := service.Token(context.Background(), "mem://localhost/deskly/secrets/absent.tok", "blowfish://default")
	assert.NotNil(t, err)
}

func TestService_StoreEmpty(t *testing.T) {
	service := New()
	err := service.Store(context.Background(), "  ", "mem://localhost/deskly/secrets/empty.tok", "blowfish://default")
	assert.NotNil(t, err)
}

func TestService_Basic(t *testing.T) {
	ctx := context.Background()
	URL := "mem://localhost/deskly/secrets/desk.json"
	key := "blowfish://default"
	resource := scy.NewResource(&cred.Basic{}, URL, key)
	err := scy.New().Store(ctx, scy.NewSecret(&cred.Basic{Username: "support", Password: "s3cret"}, resource))
	if !assert.Nil(t, err) {
		return
	}

	basic, err := New().Basic(ctx, URL, key)
	if !assert.Nil(t, err) {
		return
	}
	assert.EqualValues(t, "support", basic.Username)
	assert.EqualValues(t, "s3cret", basic.Password)
}
