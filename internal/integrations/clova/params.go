package clova

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Getter is the parameter lookup dependency for ParamSource, satisfied by
// paramstore.Client. Declared here so this package stays testable without
// real AWS calls.
type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// ParamSource resolves the chatbot credentials from SSM Parameter Store,
// at <prefix>/invoke-url and <prefix>/secret-key.
type ParamSource struct {
	getter Getter
	prefix string
}

func NewParamSource(g Getter, prefix string) (*ParamSource, error) {
	if g == nil {
		return nil, errors.New("clova: parameter getter must not be nil")
	}
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return nil, errors.New("clova: parameter prefix must not be empty")
	}
	return &ParamSource{getter: g, prefix: prefix}, nil
}

func (p *ParamSource) Credentials(ctx context.Context) (Credentials, error) {
	invokeURL, err := p.getter.GetParameter(ctx, p.prefix+"/invoke-url")
	if err != nil {
		return Credentials{}, fmt.Errorf("clova: load invoke URL: %w", err)
	}
	secretKey, err := p.getter.GetParameter(ctx, p.prefix+"/secret-key")
	if err != nil {
		return Credentials{}, fmt.Errorf("clova: load secret key: %w", err)
	}
	return Credentials{InvokeURL: invokeURL, SecretKey: secretKey}, nil
}
