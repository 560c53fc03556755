package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"

	"github.com/mmcdole/onesky-sync/internal/domain"
)

// SecretsAPI is the subset of the Secrets Manager client used here
type SecretsAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretResolver fills in the OneSky api secret from AWS Secrets Manager
type SecretResolver struct {
	api    SecretsAPI
	logger *slog.Logger
}

// NewSecretResolver creates a resolver using the default AWS credential chain
func NewSecretResolver(ctx context.Context, logger *slog.Logger) (*SecretResolver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSecretResolverWithAPI(secretsmanager.NewFromConfig(awsCfg), logger), nil
}

// NewSecretResolverWithAPI creates a resolver over an existing client
func NewSecretResolverWithAPI(api SecretsAPI, logger *slog.Logger) *SecretResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SecretResolver{api: api, logger: logger}
}

// NeedsSecret reports whether cfg asks for the api secret to be fetched
func NeedsSecret(cfg *Config) bool {
	return cfg.OneSky.APISecret == "" && cfg.OneSky.APISecretID != ""
}

// Resolve fetches the api secret when NeedsSecret(cfg) is true. An explicit
// api_secret always wins. Lookup failures are configuration errors.
func (r *SecretResolver) Resolve(ctx context.Context, cfg *Config) error {
	if !NeedsSecret(cfg) {
		return nil
	}

	id := cfg.OneSky.APISecretID
	// the secret id is logged, never the value
	r.logger.Debug("fetching api secret", "secret_id", id)

	out, err := r.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "ResourceNotFoundException":
				return fmt.Errorf("%w: api secret %q not found in Secrets Manager", domain.ErrConfiguration, id)
			case "AccessDeniedException":
				return fmt.Errorf("%w: access denied to api secret %q", domain.ErrConfiguration, id)
			}
		}
		return fmt.Errorf("%w: failed to fetch api secret %q: %v", domain.ErrConfiguration, id, err)
	}

	var value string
	switch {
	case out.SecretString != nil:
		value = *out.SecretString
	case len(out.SecretBinary) > 0:
		value = string(out.SecretBinary)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%w: api secret %q is empty", domain.ErrConfiguration, id)
	}

	cfg.OneSky.APISecret = value
	return nil
}
