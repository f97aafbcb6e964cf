package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterStore is the subset of the SSM client used to read configuration.
type ParameterStore interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// NewParameterStore builds an SSM client from the default AWS credential chain.
func NewParameterStore(ctx context.Context, region string) (ParameterStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// OverlayParameters copies every parameter stored under prefix into config.
// "/mosaic/prod/DATABASE_URL" becomes the key DATABASE_URL. Values already set
// in the environment win over stored ones.
func OverlayParameters(ctx context.Context, store ParameterStore, prefix string, config map[string]string) error {
	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	}

	loaded := 0
	for {
		out, err := store.GetParametersByPath(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to read parameters under %s: %w", prefix, err)
		}

		for _, p := range out.Parameters {
			key := strings.ToUpper(path.Base(aws.ToString(p.Name)))
			if key == "" || key == "/" || key == "." {
				continue
			}
			if existing, ok := config[key]; ok && existing != "" {
				continue
			}
			config[key] = aws.ToString(p.Value)
			loaded++
		}

		if out.NextToken == nil || aws.ToString(out.NextToken) == "" {
			break
		}
		input.NextToken = out.NextToken
	}

	log.Info().Str("path", prefix).Int("parameters", loaded).Msg("Loaded configuration from SSM")
	return nil
}
