package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type parameterAPI interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// LoadSSM fills config from the AWS SSM Parameter Store path named by
// AWS_SSM_PATH. Each parameter is keyed by the last segment of its name
// (/portfolio/prod/JWT_SECRET sets JWT_SECRET). Values already present in
// config are kept. Without AWS_SSM_PATH it does nothing.
func LoadSSM(ctx context.Context, config map[string]string) (int, error) {
	prefix := GetString(config, "AWS_SSM_PATH", "")
	if prefix == "" {
		return 0, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region := GetString(config, "AWS_REGION", ""); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return 0, fmt.Errorf("loading aws config: %w", err)
	}
	return loadParameters(ctx, ssm.NewFromConfig(cfg), prefix, config)
}

func loadParameters(ctx context.Context, client parameterAPI, prefix string, config map[string]string) (int, error) {
	loaded := 0
	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	}
	for {
		out, err := client.GetParametersByPath(ctx, input)
		if err != nil {
			return loaded, fmt.Errorf("reading ssm parameters under %s: %w", prefix, err)
		}
		for _, param := range out.Parameters {
			key := path.Base(aws.ToString(param.Name))
			if key == "" || key == "." || key == "/" {
				continue
			}
			if _, ok := config[key]; ok && config[key] != "" {
				continue
			}
			config[key] = aws.ToString(param.Value)
			loaded++
		}
		if aws.ToString(out.NextToken) == "" {
			return loaded, nil
		}
		input.NextToken = out.NextToken
	}
}
