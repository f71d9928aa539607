// Package dynamodb archives computed estimates in Amazon DynamoDB.
package dynamodb

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/hail-damage-service/internal/config"
)

// NewClient creates a DynamoDB client from the service configuration.
// With DYNAMODB_ENDPOINT set (DynamoDB Local), static credentials are used
// because the SDK requires some even when the endpoint ignores them.
func NewClient(ctx context.Context, cfg *config.Config) (*dynamodb.Client, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	}), nil
}

func loadAWSConfig(ctx context.Context, region, endpoint string) (aws.Config, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if endpoint != "" {
		creds := credentials.NewStaticCredentialsProvider(
			sharedcfg.EnvOrDefault("AWS_ACCESS_KEY_ID", "local"),
			sharedcfg.EnvOrDefault("AWS_SECRET_ACCESS_KEY", "local"),
			os.Getenv("AWS_SESSION_TOKEN"),
		)
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(creds))
	}
	return awsconfig.LoadDefaultConfig(ctx, loadOpts...)
}
