// Package bedrock binds the summarization service boundary to Amazon
// Bedrock's Converse API.
package bedrock

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	smithy "github.com/aws/smithy-go"
	"github.com/voicebrief-ai/audio-pipeline/pkg/model"
	"github.com/voicebrief-ai/audio-pipeline/pkg/utils"
)

const (
	providerName  = "bedrock"
	defaultRegion = "us-east-1"
)

// Config carries the Bedrock endpoint override; credentials come from the
// standard AWS environment.
type Config struct {
	BaseURL string
}

func newClient(ctx context.Context, cfg Config) (*bedrockruntime.Client, error) {
	awsCfg, err := loadAWSConfig(ctx)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		if strings.TrimSpace(cfg.BaseURL) != "" {
			o.BaseEndpoint = aws.String(strings.TrimSpace(cfg.BaseURL))
		}
	})
	return client, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	region := strings.TrimSpace(os.Getenv("AWS_REGION"))
	if region == "" {
		region = defaultRegion
	}

	accessKeyID := strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID"))
	secretAccessKey := strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY"))
	profile := strings.TrimSpace(os.Getenv("AWS_PROFILE"))

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	switch {
	case accessKeyID != "" || secretAccessKey != "":
		if accessKeyID == "" || secretAccessKey == "" {
			return aws.Config{}, utils.WrapIfNotNil(
				errors.New("both AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required when using key-based auth"),
			)
		}

		sessionToken := strings.TrimSpace(os.Getenv("AWS_SESSION_TOKEN"))
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, sessionToken),
		))
	case profile != "":
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(profile))
	default:
		return aws.Config{}, utils.WrapIfNotNil(
			errors.New("missing AWS credentials: set AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY or AWS_PROFILE"),
		)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, utils.WrapIfNotNil(err)
	}
	return awsCfg, nil
}

// mapAPIError normalizes smithy failures onto the ServiceError taxonomy.
// Bedrock reports exception names, not HTTP codes, so each name maps to
// the nearest status class.
func mapAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	message := strings.TrimSpace(apiErr.ErrorMessage())
	if message == "" {
		message = apiErr.ErrorCode()
	}

	switch apiErr.ErrorCode() {
	case "ResourceNotFoundException", "ModelNotReadyException":
		return model.NewServiceError(http.StatusNotFound, message)
	case "ValidationException":
		return model.NewServiceError(http.StatusBadRequest, message)
	case "ThrottlingException", "ModelTimeoutException":
		return model.NewServiceError(http.StatusTooManyRequests, message)
	case "AccessDeniedException", "UnrecognizedClientException":
		return model.NewServiceError(http.StatusUnauthorized, message)
	case "ServiceUnavailableException", "InternalServerException":
		return model.NewServiceError(http.StatusServiceUnavailable, message)
	default:
		return model.NewServiceError(http.StatusInternalServerError, message)
	}
}
