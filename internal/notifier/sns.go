package notifier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"window_advisor/internal/config"
)

// publisher is the slice of the SNS client the notifier uses.
type publisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNS publishes messages as SMS to a phone number, or to a topic.
type SNS struct {
	client      publisher
	phoneNumber string
	topicARN    string
}

// NewSNS loads the default AWS configuration for cfg.Region. Static keys and a
// custom endpoint (LocalStack) override the defaults when set.
func NewSNS(ctx context.Context, cfg config.SNSConfig) (*SNS, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}
	})
	return newSNSWithClient(client, cfg), nil
}

func newSNSWithClient(client publisher, cfg config.SNSConfig) *SNS {
	return &SNS{client: client, phoneNumber: cfg.PhoneNumber, topicARN: cfg.TopicARN}
}

func (s *SNS) Send(ctx context.Context, message string) Result {
	in := &sns.PublishInput{Message: aws.String(stripHTML(message))}
	switch {
	case s.phoneNumber != "":
		in.PhoneNumber = aws.String(s.phoneNumber)
	case s.topicARN != "":
		in.TopicArn = aws.String(s.topicARN)
	default:
		return failed(fmt.Errorf("%w: sns needs a phone number or topic arn", ErrNotConfigured))
	}

	if _, err := s.client.Publish(ctx, in); err != nil {
		return failed(fmt.Errorf("sns publish: %w", err))
	}
	return Result{OK: true}
}
