package channel

import (
	"context"

	"storefront-notifications/internal/common/errors"
	"storefront-notifications/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the slice of the SES client this sender needs, for mocking.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESEmail sends email through Amazon SES.
type SESEmail struct {
	client    SESAPI
	fromEmail string
	logger    logger.Logger
}

func NewSESEmail(ctx context.Context, region, fromEmail string, log logger.Logger) (*SESEmail, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESEmail{
		client:    ses.NewFromConfig(awsCfg),
		fromEmail: fromEmail,
		logger:    log.WithFields(map[string]interface{}{"channel": "email", "provider": "ses"}),
	}, nil
}

// NewSESEmailWithClient wires a prebuilt client, used by tests.
func NewSESEmailWithClient(client SESAPI, fromEmail string, log logger.Logger) *SESEmail {
	return &SESEmail{
		client:    client,
		fromEmail: fromEmail,
		logger:    log.WithFields(map[string]interface{}{"channel": "email", "provider": "ses"}),
	}
}

func (s *SESEmail) Send(ctx context.Context, to, subject, htmlBody string) Result {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
			},
		},
		Source: aws.String(s.fromEmail),
	})
	if err != nil {
		s.logger.Error("email send failed", map[string]interface{}{
			"error": err,
			"to":    to,
		})
		return Result{Err: errors.NewChannelSendFailedError("email", err)}
	}
	return Result{Success: true}
}
