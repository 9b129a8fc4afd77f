package channel

import (
	"context"

	"storefront-notifications/internal/common/errors"
	"storefront-notifications/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the slice of the SNS client this sender needs, for mocking.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSMS sends SMS through Amazon SNS.
type SNSSMS struct {
	client   SNSAPI
	senderID string
	logger   logger.Logger
}

func NewSNSSMS(ctx context.Context, region, senderID string, log logger.Logger) (*SNSSMS, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSSMS{
		client:   sns.NewFromConfig(awsCfg),
		senderID: senderID,
		logger:   log.WithFields(map[string]interface{}{"channel": "sms", "provider": "sns"}),
	}, nil
}

// NewSNSSMSWithClient wires a prebuilt client, used by tests.
func NewSNSSMSWithClient(client SNSAPI, senderID string, log logger.Logger) *SNSSMS {
	return &SNSSMS{
		client:   client,
		senderID: senderID,
		logger:   log.WithFields(map[string]interface{}{"channel": "sms", "provider": "sns"}),
	}
}

func (s *SNSSMS) Send(ctx context.Context, phone, title, body string) Result {
	message := body
	if title != "" {
		message = title + ": " + body
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
	}
	if s.senderID != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(s.senderID),
			},
		}
	}

	_, err := s.client.Publish(ctx, input)
	if err != nil {
		s.logger.Error("SMS send failed", map[string]interface{}{
			"error": err,
			"phone": phone,
		})
		return Result{Err: errors.NewChannelSendFailedError("sms", err)}
	}
	return Result{Success: true}
}
