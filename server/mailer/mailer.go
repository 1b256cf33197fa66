package mailer

import (
	"context"

	"github.com/Brianmulinge/wanderi/shared"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/pkg/errors"
)

// Email is a single outbound notification. ReplyTo is optional.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
	ReplyTo string
}

// Mailer sends one email and returns the provider's opaque message id.
// The consultation endpoint depends on this interface so tests can inject
// a fake transport.
type Mailer interface {
	Send(ctx context.Context, email Email) (string, error)
}

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer delivers notifications through AWS SES.
type SESMailer struct {
	api sesAPI
}

func NewSESMailer(ctx context.Context, config shared.MailerConfig) (*SESMailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.Region))
	if err != nil {
		return nil, errors.Wrap(err, "loading aws config")
	}

	return &SESMailer{api: ses.NewFromConfig(awsCfg)}, nil
}

// NewSESMailerWithAPI wires an existing SES-compatible client; used by tests.
func NewSESMailerWithAPI(api sesAPI) *SESMailer {
	return &SESMailer{api: api}
}

func (m *SESMailer) Send(ctx context.Context, email Email) (string, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(email.From),
		Destination: &types.Destination{
			ToAddresses: []string{email.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(email.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(email.HTML),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if email.ReplyTo != "" {
		input.ReplyToAddresses = []string{email.ReplyTo}
	}

	output, err := m.api.SendEmail(ctx, input)
	if err != nil {
		return "", errors.Wrap(err, "ses send")
	}

	if output.MessageId == nil {
		return "", nil
	}
	return *output.MessageId, nil
}
