package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/optiflow/site-backend/internal/config"
)

// EmailTarget sends a plain-text lead summary to the sales inbox via
// AWS SES. It participates in the same best-effort fan-out as the
// webhooks: a send failure is logged and nothing more.
type EmailTarget struct {
	client *sesv2.Client
	from   string
	to     []string
}

// NewEmailTarget creates an SES email target from config. Static
// credentials are used when configured; otherwise the default chain
// (IAM role on ECS) applies.
func NewEmailTarget(ctx context.Context, cfg config.NotifyConfig) (*EmailTarget, error) {
	if cfg.FromAddress == "" || len(cfg.ToAddresses) == 0 {
		return nil, fmt.Errorf("email notify requires from_address and to_addresses")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.SESRegion)}
	if cfg.SESAccessKey != "" && cfg.SESSecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.SESAccessKey, cfg.SESSecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &EmailTarget{
		client: sesv2.NewFromConfig(awsCfg),
		from:   cfg.FromAddress,
		to:     cfg.ToAddresses,
	}, nil
}

// Name identifies the target in logs.
func (t *EmailTarget) Name() string {
	return "email:sales"
}

// Deliver sends the lead summary email.
func (t *EmailTarget) Deliver(ctx context.Context, event Event) error {
	subject := fmt.Sprintf("New lead (%s): %s", event.Source, event.Fields["name"])
	body := formatLeadBody(event)

	_, err := t.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(t.from),
		Destination:      &types.Destination{ToAddresses: t.to},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}

func formatLeadBody(event Event) string {
	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "Submission %s (%s) at %s\n\n",
		event.SubmissionID, event.Source, event.SubmittedAt.UTC().Format("2006-01-02 15:04 UTC"))
	for _, k := range keys {
		if event.Fields[k] == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", k, event.Fields[k])
	}
	return b.String()
}
