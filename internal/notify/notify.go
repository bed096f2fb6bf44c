// Package notify emails applicants when their application moves to a new
// status.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"housing-intake/internal/common/config"
	"housing-intake/internal/common/logger"
	"housing-intake/internal/models"
)

// sesAPI is the slice of the SES client the notifier uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailNotifier sends case status emails through SES.
type EmailNotifier struct {
	client sesAPI
	from   string
	log    logger.Logger
}

func NewEmailNotifier(ctx context.Context, cfg config.NotifyConfig, log logger.Logger) (*EmailNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	return &EmailNotifier{
		client: ses.NewFromConfig(awsCfg),
		from:   cfg.FromEmail,
		log:    log,
	}, nil
}

// NewEmailNotifierWithClient wires a pre-built client, used by tests.
func NewEmailNotifierWithClient(client sesAPI, from string, log logger.Logger) *EmailNotifier {
	return &EmailNotifier{client: client, from: from, log: log}
}

// CaseStatusChanged emails the applicant about the transition. Cases without
// an applicant email are skipped.
func (n *EmailNotifier) CaseStatusChanged(ctx context.Context, c *models.Case, from, to models.CaseStatus) error {
	if c.Applicant.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Your housing application %s was updated", c.Reference)
	body := statusBody(c, to)

	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(n.from),
		Destination: &types.Destination{ToAddresses: []string{c.Applicant.Email}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return err
	}

	n.log.Info("status email sent", map[string]interface{}{
		"caseId":    c.ID,
		"reference": c.Reference,
		"to":        string(to),
	})
	return nil
}

func statusBody(c *models.Case, to models.CaseStatus) string {
	greeting := fmt.Sprintf("Dear %s,\n\n", c.Applicant.FullName)
	footer := fmt.Sprintf("\n\nApplication reference: %s\n", c.Reference)

	switch to {
	case models.CaseStatusDocumentsPending:
		return greeting + "We still need some documents to progress your housing application. Please upload the missing items listed in your checklist." + footer
	case models.CaseStatusDocumentsReview:
		return greeting + "We have received your documents and a caseworker is reviewing them. You may be asked for clearer copies of some items." + footer
	case models.CaseStatusEligibilityCheck:
		return greeting + "Your document checklist is complete. Your application has moved on to the eligibility check." + footer
	case models.CaseStatusApproved:
		return greeting + "Good news: your housing application has been approved. We will contact you about the next steps." + footer
	case models.CaseStatusRejected:
		return greeting + "Unfortunately your housing application could not be approved. You will receive a letter explaining the decision and how to appeal." + footer
	default:
		return greeting + fmt.Sprintf("The status of your housing application changed to %s.", to) + footer
	}
}
