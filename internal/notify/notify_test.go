// internal/notify/notify_test.go
package notify

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housing-intake/internal/common/logger"
	"housing-intake/internal/models"
)

type capturingSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (c *capturingSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	c.inputs = append(c.inputs, params)
	if c.err != nil {
		return nil, c.err
	}
	return &ses.SendEmailOutput{}, nil
}

func testCase() *models.Case {
	return &models.Case{
		ID:        "case-1",
		Reference: "SH-2026-0007",
		Status:    models.CaseStatusDocumentsPending,
		Applicant: models.Applicant{FullName: "Maria Jansen", Email: "maria@example.com"},
	}
}

func TestCaseStatusChanged(t *testing.T) {
	client := &capturingSES{}
	notifier := NewEmailNotifierWithClient(client, "noreply@housing.example", logger.NewNoOpLogger())

	err := notifier.CaseStatusChanged(context.Background(), testCase(),
		models.CaseStatusDocumentsPending, models.CaseStatusEligibilityCheck)
	require.NoError(t, err)
	require.Len(t, client.inputs, 1)

	input := client.inputs[0]
	assert.Equal(t, "noreply@housing.example", *input.Source)
	assert.Equal(t, []string{"maria@example.com"}, input.Destination.ToAddresses)
	assert.Contains(t, *input.Message.Subject.Data, "SH-2026-0007")
	assert.Contains(t, *input.Message.Body.Text.Data, "eligibility check")
	assert.Contains(t, *input.Message.Body.Text.Data, "Maria Jansen")
}

func TestCaseStatusChangedSkipsWithoutEmail(t *testing.T) {
	client := &capturingSES{}
	notifier := NewEmailNotifierWithClient(client, "noreply@housing.example", logger.NewNoOpLogger())

	c := testCase()
	c.Applicant.Email = ""
	err := notifier.CaseStatusChanged(context.Background(), c,
		models.CaseStatusNew, models.CaseStatusDocumentsPending)
	require.NoError(t, err)
	assert.Empty(t, client.inputs)
}

func TestStatusBodyCoversEveryStatus(t *testing.T) {
	c := testCase()
	for _, status := range []models.CaseStatus{
		models.CaseStatusNew,
		models.CaseStatusDocumentsPending,
		models.CaseStatusDocumentsReview,
		models.CaseStatusEligibilityCheck,
		models.CaseStatusApproved,
		models.CaseStatusRejected,
	} {
		body := statusBody(c, status)
		assert.Contains(t, body, "Maria Jansen")
		assert.Contains(t, body, "SH-2026-0007")
	}
}
