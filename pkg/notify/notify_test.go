package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confposter/pkg/logger"
	"confposter/pkg/models"
)

// fakeSender records sent messages.
type fakeSender struct {
	to       []string
	subjects []string
	bodies   []string
	err      error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	return nil
}

func TestCommitFailedSendsAlert(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, logger.NewTestLogger())

	row := models.Confession{SrNo: 42, ImagekitURL: "https://ik.example.com/42.png"}
	n.CommitFailed(context.Background(), "ops@example.com", "confessions_fc", row)

	require.Len(t, sender.to, 1)
	assert.Equal(t, "ops@example.com", sender.to[0])
	assert.Contains(t, sender.subjects[0], "sr_no 42")
	assert.Contains(t, sender.bodies[0], "https://ik.example.com/42.png")
	assert.Contains(t, sender.bodies[0], "confessions_fc")
	assert.Contains(t, sender.bodies[0], "Manual intervention")
}

func TestCommitFailedSwallowsDeliveryError(t *testing.T) {
	log := logger.NewTestLogger()
	n := NewNotifier(&fakeSender{err: errors.New("smtp down")}, log)

	// Must not panic or propagate; the failure only gets logged.
	n.CommitFailed(context.Background(), "ops@example.com", "confessions_fc", models.Confession{SrNo: 1})

	assert.True(t, log.HasMessage("failed to send commit failure alert"))
}
