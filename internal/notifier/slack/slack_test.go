package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/smashqueue/internal/match"
	"github.com/mauv0809/smashqueue/internal/metrics"
	"github.com/mauv0809/smashqueue/internal/players"
	"github.com/mauv0809/smashqueue/internal/queue"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	err := notifier.sendMessage(message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.NotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.NotifSent())
	assert.Equal(t, 0, metrics.NotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	err := notifier.sendMessage(slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.NotifSent())
	assert.Equal(t, 1, metrics.NotifFailed())
}

func TestSendCallUpNotification_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	entries := []queue.Entry{
		{PlayerID: 1, Position: 1},
		{PlayerID: 2, Position: 2},
	}
	called := []players.Player{
		{ID: 1, Name: "Anna"},
		{ID: 2, Name: "Bo"},
	}
	require.NoError(t, notifier.SendCallUpNotification(entries, called, false))
	assert.True(t, postMessageCalled)
}

func TestFormatCallUpNotification(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	entries := []queue.Entry{
		{PlayerID: 1, Position: 1},
		{PlayerID: 7, Position: 2},
	}
	called := []players.Player{{ID: 1, Name: "Anna"}}

	msg := notifier.formatCallUpNotification(entries, called)
	require.NotEmpty(t, msg.Blocks.BlockSet)

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "1. Anna")
	// Players missing from the directory fall back to their id.
	assert.Contains(t, section.Text.Text, "2. player 7")
}

func TestFormatResultNotification(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	ended := time.Now()
	m := &match.Match{
		ID:     "m1",
		Court:  "Court 2",
		Team1:  []int64{1, 2},
		Team2:  []int64{3, 4},
		Result: match.ResultTeam2,
		Scores: []match.GameScore{
			{Game: 1, Team1Score: 15, Team2Score: 21},
			{Game: 2, Team1Score: 18, Team2Score: 21},
		},
		EndedAt: &ended,
	}

	msg := notifier.formatResultNotification(m, []string{"Anna", "Bo"}, []string{"Clara", "Dennis"})
	require.Len(t, msg.Blocks.BlockSet, 3)

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, details.Text.Text, "Court 2")
	assert.Contains(t, details.Text.Text, "Anna & Bo vs Clara & Dennis")

	result, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, result.Text.Text, "Clara & Dennis won!")
	require.Len(t, result.Fields, 2)
	assert.Contains(t, result.Fields[0].Text, "21")
}
