package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/smashqueue/internal/match"
	"github.com/mauv0809/smashqueue/internal/metrics"
	"github.com/mauv0809/smashqueue/internal/notifier"
	"github.com/mauv0809/smashqueue/internal/players"
	"github.com/mauv0809/smashqueue/internal/queue"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) error {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

// SendCallUpNotification announces which players are up next.
func (s *Notifier) SendCallUpNotification(entries []queue.Entry, called []players.Player, dryRun bool) error {
	msg := s.formatCallUpNotification(entries, called)
	return s.sendMessage(msg, dryRun)
}

// SendResultNotification announces a completed match with its score line.
func (s *Notifier) SendResultNotification(m *match.Match, team1Names, team2Names []string, dryRun bool) error {
	msg := s.formatResultNotification(m, team1Names, team2Names)
	return s.sendMessage(msg, dryRun)
}

// formatCallUpNotification creates the Slack message for a queue call-up using Block Kit.
func (s *Notifier) formatCallUpNotification(entries []queue.Entry, called []players.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "You're up! Head to the court", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	names := make(map[int64]string, len(called))
	for _, p := range called {
		names[p.ID] = p.Name
	}

	var lines []string
	for _, e := range entries {
		name := names[e.PlayerID]
		if name == "" {
			name = fmt.Sprintf("player %d", e.PlayerID)
		}
		lines = append(lines, fmt.Sprintf("%d. %s", e.Position, name))
	}
	if len(lines) > 0 {
		playersText := "Called players:\n" + strings.Join(lines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playersText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatResultNotification creates the Slack message for a finished match using Block Kit.
func (s *Notifier) formatResultNotification(m *match.Match, team1Names, team2Names []string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "Match finished!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	team1 := strings.Join(team1Names, " & ")
	team2 := strings.Join(team2Names, " & ")
	detailsText := fmt.Sprintf("%s\n%s vs %s", m.Court, team1, team2)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, false, false), nil, nil))

	var resultText string
	switch m.Result {
	case match.ResultTeam1:
		resultText = fmt.Sprintf("Result: %s won!", team1)
	case match.ResultTeam2:
		resultText = fmt.Sprintf("Result: %s won!", team2)
	default:
		resultText = "Result: Draw"
	}

	var scoreFields []*slack.TextBlockObject
	for _, score := range m.Scores {
		gameText := fmt.Sprintf("Game %d\n%d - %d", score.Game, score.Team1Score, score.Team2Score)
		scoreFields = append(scoreFields, slack.NewTextBlockObject("plain_text", gameText, true, false))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), scoreFields, nil))

	return slack.NewBlockMessage(blocks...)
}
