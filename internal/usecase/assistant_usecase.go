package usecase

import (
	"context"
	"errors"
	"strings"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/infrastructure/assistant"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Only the most recent turns are forwarded.
const maxAssistantTurns = 20

const (
	assistantNotReadyReply = "העוזר הלימודי עדיין בהקמה. פנו אלינו ב-WhatsApp לכל שאלה."
	assistantFailedReply   = "העוזר הלימודי לא זמין כרגע. בינתיים, פנו אלינו ב-WhatsApp לכל שאלה על הקורס."
)

const assistantSystemPrompt = `אתה עוזר לימודי בקורס NLP פרקטישנר ומאסטר פרקטישנר של "מטפל לכל אחד".
ענה על שאלות על חומרי הקורס, הטכניקות והתרגולים, והסבר מושגים בעברית פשוטה.
נושאי הקורס: הנחות היסוד של NLP, מערכות ייצוג ותנועות עיניים, עוגנים, מטא-מודל ומילטון-מודל,
רפריימינג, תת-אופנויות, קווי זמן, אסטרטגיות, מחיקות עיוותים והכללות, ראפור, פוביות,
אינטגרציית חלקים, מטא-תוכניות ומודלינג.
ענה תמיד בעברית, בקצרה (3-5 משפטים אלא אם נדרש יותר). אל תמציא מידע; אם אינך בטוח, אמור זאת.
שאלה שאינה קשורה לקורס: הפנה בעדינות חזרה לנושאי הקורס.`

var ErrEmptyMessage = errors.New("message is required")

type AssistantUsecase interface {
	Ask(ctx context.Context, userID uuid.UUID, req *dto.AssistantRequest) (*dto.AssistantResponse, error)
}

type assistantUsecase struct {
	log    *logrus.Logger
	client assistant.Client
}

// NewAssistantUsecase accepts a nil client; every question then gets the
// "not set up yet" reply.
func NewAssistantUsecase(log *logrus.Logger, client assistant.Client) AssistantUsecase {
	return &assistantUsecase{log: log, client: client}
}

// Ask never surfaces upstream failures to the student: they are logged and
// answered with a fallback reply.
func (u *assistantUsecase) Ask(ctx context.Context, userID uuid.UUID, req *dto.AssistantRequest) (*dto.AssistantResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if u.client == nil {
		return &dto.AssistantResponse{Reply: assistantNotReadyReply}, nil
	}

	reply, err := u.client.Reply(ctx, assistantSystemPrompt, conversation(req.History, message))
	if err != nil {
		u.log.WithField("user_id", userID).Warnf("Failed to get assistant reply: %+v", err)
		return &dto.AssistantResponse{Reply: assistantFailedReply}, nil
	}
	return &dto.AssistantResponse{Reply: reply}, nil
}

// conversation keeps user and assistant turns, trims to the most recent ones
// and makes sure the new message is last.
func conversation(history []dto.AssistantTurn, message string) []assistant.Turn {
	turns := make([]assistant.Turn, 0, len(history)+1)
	for _, t := range history {
		if t.Role != "user" && t.Role != "assistant" {
			continue
		}
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		turns = append(turns, assistant.Turn{Role: t.Role, Content: t.Content})
	}
	if n := len(turns); n == 0 || turns[n-1].Role != "user" || strings.TrimSpace(turns[n-1].Content) != message {
		turns = append(turns, assistant.Turn{Role: "user", Content: message})
	}
	if len(turns) > maxAssistantTurns {
		turns = turns[len(turns)-maxAssistantTurns:]
	}
	// The Messages API requires the first turn to come from the user.
	for len(turns) > 1 && turns[0].Role != "user" {
		turns = turns[1:]
	}
	return turns
}
