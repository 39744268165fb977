package sentiment

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Scorer rates recent news sentiment for a symbol on [-1, 1], with a short
// human-readable summary of the read.
type Scorer interface {
	Score(ctx context.Context, symbol string) (float64, string, error)
}

// NeutralScorer is the no-API fallback. It always reports neutral so a
// missing key never blocks an analysis pass.
type NeutralScorer struct{}

func (NeutralScorer) Score(ctx context.Context, symbol string) (float64, string, error) {
	return 0, "Sentiment analysis unavailable; treating news flow as neutral.", nil
}

const scorerSystemPrompt = "You are a financial news sentiment rater. " +
	"Given a stock ticker, rate the overall sentiment of its recent news coverage " +
	"as a single number between -1.0 (very negative) and 1.0 (very positive). " +
	"Reply with the number, then a colon, then one short sentence of justification."

// OpenAIScorer asks a chat model for a sentiment rating. Malformed replies
// are an error; callers substitute neutral.
type OpenAIScorer struct {
	client openai.Client
	model  openai.ChatModel
}

func NewOpenAIScorer(apiKey, model string) *OpenAIScorer {
	m := openai.ChatModelGPT4oMini
	if model != "" {
		m = openai.ChatModel(model)
	}
	return &OpenAIScorer{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  m,
	}
}

func (s *OpenAIScorer) Score(ctx context.Context, symbol string) (float64, string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(scorerSystemPrompt),
			openai.UserMessage(fmt.Sprintf("Ticker: %s", symbol)),
		},
	})
	if err != nil {
		return 0, "", fmt.Errorf("sentiment request for %s: %w", symbol, err)
	}
	if len(resp.Choices) == 0 {
		return 0, "", fmt.Errorf("sentiment request for %s: empty response", symbol)
	}

	score, summary, err := parseReply(resp.Choices[0].Message.Content)
	if err != nil {
		log.Printf("Warning: unparseable sentiment reply for %s: %v", symbol, err)
		return 0, "", err
	}
	return score, summary, nil
}

// parseReply accepts "<number>: <summary>" and bare-number replies, clamping
// the score to [-1, 1].
func parseReply(content string) (float64, string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, "", fmt.Errorf("empty reply")
	}

	numPart := content
	summary := ""
	if idx := strings.Index(content, ":"); idx >= 0 {
		numPart = content[:idx]
		summary = strings.TrimSpace(content[idx+1:])
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(numPart), 64)
	if err != nil {
		return 0, "", fmt.Errorf("no leading score in %q", content)
	}
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}
	if summary == "" {
		summary = "No summary provided."
	}
	return score, summary, nil
}
