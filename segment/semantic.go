package segment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const semanticDelimiter = "|||"

const semanticPromptTemplate = `Think as a professional short-form video maker. Split this text into exactly %d logical sections. Make sure the sections are not too long so that the viewer can follow the video intuitively, and avoid long sentences. Return only the split text separated by %q:

%s`

// semanticStrategy asks a text-generation capability (Groq's OpenAI-compatible
// chat API) to split the text into exactly targetScenes labeled segments. The
// result is trusted only when the returned segment count matches the request
// exactly; otherwise the segmenter falls through to the sentence strategy.
type semanticStrategy struct {
	model        string
	temperature  float64
	targetScenes int
	httpClient   *http.Client
}

func newSemanticStrategy(model string, temperature float64, targetScenes int) *semanticStrategy {
	return &semanticStrategy{
		model:        model,
		temperature:  temperature,
		targetScenes: targetScenes,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *semanticStrategy) Name() string { return "semantic" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *semanticStrategy) Split(ctx context.Context, text string) ([]string, error) {
	if s.targetScenes <= 0 {
		return nil, fmt.Errorf("semantic split needs a target scene count")
	}
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY not set")
	}

	prompt := fmt.Sprintf(semanticPromptTemplate, s.targetScenes, semanticDelimiter, text)
	reqBody := chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: s.temperature,
		MaxTokens:   2048,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.groq.com/openai/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("semantic split request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var chat chatResponse
	if err := json.Unmarshal(respBytes, &chat); err != nil {
		return nil, fmt.Errorf("parse semantic response: %w", err)
	}
	if chat.Error != nil {
		return nil, fmt.Errorf("semantic split: %s", chat.Error.Message)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("semantic split returned no choices")
	}

	return s.parseSegments(chat.Choices[0].Message.Content)
}

func (s *semanticStrategy) parseSegments(content string) ([]string, error) {
	var segments []string
	for _, seg := range strings.Split(content, semanticDelimiter) {
		if t := strings.TrimSpace(seg); t != "" {
			segments = append(segments, t)
		}
	}
	if len(segments) != s.targetScenes {
		return nil, fmt.Errorf("%w: wanted %d, got %d", errSegmentCountMismatch, s.targetScenes, len(segments))
	}
	return segments, nil
}
