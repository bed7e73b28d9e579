package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/meguminnnnnnnnn/go-openai"
	"github.com/rs/zerolog"

	"github.com/JassK0/care-sync/internal/domain/notes"
)

// Per-call timeouts. No retries: a slow or failed oracle call is treated as
// absence of evidence and the pipeline moves on.
const (
	extractionTimeout      = 30 * time.Second
	conflictTimeout        = 15 * time.Second
	concernTimeout         = 10 * time.Second
	acknowledgementTimeout = 10 * time.Second
)

// chatCompleter is the slice of the OpenAI client the oracle uses. Tests
// substitute a canned implementation.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest, opts ...openai.ChatCompletionRequestOption) (openai.ChatCompletionResponse, error)
}

// Client implements Oracle against the OpenAI chat completion API. All
// judgment calls use a low temperature and a JSON-object response format.
type Client struct {
	chat  chatCompleter
	model string
	log   zerolog.Logger
}

func NewClient(apiKey, model string, log zerolog.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	return &Client{
		chat:  openai.NewClientWithConfig(cfg),
		model: model,
		log:   log,
	}
}

func (c *Client) ExtractFacts(ctx context.Context, noteText, noteID, authorRole string) ExtractionRecord {
	empty := ExtractionRecord{NoteID: noteID, Facts: []Fact{}}

	var rec ExtractionRecord
	err := c.completeJSON(ctx, extractionTimeout, extractionSystemPrompt, extractionPrompt(noteText, noteID, authorRole), &rec)
	if err != nil {
		c.log.Warn().Err(err).Str("note_id", noteID).Msg("fact extraction failed")
		return empty
	}

	rec.NoteID = noteID
	if rec.Facts == nil {
		rec.Facts = []Fact{}
	}
	for i := range rec.Facts {
		if rec.Facts[i].SourceQuote == "" {
			rec.Facts[i].SourceQuote = rec.Facts[i].Details
		}
	}
	return rec
}

func (c *Client) ExtractFactsBatch(ctx context.Context, ns []notes.Note) []ExtractionRecord {
	records := make([]ExtractionRecord, 0, len(ns))
	for _, n := range ns {
		records = append(records, c.ExtractFacts(ctx, n.NoteText, n.NoteID, n.AuthorRole))
	}
	return records
}

func (c *Client) DetectConflict(ctx context.Context, note1, note2 notes.Note, facts1, facts2 []Fact) (*ConflictResult, bool) {
	var result ConflictResult
	err := c.completeJSON(ctx, conflictTimeout, conflictSystemPrompt, conflictPrompt(note1, note2, facts1, facts2), &result)
	if err != nil {
		c.log.Warn().Err(err).
			Str("note_id_1", note1.NoteID).
			Str("note_id_2", note2.NoteID).
			Msg("conflict detection failed")
		return nil, false
	}
	if !result.IsConflict {
		return nil, false
	}
	return &result, true
}

func (c *Client) SameConcern(ctx context.Context, fact1, fact2 Fact, role1, role2 string) bool {
	var result sameConcernResult
	err := c.completeJSON(ctx, concernTimeout, sameConcernSystemPrompt, sameConcernPrompt(fact1, fact2, role1, role2), &result)
	if err != nil {
		c.log.Warn().Err(err).Msg("same-concern check failed")
		return false
	}
	return result.IsSameConcern
}

func (c *Client) Acknowledged(ctx context.Context, concern, physician Fact) bool {
	var result acknowledgementResult
	err := c.completeJSON(ctx, acknowledgementTimeout, acknowledgementSystemPrompt, acknowledgementPrompt(concern, physician), &result)
	if err != nil {
		c.log.Warn().Err(err).Msg("acknowledgement check failed")
		return false
	}
	return result.IsAcknowledged
}

func (c *Client) GenerateBrief(ctx context.Context, facts []BriefFact, alerts []BriefAlert) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, extractionTimeout)
	defer cancel()

	temperature := float32(0.2)
	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: &temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: briefSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: briefPrompt(facts, alerts)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("generate brief: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generate brief: empty response")
	}

	brief := resp.Choices[0].Message.Content
	// The prompt asks for a "Brief:" prefix; strip it when present.
	if idx := strings.LastIndex(brief, "Brief:"); idx >= 0 {
		brief = brief[idx+len("Brief:"):]
	}
	return strings.TrimSpace(brief), nil
}

// completeJSON issues a single JSON-mode chat completion and unmarshals the
// first choice into target. Bounded by the given timeout, never retried.
func (c *Client) completeJSON(ctx context.Context, timeout time.Duration, system, user string, target interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	temperature := float32(0.1)
	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: &temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("chat completion: no choices returned")
	}

	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), target); err != nil {
		return fmt.Errorf("parse oracle response: %w", err)
	}
	return nil
}
