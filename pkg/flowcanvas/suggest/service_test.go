package suggest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/llm"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/retry"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/suggest"
)

func fastRetry() retry.Config {
	return retry.New(retry.WithInitialBackoff(time.Millisecond), retry.WithJitter(0))
}

func TestLLMService_Suggest(t *testing.T) {
	mock := llm.NewMockClient(`{"steps":[{"kind":"start"},{"kind":"agent","label":"Greet"},{"kind":"end"}],"fields":{"title":"Refunds"}}`)
	svc := suggest.NewLLMService(mock, suggest.WithModel("sonnet"))

	current := graph.NewDocument()
	_, err := current.AddNode(graph.KindAgent, graph.Position{})
	require.NoError(t, err)

	p, err := svc.Suggest(context.Background(), "Design a refund call", current)
	require.NoError(t, err)
	assert.Len(t, p.Entries, 3)
	assert.Equal(t, "Refunds", p.Fields["title"])

	call := mock.LastCall()
	require.NotNil(t, call)
	assert.Equal(t, suggest.DefaultSystemPrompt, call.SystemPrompt)
	assert.Equal(t, "sonnet", call.Model)
	assert.Contains(t, call.Messages[0].Content, "Design a refund call")
	assert.Contains(t, call.Messages[0].Content, "- agent: Agent")
}

func TestLLMService_PromptListsFieldsInOrder(t *testing.T) {
	mock := llm.NewMockClient("[]")
	svc := suggest.NewLLMService(mock)

	current := graph.NewDocument()
	for _, k := range []string{"title", "goal", "owner", "channel", "audience"} {
		current.Fields[k] = k + " value"
	}

	var prompts []string
	for range 5 {
		_, err := svc.Suggest(context.Background(), "Extend it", current)
		require.NoError(t, err)
		prompts = append(prompts, mock.LastCall().Messages[0].Content)
	}
	for _, p := range prompts[1:] {
		assert.Equal(t, prompts[0], p)
	}
	assert.Contains(t, prompts[0], "audience: audience value\nchannel: channel value\ngoal: goal value\nowner: owner value\ntitle: title value\n")
}

func TestLLMService_EmptyPrompt(t *testing.T) {
	mock := llm.NewMockClient("[]")
	_, err := suggest.NewLLMService(mock).Suggest(context.Background(), "  ", nil)
	assert.ErrorIs(t, err, suggest.ErrMergeRejected)
	assert.Equal(t, 0, mock.CallCount())
}

func TestLLMService_MalformedReply(t *testing.T) {
	mock := llm.NewMockClient("I cannot help with that.")
	_, err := suggest.NewLLMService(mock).Suggest(context.Background(), "x", nil)
	assert.ErrorIs(t, err, suggest.ErrMergeRejected)
}

func TestLLMService_RetriesRetryableErrors(t *testing.T) {
	mock := llm.NewMockClient("").WithError(llm.NewError("complete", errors.New("overloaded"), true))
	svc := suggest.NewLLMService(mock, suggest.WithRetry(fastRetry()))

	_, err := svc.Suggest(context.Background(), "x", nil)
	require.Error(t, err)
	assert.Equal(t, retry.Default.MaxAttempts, mock.CallCount())
}

func TestLLMService_NoRetryOnPermanent(t *testing.T) {
	mock := llm.NewMockClient("").WithError(llm.NewError("complete", errors.New("bad key"), false))
	svc := suggest.NewLLMService(mock, suggest.WithRetry(fastRetry()))

	_, err := svc.Suggest(context.Background(), "x", nil)
	require.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestStaticService(t *testing.T) {
	want := suggest.Payload{Entries: []suggest.Entry{{Kind: "agent"}}}
	p, err := suggest.StaticService{Payload: want}.Suggest(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, want, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = suggest.StaticService{}.Suggest(ctx, "", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

var _ suggest.Service = (*suggest.LLMService)(nil)
