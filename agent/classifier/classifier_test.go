package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/techmart/support-chat/agent/contract"
)

type fakeCompleter struct {
	content string
	err     error
	calls   int
	lastReq openaisdk.ChatCompletionNewParams
}

func (f *fakeCompleter) New(ctx context.Context, body openaisdk.ChatCompletionNewParams, opts ...option.RequestOption) (*openaisdk.ChatCompletion, error) {
	f.calls++
	f.lastReq = body
	if f.err != nil {
		return nil, f.err
	}
	return &openaisdk.ChatCompletion{
		Choices: []openaisdk.ChatCompletionChoice{
			{Message: openaisdk.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func newTestClassifier(t *testing.T, completer ChatCompleter) *Classifier {
	t.Helper()
	c, err := New(completer, "gpt-4o-mini", Config{MaxTokens: 150, Temperature: 0.1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, "gpt-4o-mini", Config{}); !errors.Is(err, contractx.ErrValidation) {
		t.Errorf("New(nil completer) error = %v, want ErrValidation", err)
	}
	if _, err := New(&fakeCompleter{}, "  ", Config{}); !errors.Is(err, contractx.ErrValidation) {
		t.Errorf("New(blank model) error = %v, want ErrValidation", err)
	}
}

func TestClassifyParsesVerdict(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{content: `{"intent":"SEARCH_PRODUCTS","confidence":0.93,"entities":["gaming","laptop"],"reasoning":"product search"}`}
	c := newTestClassifier(t, fake)

	got := c.Classify(context.Background(), "find me a gaming laptop", "glee@example.net")

	if got.Intent != contractx.IntentSearchProducts {
		t.Errorf("Intent = %q, want SEARCH_PRODUCTS", got.Intent)
	}
	if got.Confidence != 0.93 {
		t.Errorf("Confidence = %v, want 0.93", got.Confidence)
	}
	if len(got.Entities) != 2 || got.Entities[0] != "gaming" || got.Entities[1] != "laptop" {
		t.Errorf("Entities = %v, want [gaming laptop]", got.Entities)
	}
}

func TestClassifyBuildsUserPrompt(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{content: `{"intent":"OTHER","confidence":0.9,"entities":[]}`}
	c := newTestClassifier(t, fake)

	c.Classify(context.Background(), "hello there", "glee@example.net")

	if fake.calls != 1 {
		t.Fatalf("completer calls = %d, want 1", fake.calls)
	}
	if len(fake.lastReq.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(fake.lastReq.Messages))
	}
	user := fake.lastReq.Messages[1].OfUser
	if user == nil {
		t.Fatal("second message is not a user message")
	}
	prompt := user.Content.OfString.Value
	if !strings.Contains(prompt, "Customer: glee@example.net") || !strings.Contains(prompt, "Message: hello there") {
		t.Errorf("user prompt = %q, want customer and message lines", prompt)
	}
}

func TestClassifyFallsBack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fake *fakeCompleter
	}{
		{name: "transport error", fake: &fakeCompleter{err: errors.New("connection reset")}},
		{name: "not json", fake: &fakeCompleter{content: "I think this is a product search."}},
		{name: "unknown category", fake: &fakeCompleter{content: `{"intent":"REFUNDS","confidence":0.9,"entities":[]}`}},
		{name: "confidence above one", fake: &fakeCompleter{content: `{"intent":"OTHER","confidence":1.5,"entities":[]}`}},
		{name: "negative confidence", fake: &fakeCompleter{content: `{"intent":"OTHER","confidence":-0.1,"entities":[]}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClassifier(t, tt.fake)
			got := c.Classify(context.Background(), "any message", "customer")

			want := contractx.ClassificationResult{
				Intent:     contractx.IntentOther,
				Confidence: 0.5,
				Entities:   []string{},
				Reasoning:  "Classification failed",
			}
			if got.Intent != want.Intent || got.Confidence != want.Confidence || got.Reasoning != want.Reasoning {
				t.Errorf("Classify() = %+v, want fallback %+v", got, want)
			}
			if got.Entities == nil || len(got.Entities) != 0 {
				t.Errorf("Entities = %v, want empty slice", got.Entities)
			}
		})
	}
}

func TestClassifyNilEntitiesBecomeEmpty(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{content: `{"intent":"ORDER_STATUS","confidence":0.8}`}
	c := newTestClassifier(t, fake)

	got := c.Classify(context.Background(), "where is my order", "customer")
	if got.Intent != contractx.IntentOrderStatus {
		t.Fatalf("Intent = %q, want ORDER_STATUS", got.Intent)
	}
	if got.Entities == nil {
		t.Error("Entities = nil, want empty slice")
	}
}
