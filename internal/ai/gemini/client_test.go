package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/spigell/skillbridge/internal/ai"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeChatCreator struct {
	mu    sync.Mutex
	calls []chatCallRecord
	queue map[string][]fakeChatResponse
}

type chatCallRecord struct {
	model  string
	config *genai.GenerateContentConfig
	chat   *fakeChat
}

type fakeChatResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeChat struct {
	mu       sync.Mutex
	response fakeChatResponse
	messages []string
}

func (f *fakeChat) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, part := range parts {
		f.messages = append(f.messages, part.Text)
	}
	return f.response.resp, f.response.err
}

func newFakeChatCreator() *fakeChatCreator {
	return &fakeChatCreator{queue: make(map[string][]fakeChatResponse)}
}

func (f *fakeChatCreator) enqueue(model string, resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue[model] = append(f.queue[model], fakeChatResponse{resp: resp, err: err})
}

func (f *fakeChatCreator) Create(_ context.Context, model string, config *genai.GenerateContentConfig, _ []*genai.Content) (chatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	responses := f.queue[model]
	if len(responses) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := responses[0]
	f.queue[model] = responses[1:]
	chat := &fakeChat{response: res}
	f.calls = append(f.calls, chatCallRecord{model: model, config: config, chat: chat})
	return chat, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestAssistantAskPlainReply(t *testing.T) {
	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", textResponse(`{"reply": "Solid skills, consider more X."}`), nil)

	a := &Assistant{
		chats:  chats,
		model:  "gemini-pro",
		logger: zap.NewNop(),
	}

	reply, err := a.Ask(context.Background(), ai.NewRequest("Please analyze my resume", "Go, SQL", "Backend Developer"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if reply.Structured || reply.Text != "Solid skills, consider more X." {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(chats.calls))
	}

	call := chats.calls[0]
	if call.config == nil || call.config.SystemInstruction == nil {
		t.Fatalf("expected system instruction to be set")
	}
	if got := call.config.SystemInstruction.Parts[0].Text; !strings.Contains(got, "Backend Developer") || !strings.Contains(got, "Go, SQL") {
		t.Fatalf("unexpected system instruction: %q", got)
	}
	if call.config.ResponseMIMEType != jsonMIMEType {
		t.Fatalf("expected json response mime type, got %q", call.config.ResponseMIMEType)
	}
	if _, ok := call.config.ResponseJsonSchema.(*jsonschema.Schema); !ok {
		t.Fatalf("expected envelope schema, got %T", call.config.ResponseJsonSchema)
	}
	if len(call.chat.messages) != 1 || call.chat.messages[0] != "Please analyze my resume" {
		t.Fatalf("unexpected chat message: %+v", call.chat.messages)
	}
}

func TestAssistantAskStructuredReply(t *testing.T) {
	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", textResponse("```json\n{\"type\": \"json\", \"data\": [{\"week\": \"Week 1\", \"topic\": \"Basics\", \"details\": \"Learn syntax\"}]}\n```"), nil)

	a := &Assistant{chats: chats, model: "gemini-pro", logger: zap.NewNop()}

	reply, err := a.Ask(context.Background(), ai.NewRequest("Rust", "", ""))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !reply.Structured || len(reply.Plan) != 1 || reply.Plan[0].Week != "Week 1" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestAssistantAskDoesNotRetry(t *testing.T) {
	chats := newFakeChatCreator()
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats.enqueue("gemini-pro", nil, tempErr)
	chats.enqueue("gemini-pro", textResponse(`{"reply": "late"}`), nil)

	a := &Assistant{chats: chats, model: "gemini-pro", logger: zap.NewNop()}

	if _, err := a.Ask(context.Background(), ai.NewRequest("hi", "", "")); err == nil {
		t.Fatal("expected error")
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestAssistantAskRejectsEmptyResponse(t *testing.T) {
	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", &genai.GenerateContentResponse{}, nil)

	a := &Assistant{chats: chats, model: "gemini-pro", logger: zap.NewNop()}

	if _, err := a.Ask(context.Background(), ai.NewRequest("hi", "", "")); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestAssistantAskRejectsEmptyMessage(t *testing.T) {
	a := &Assistant{chats: newFakeChatCreator(), model: "gemini-pro", logger: zap.NewNop()}

	if _, err := a.Ask(context.Background(), ai.NewRequest("   ", "", "")); err == nil {
		t.Fatal("expected error for empty message")
	}
}
