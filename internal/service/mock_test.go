package service

import (
	"context"
	"sync"

	"github.com/alexanderramin/aiscribe/internal/llm"
)

// scriptedClient answers per task and counts every request.
type scriptedClient struct {
	mu        sync.Mutex
	byTask    map[llm.TaskType]string
	errByTask map[llm.TaskType]error
	calls     map[llm.TaskType]int
	requests  []llm.GenerateRequest
	// onCall runs before each response is produced.
	onCall func(req llm.GenerateRequest)
}

func newScriptedClient(byTask map[llm.TaskType]string) *scriptedClient {
	return &scriptedClient{
		byTask:    byTask,
		errByTask: map[llm.TaskType]error{},
		calls:     map[llm.TaskType]int{},
	}
}

func (c *scriptedClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	c.mu.Lock()
	c.calls[req.Task]++
	c.requests = append(c.requests, req)
	onCall := c.onCall
	err := c.errByTask[req.Task]
	text := c.byTask[req.Task]
	c.mu.Unlock()

	if onCall != nil {
		onCall(req)
	}
	if err != nil {
		return nil, err
	}
	return &llm.GenerateResponse{Text: text, Model: "gpt-4o-mini"}, nil
}

func (c *scriptedClient) Available(context.Context) bool { return true }

func (c *scriptedClient) count(task llm.TaskType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[task]
}

type recordingLLMObserver struct {
	llm.NoopObserver
	fallbacks []llm.FallbackEvent
}

func (o *recordingLLMObserver) OnFallback(e llm.FallbackEvent) { o.fallbacks = append(o.fallbacks, e) }

type recordingUseCaseObserver struct {
	events []UseCaseEvent
}

func (o *recordingUseCaseObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}

const knightAnalysis = `{
  "keywords": ["knight", "castle"],
  "categorized_elements": {"Characters": ["knight"], "Places": ["castle"]},
  "atmosphere": "heroic"
}`

const knightQuestion = `Here is the next question:
{"id": "q_next", "module": "character", "category": "appearance",
 "question": "What armor does the knight wear?",
 "options": ["Plate armor", "Chain mail"], "examples": ["Polished silver plate"]}`

func knightClient() *scriptedClient {
	return newScriptedClient(map[llm.TaskType]string{
		llm.TaskPromptAnalysis:   knightAnalysis,
		llm.TaskModuleSuggest:    `{"character": {"suggestions": ["armor details"]}}`,
		llm.TaskResponseAnalysis: `{"character": 0.9, "setting": 0.1, "atmosphere": 0, "action": 0}`,
		llm.TaskQuestion:         knightQuestion,
		llm.TaskSynthesis:        "  A knight in polished silver plate before a castle, cinematic lighting  ",
	})
}
