package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// streamRecorder collects everything a streaming call delivered through
// its callbacks.
type streamRecorder struct {
	chunks    []string
	completes int
	errs      []error
}

func (r *streamRecorder) onChunk(chunk string) { r.chunks = append(r.chunks, chunk) }
func (r *streamRecorder) onComplete()          { r.completes++ }
func (r *streamRecorder) onError(err error)    { r.errs = append(r.errs, err) }

func sseFrame(content string) string {
	b, _ := json.Marshal(StreamChunk{
		Choices: []DeltaChoice{{Delta: Delta{Content: content}}},
	})
	return fmt.Sprintf("data: %s\n", b)
}

func streamingServer(t *testing.T, lines ...string) *Client {
	t.Helper()
	return newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var request ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.True(t, request.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		for _, line := range lines {
			_, _ = w.Write([]byte(line))
			flusher.Flush()
		}
	})
}

func TestStreamingDeliversChunksInOrder(t *testing.T) {
	client := streamingServer(t,
		sseFrame("Il "),
		sseFrame("contratto "),
		sseFrame("è valido."),
		"data: [DONE]\n",
	)

	recorder := &streamRecorder{}
	client.CreateStreamingChatCompletion(context.Background(), ChatCompletionRequest{Model: "model-x"}, recorder.onChunk, recorder.onComplete, recorder.onError)

	assert.Equal(t, []string{"Il ", "contratto ", "è valido."}, recorder.chunks)
	assert.Equal(t, "Il contratto è valido.", strings.Join(recorder.chunks, ""))
	assert.Equal(t, 1, recorder.completes)
	assert.Empty(t, recorder.errs)
}

func TestStreamingStopsAtDoneSentinel(t *testing.T) {
	client := streamingServer(t,
		sseFrame("prima"),
		"data: [DONE]\n",
		sseFrame("dopo il sentinello"),
	)

	recorder := &streamRecorder{}
	client.CreateStreamingChatCompletion(context.Background(), ChatCompletionRequest{Model: "model-x"}, recorder.onChunk, recorder.onComplete, recorder.onError)

	assert.Equal(t, []string{"prima"}, recorder.chunks)
	assert.Equal(t, 1, recorder.completes)
	assert.Empty(t, recorder.errs)
}

func TestStreamingEOFWithoutDoneIsImplicitCompletion(t *testing.T) {
	client := streamingServer(t,
		sseFrame("risposta "),
		sseFrame("completa"),
	)

	recorder := &streamRecorder{}
	client.CreateStreamingChatCompletion(context.Background(), ChatCompletionRequest{Model: "model-x"}, recorder.onChunk, recorder.onComplete, recorder.onError)

	assert.Equal(t, []string{"risposta ", "completa"}, recorder.chunks)
	assert.Equal(t, 1, recorder.completes)
	assert.Empty(t, recorder.errs)
}

func TestStreamingDropsMalformedFrames(t *testing.T) {
	client := streamingServer(t,
		sseFrame("prima "),
		"data: {not valid json\n",
		": keep-alive comment\n",
		"\n",
		sseFrame("seconda"),
		"data: [DONE]\n",
	)

	recorder := &streamRecorder{}
	client.CreateStreamingChatCompletion(context.Background(), ChatCompletionRequest{Model: "model-x"}, recorder.onChunk, recorder.onComplete, recorder.onError)

	assert.Equal(t, []string{"prima ", "seconda"}, recorder.chunks)
	assert.Equal(t, 1, recorder.completes)
	assert.Empty(t, recorder.errs)
}

func TestStreamingSkipsEmptyDeltas(t *testing.T) {
	client := streamingServer(t,
		`data: {"choices": [{"delta": {"role": "assistant"}}]}`+"\n",
		sseFrame("testo"),
		`data: {"choices": []}`+"\n",
		"data: [DONE]\n",
	)

	recorder := &streamRecorder{}
	client.CreateStreamingChatCompletion(context.Background(), ChatCompletionRequest{Model: "model-x"}, recorder.onChunk, recorder.onComplete, recorder.onError)

	assert.Equal(t, []string{"testo"}, recorder.chunks)
	assert.Equal(t, 1, recorder.completes)
}

func TestStreamingNonSuccessStatusReportsRemoteMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit exceeded"}}`))
	})

	recorder := &streamRecorder{}
	client.CreateStreamingChatCompletion(context.Background(), ChatCompletionRequest{Model: "model-x"}, recorder.onChunk, recorder.onComplete, recorder.onError)

	assert.Empty(t, recorder.chunks)
	assert.Zero(t, recorder.completes)
	require.Len(t, recorder.errs, 1)
	assert.Equal(t, "Rate limit exceeded", recorder.errs[0].Error())
}

func TestStreamingConnectionFailureReportsError(t *testing.T) {
	client := NewClient("test-key", WithBaseURL("http://127.0.0.1:1"))

	recorder := &streamRecorder{}
	client.CreateStreamingChatCompletion(context.Background(), ChatCompletionRequest{Model: "model-x"}, recorder.onChunk, recorder.onComplete, recorder.onError)

	assert.Zero(t, recorder.completes)
	require.Len(t, recorder.errs, 1)
}
