package openrouter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const dataPrefix = "data: "
const doneSentinel = "[DONE]"

// CreateStreamingChatCompletion opens a streaming completion and delivers
// incremental output through the three callbacks:
//
//   - onChunk receives each content delta in arrival order, exactly once
//     per protocol event
//   - onComplete fires once when the stream ends, either on the [DONE]
//     sentinel or on the peer closing the connection
//   - onError fires once when the connection cannot be opened, the
//     response is not successful, or the read loop fails
//
// onComplete and onError are mutually exclusive and each fires at most
// once per call. Malformed protocol frames are dropped and the stream
// continues.
func (c *Client) CreateStreamingChatCompletion(
	ctx context.Context,
	request ChatCompletionRequest,
	onChunk func(string),
	onComplete func(),
	onError func(error),
) {
	request.Stream = true

	body, err := json.Marshal(request)
	if err != nil {
		onError(err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		onError(err)
		return
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		onError(err)
		return
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			onError(err)
			return
		}
		onError(errors.New(remoteErrorMessage(respBody)))
		return
	}

	reader := bufio.NewReader(resp.Body)
	eventCount := 0
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				// End-of-stream without [DONE] is implicit completion.
				log.Debug().Int("events", eventCount).Msg("stream closed by peer, treating as complete")
				onComplete()
				return
			}
			onError(err)
			return
		}

		line = bytes.TrimSuffix(line, []byte("\n"))
		line = bytes.TrimSuffix(line, []byte("\r"))
		if !bytes.HasPrefix(line, []byte(dataPrefix)) {
			continue
		}
		data := line[len(dataPrefix):]

		if string(data) == doneSentinel {
			// Stop reading immediately, do not wait for the connection
			// to close naturally.
			log.Debug().Int("events", eventCount).Msg("stream finished")
			onComplete()
			return
		}

		var chunk StreamChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			// A single corrupt frame must not abort the stream.
			log.Debug().Err(err).Str("data", string(data)).Msg("dropping malformed stream frame")
			continue
		}
		eventCount++

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			onChunk(chunk.Choices[0].Delta.Content)
		}
	}
}
