package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

// GeneratePodcast requests a two-host dialogue script for the document.
func (c *Client) GeneratePodcast(ctx context.Context, docID, voice string) (*model.PodcastScript, error) {
	path, err := docPath(docID, "/generate-podcast")
	if err != nil {
		return nil, err
	}
	if voice == "" {
		voice = model.VoiceMaleFemale
	}
	if !model.ValidVoice(voice) {
		return nil, fmt.Errorf("invalid voice option %q", voice)
	}
	var out model.PodcastScript
	body := map[string]string{"voice_option": voice}
	if err := c.doJSON(ctx, http.MethodPost, path, body, authRequired, "Failed to generate podcast script. Please try again.", &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("response missing script id")
	}
	return &out, nil
}

// GenerateAudio synthesizes audio for every line of a script.
func (c *Client) GenerateAudio(ctx context.Context, scriptID, voice string) (*model.PodcastAudio, error) {
	if scriptID == "" {
		return nil, errors.New("generate audio: missing script id")
	}
	if voice == "" {
		voice = model.VoiceMaleFemale
	}
	var out model.PodcastAudio
	body := map[string]string{"voice_option": voice}
	path := "/documents/podcast/" + url.PathEscape(scriptID) + "/generate-audio"
	if err := c.doJSON(ctx, http.MethodPost, path, body, authRequired, "Failed to generate audio", &out); err != nil {
		return nil, err
	}
	if out.ScriptID == "" {
		out.ScriptID = scriptID
	}
	return &out, nil
}

// StreamAudio opens the audio for one script line. The caller closes the
// returned reader.
func (c *Client) StreamAudio(ctx context.Context, scriptID string, lineIndex int) (io.ReadCloser, error) {
	if scriptID == "" {
		return nil, errors.New("stream audio: missing script id")
	}
	if lineIndex < 0 {
		return nil, fmt.Errorf("stream audio: invalid line index %d", lineIndex)
	}
	path := "/documents/audio/stream/" + url.PathEscape(scriptID) + "/" + strconv.Itoa(lineIndex)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "", authOptional)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/*")
	resp, err := c.send(req, "Failed to stream audio")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
