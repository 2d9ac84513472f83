// Package prtemplate fills a repository's pull request template with a generated
// description by asking a local Ollama server.
package prtemplate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

const templateName = "pull_request_template.md"

// Find returns the content of .github/pull_request_template.md under repoDir.
// The file name is compared case-insensitively. It returns an empty string if there is no template.
func Find(fs afero.Fs, repoDir string) (string, error) {
	dir := filepath.Join(repoDir, ".github")
	exist, err := afero.DirExists(fs, dir)
	if err != nil {
		return "", fmt.Errorf("check if .github exists: %w", err)
	}
	if !exist {
		return "", nil
	}
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return "", fmt.Errorf("read .github: %w", err)
	}
	for _, info := range infos {
		if info.IsDir() || !strings.EqualFold(info.Name(), templateName) {
			continue
		}
		b, err := afero.ReadFile(fs, filepath.Join(dir, info.Name()))
		if err != nil {
			return "", fmt.Errorf("read a pull request template: %w", err)
		}
		return string(b), nil
	}
	return "", nil
}

type Merger struct {
	client  *http.Client
	baseURL string
	model   string
}

func NewMerger(client *http.Client, baseURL, model string) *Merger {
	return &Merger{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
	}
}

const promptFormat = `You are a software engineer who is updating the version of actions used in GitHub Action workflows. You are creating a pull request in an open source GitHub repository that has a pull request template. Your job is to merge this template with the description of your changes. Return a markdown formatted response that correctly fills in the pull request template as best you can while at the same time correctly describing your changes.

Here is the pull request template:
%s

Here are the changes you want to make:
%s

Constraints:
* Do not return anything that isn't markdown formatted.
* Do not make up information.
* Do not alter the format of the pull request template.
* If you need to specify how the changes will be tested, state that they will be tested in the CI pipeline of the pull request.
* If you see boxes like this "[ ]", then fill them in like "[x]" if they are completed (for example, having an accurate PR title, detailing the changes in the PR description, etc.).
* Do not return a response with "` + "```markdown" + `" at the start.
`

type pullRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Merge pulls the model if needed and returns body merged into template.
func (m *Merger) Merge(ctx context.Context, body, template string) (string, error) {
	if err := m.post(ctx, "/api/pull", &pullRequest{Model: m.model}, nil); err != nil {
		return "", fmt.Errorf("pull a model: %w", err)
	}
	resp := &generateResponse{}
	if err := m.post(ctx, "/api/generate", &generateRequest{
		Model:  m.model,
		Prompt: fmt.Sprintf(promptFormat, template, body),
	}, resp); err != nil {
		return "", fmt.Errorf("generate a pull request body: %w", err)
	}
	s := clean(resp.Response)
	if s == "" {
		return "", errors.New("the model returned an empty response")
	}
	return s, nil
}

func (m *Merger) post(ctx context.Context, path string, body, dest any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode a request body as JSON: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create a request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send a request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024)) //nolint:mnd
		return fmt.Errorf("status code %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode a response body as JSON: %w", err)
	}
	return nil
}

var thinkPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)

func clean(s string) string {
	s = thinkPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
