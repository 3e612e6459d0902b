// Package gemini implements the remote generation client and its fallback
// cascade. A single Generate call walks an ordered attempt space of
// credential × API version × model × output-token budget, issuing one HTTP
// call at a time, and short-circuits on the first non-empty result.
//
// The cascade itself never fails: every failure mode across the whole space
// resolves into a fallback Result carrying a fixed safe message and the last
// error seen. The one exception is ErrNoCredentials: an empty credential
// pool is a deployment fault, not a runtime one, and is surfaced to the
// caller to deal with.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-fortune-backend/internal/config"
	"github.com/tbourn/go-fortune-backend/internal/prompt"
)

// ErrNoCredentials is returned when the credential pool is empty. It is the
// only error Generate can return.
var ErrNoCredentials = errors.New("no GEMINI_API_KEY(_*) configured")

// FallbackText is the fixed, pre-authored message returned when every
// attempt in the cascade fails to produce text.
const FallbackText = `오늘은 결과보다 과정에 집중해 보시면 좋아요.
가벼운 산책이나 따뜻한 차처럼 몸과 마음을 풀어주는 작은 휴식을 챙겨 보세요.`

// defaultModels is the built-in model candidate order, fastest/cheapest
// first. A configured preferred model is always tried before these.
var defaultModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-flash-latest",
	"gemini-pro-latest",
	"gemini-2.5-flash-preview-05-20",
	"gemini-2.5-pro-preview-06-05",
	"gemini-2.0-flash",
}

// apiVersions is the protocol fallback order. Newer models often surface on
// v1beta before v1, so both are tried for every model.
var apiVersions = []string{"v1", "v1beta"}

// tokenBudgets is the output-size escalation order: the small budget first,
// the large one only when the small response was cut off by MAX_TOKENS.
var tokenBudgets = []int{300, 1024}

const generationTemperature = 0.8

// Result is the outcome of a Generate call.
type Result struct {
	// Text is the generated (or fallback) fortune; never empty.
	Text string
	// UsedFallback is true when Text is the fixed safe message.
	UsedFallback bool
	// LastErr is the last error encountered across the cascade. Diagnostic
	// only; the orchestrator exposes it solely in debug mode.
	LastErr error
}

// Client calls the Gemini generateContent endpoint with multi-dimensional
// fallback. Safe for concurrent use.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	keys           []string
	preferredModel string
	attemptTimeout time.Duration
}

// NewClient constructs a Client from configuration. The credential order in
// cfg.APIKeys is preserved as the cascade's outermost dimension.
func NewClient(cfg config.GeminiConfig) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		keys:           cfg.APIKeys,
		preferredModel: cfg.PreferredModel,
		attemptTimeout: cfg.Timeout,
	}
}

// attempt is one (credential, version, model) descriptor; the token budget
// is the innermost dimension and is iterated by the consuming loop.
type attempt struct {
	keyIndex int
	version  string
	model    string
}

// attempts flattens credential × version × model into the strict nested
// order of the cascade (credential outermost).
func (c *Client) attempts(models []string) []attempt {
	out := make([]attempt, 0, len(c.keys)*len(apiVersions)*len(models))
	for ki := range c.keys {
		for _, v := range apiVersions {
			for _, m := range models {
				out = append(out, attempt{keyIndex: ki, version: v, model: m})
			}
		}
	}
	return out
}

// modelCandidates returns the model order with the preferred model (if any)
// prepended and deduplicated.
func (c *Client) modelCandidates() []string {
	models := make([]string, 0, len(defaultModels)+1)
	if m := strings.TrimSpace(c.preferredModel); m != "" {
		models = append(models, m)
	}
	for _, m := range defaultModels {
		dup := false
		for _, have := range models {
			if have == m {
				dup = true
				break
			}
		}
		if !dup {
			models = append(models, m)
		}
	}
	return models
}

// Generate runs the cascade for the given prompt. It returns ErrNoCredentials
// when the key pool is empty; otherwise it always returns a Result with a
// non-empty Text, falling back to FallbackText after full exhaustion.
func (c *Client) Generate(ctx context.Context, p prompt.Prompt) (Result, error) {
	tr := otel.Tracer("gemini/Client")
	ctx, span := tr.Start(ctx, "Generate")
	defer span.End()

	if len(c.keys) == 0 {
		return Result{}, ErrNoCredentials
	}

	models := c.modelCandidates()
	var lastErr error

	// A 404 means the (version, model) pair is unsupported; the pair is
	// skipped for the rest of this request regardless of credential.
	notFound := make(map[string]bool)

	for _, at := range c.attempts(models) {
		pair := at.version + "/" + at.model
		if notFound[pair] {
			continue
		}

	budgets:
		for _, budget := range tokenBudgets {
			res := c.call(ctx, at, budget, p)
			if res.err != nil {
				lastErr = res.err
				if res.notFound {
					notFound[pair] = true
					break budgets
				}
				// Transport or non-success status: advance to the next attempt.
				continue
			}
			if res.text != "" {
				span.SetAttributes(
					attribute.String("gemini.model", at.model),
					attribute.String("gemini.api_version", at.version),
					attribute.Int("gemini.key_index", at.keyIndex),
				)
				return Result{Text: soften(res.text), LastErr: lastErr}, nil
			}
			// Empty text: a larger budget only helps when the response was
			// cut off by the size limit.
			if res.finishReason != "MAX_TOKENS" {
				break budgets
			}
		}
	}

	if lastErr != nil {
		log.Warn().Err(lastErr).Msg("gemini cascade exhausted, using fallback text")
	}
	return Result{Text: FallbackText, UsedFallback: true, LastErr: lastErr}, nil
}

// callResult classifies one attempt's outcome.
type callResult struct {
	text         string
	finishReason string
	notFound     bool
	err          error
}

// generateContent request/response wire types (subset we use).
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	FinishReason string `json:"finishReason"`
}

// call issues one generateContent request for a single attempt descriptor.
func (c *Client) call(ctx context.Context, at attempt, maxTokens int, p prompt.Prompt) callResult {
	ctx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	body := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: p.Instructions + "\n\n" + p.Content}},
		}},
		GenerationConfig: generationConfig{
			Temperature:     generationTemperature,
			MaxOutputTokens: maxTokens,
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return callResult{err: err}
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent?key=%s",
		c.baseURL, at.version, at.model, c.keys[at.keyIndex])
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return callResult{err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug().
		Int("key_index", at.keyIndex).
		Str("version", at.version).
		Str("model", at.model).
		Int("max_tokens", maxTokens).
		Msg("gemini attempt")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return callResult{err: fmt.Errorf("gemini network error (key#%d %s/%s): %w",
			at.keyIndex+1, at.version, at.model, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return callResult{
			notFound: true,
			err: fmt.Errorf("gemini 404 for key#%d %s/%s",
				at.keyIndex+1, at.version, at.model),
		}
	}
	if resp.StatusCode >= 400 {
		// Truncate error bodies before they reach logs.
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return callResult{err: fmt.Errorf("gemini error (key#%d %s/%s): status %d body=%s",
			at.keyIndex+1, at.version, at.model, resp.StatusCode, string(errBody))}
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return callResult{err: fmt.Errorf("gemini decode (key#%d %s/%s): %w",
			at.keyIndex+1, at.version, at.model, err)}
	}

	var text, finish string
	if len(decoded.Candidates) > 0 {
		cand := decoded.Candidates[0]
		parts := make([]string, 0, len(cand.Content.Parts))
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
		text = strings.TrimSpace(strings.Join(parts, "\n"))
		finish = cand.FinishReason
	}
	if finish == "" {
		finish = decoded.FinishReason
	}
	if finish == "" {
		finish = "unknown"
	}
	return callResult{text: text, finishReason: finish}
}

// softenRules rewrites absolute phrasing into hedged equivalents before the
// text is shown to users.
var softenRules = []struct{ from, to string }{
	{"100%", "꽤 높은 확률로"},
	{"반드시", "될 가능성이 커요"},
}

// soften applies the output sanitization rules to generated text.
func soften(s string) string {
	for _, r := range softenRules {
		s = strings.ReplaceAll(s, r.from, r.to)
	}
	return s
}
