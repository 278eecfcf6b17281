package simulator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/futig/parallel-universe/internal/config"
	"github.com/futig/parallel-universe/internal/entity"
	"github.com/futig/parallel-universe/internal/integration/common"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

//go:embed prompt.tmpl
var defaultPrompt string

// GeminiConnector asks Gemini directly instead of going through the proxy.
type GeminiConnector struct {
	client    *genai.Client
	model     string
	genConfig *genai.GenerateContentConfig
	prompt    *template.Template
	logger    *zap.Logger
}

// promptData is the template input: the snapshot plus the answer language.
type promptData struct {
	*entity.FormSnapshot
	LanguageName string
}

func NewGeminiConnector(ctx context.Context, cfg config.SimulatorConfig, logger *zap.Logger) (*GeminiConnector, error) {
	prompt, err := ParsePrompt(cfg.Gemini.PromptTemplate)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.Gemini.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: common.NewBaseClient(cfg.HTTPClientConfig),
	})
	if err != nil {
		return nil, fmt.Errorf("create GenAI client: %w", err)
	}

	return &GeminiConnector{
		client: client,
		model:  cfg.Gemini.Model,
		genConfig: &genai.GenerateContentConfig{
			Temperature:      genai.Ptr(cfg.Gemini.Temperature),
			ResponseMIMEType: "application/json",
		},
		prompt: prompt,
		logger: logger,
	}, nil
}

// ParsePrompt parses a prompt template; an empty text selects the built-in prompt.
func ParsePrompt(text string) (*template.Template, error) {
	if text == "" {
		text = defaultPrompt
	}

	tmpl, err := template.New("simulation").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return tmpl, nil
}

// RenderPrompt fills the template with the snapshot.
func RenderPrompt(tmpl *template.Template, snapshot *entity.FormSnapshot) (string, error) {
	data := promptData{
		FormSnapshot: snapshot,
		LanguageName: languageName(snapshot.Lang),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

func (c *GeminiConnector) Simulate(ctx context.Context, snapshot *entity.FormSnapshot) (string, error) {
	prompt, err := RenderPrompt(c.prompt, snapshot)
	if err != nil {
		return "", err
	}

	ctxzap.Info(ctx, "requesting simulation from gemini", zap.String("model", c.model))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), c.genConfig)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	ctxzap.Info(ctx, "simulation reply received", zap.Int("length", len(text)))
	return text, nil
}

func languageName(code string) string {
	lang, err := entity.ParseLanguage(code)
	if err != nil {
		lang = entity.DefaultLanguage
	}

	for _, opt := range entity.SupportedLanguages {
		if opt.Code == lang {
			return opt.Name
		}
	}
	return entity.SupportedLanguages[0].Name
}
