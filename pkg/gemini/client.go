package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hugohenrick/chat-mobile/pkg/logger"
	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-1.5-flash"
	defaultTimeout = 30 * time.Second

	// DefaultPlaceholderImageURL é retornada por GenerateImage enquanto não há
	// um serviço real de geração de imagens.
	DefaultPlaceholderImageURL = "https://images.unsplash.com/photo-1581833971358-2c8b550f87b3?w=512&h=512&fit=crop&crop=center"

	textPath = "candidates.0.content.parts.0.text"

	imagePromptTemplate = `Create a detailed description for an AI image generator based on this prompt: "%s". Make it vivid and specific for image generation.`
)

// Kind identifica o tipo de geração solicitada
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Generator é a capacidade de geração usada pelo orquestrador de mensagens
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// GenerationError indica que a chamada ao serviço de geração falhou.
// A mensagem é sempre genérica; a causa fica disponível via errors.Unwrap.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("Failed to generate %s response", e.Kind)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// GenerationConfig são os parâmetros de amostragem enviados ao modelo
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

var (
	textConfig  = GenerationConfig{Temperature: 0.7, TopK: 40, TopP: 0.95, MaxOutputTokens: 1024}
	imageConfig = GenerationConfig{Temperature: 0.8, MaxOutputTokens: 512}
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// Config contém as configurações do cliente
type Config struct {
	APIKey              string
	BaseURL             string
	TextModel           string
	ImageModel          string
	Timeout             time.Duration
	PlaceholderImageURL string
}

// Client é o cliente HTTP da API generateContent
type Client struct {
	apiKey           string
	baseURL          string
	textModel        string
	imageModel       string
	placeholderImage string
	client           *http.Client
	logger           logger.Logger
}

// NewClient cria um novo cliente; campos vazios recebem os valores padrão
func NewClient(cfg Config, log logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.TextModel == "" {
		cfg.TextModel = defaultModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.PlaceholderImageURL == "" {
		cfg.PlaceholderImageURL = DefaultPlaceholderImageURL
	}
	if cfg.APIKey == "" {
		log.Warn("GOOGLE_API_KEY não configurada, chamadas de geração irão falhar")
	}

	return &Client{
		apiKey:           cfg.APIKey,
		baseURL:          strings.TrimSuffix(cfg.BaseURL, "/"),
		textModel:        cfg.TextModel,
		imageModel:       cfg.ImageModel,
		placeholderImage: cfg.PlaceholderImageURL,
		client:           &http.Client{Timeout: cfg.Timeout},
		logger:           log,
	}
}

// GenerateText envia o prompt ao modelo de texto e retorna a primeira parte
// do primeiro candidato.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	text, err := c.generate(ctx, c.textModel, prompt, textConfig)
	if err != nil {
		return "", &GenerationError{Kind: KindText, Err: err}
	}
	return text, nil
}

// GenerateImage pede ao modelo uma descrição detalhada do prompt e retorna a
// URL da imagem. A descrição é descartada e a URL é sempre a do placeholder.
// TODO: trocar o placeholder por um serviço real de geração de imagens.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	description, err := c.generate(ctx, c.imageModel, fmt.Sprintf(imagePromptTemplate, prompt), imageConfig)
	if err != nil {
		return "", &GenerationError{Kind: KindImage, Err: err}
	}
	c.logger.Debug("Descrição de imagem gerada", "length", len(description))
	return c.placeholderImage, nil
}

func (c *Client) generate(ctx context.Context, model, prompt string, cfg GenerationConfig) (string, error) {
	reqBody := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: cfg,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		c.logger.Error("Erro ao serializar requisição", "error", err)
		return "", fmt.Errorf("erro ao serializar requisição: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqJSON))
	if err != nil {
		c.logger.Error("Erro ao criar requisição HTTP", "error", err)
		return "", fmt.Errorf("erro ao criar requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Enviando requisição para API de geração", "model", model, "promptLength", len(prompt))

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Erro na chamada da API de geração", "model", model, "error", err)
		return "", fmt.Errorf("erro na chamada da API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Erro ao ler resposta", "error", err)
		return "", fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("API de geração retornou erro",
			"model", model,
			"status", resp.Status,
			"body", string(respBody))
		return "", fmt.Errorf("API error: %s", resp.Status)
	}

	result := gjson.GetBytes(respBody, textPath)
	if !result.Exists() || result.Type != gjson.String || result.String() == "" {
		c.logger.Error("Resposta da API sem texto", "model", model, "body", string(respBody))
		return "", errors.New("resposta sem candidatos de texto")
	}

	return result.String(), nil
}
