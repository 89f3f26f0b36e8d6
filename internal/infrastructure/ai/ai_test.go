package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plano", `{"a":1}`, `{"a":1}`},
		{"markdown", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"texto alrededor", "Aquí está: {\"a\":1} listo", `{"a":1}`},
		{"sin json", "nada", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}

func TestLLMReceipt_ToExtracted(t *testing.T) {
	r := llmReceipt{
		EntryDate: "2024-03-05",
		Products: []llmLine{
			{Name: "Bolt", Quantity: "5", UnitPrice: "1.20"},
			{Name: "Nut", Quantity: "10", UnitPrice: ""},
			{Name: "", Quantity: "3"},
			{Name: "Washer", Quantity: "abc"},
		},
	}
	out, err := r.toExtracted()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", out.EntryDate)
	require.Len(t, out.Products, 2)
	assert.True(t, out.Products[0].Quantity.Equal(decimal.NewFromInt(5)))
	require.NotNil(t, out.Products[0].UnitPrice)
	assert.True(t, out.Products[0].UnitPrice.Equal(decimal.RequireFromString("1.20")))
	assert.Nil(t, out.Products[1].UnitPrice)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestAnthropicVision_Extract(t *testing.T) {
	img := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		block := req.Messages[0].Content[0]
		assert.Equal(t, "image", block.Type)
		assert.Equal(t, "image/png", block.Source.MediaType)
		assert.Equal(t, base64.StdEncoding.EncodeToString(img), block.Source.Data)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{
				"type": "text",
				"text": "```json\n{\"entry_date\":\"\",\"products\":[{\"name\":\"Bolt\",\"description\":\"\",\"quantity\":\"5\",\"unit_price\":\"1.20\"}]}\n```",
			}},
		})
	}))
	defer srv.Close()

	ext := NewAnthropicVision("test-key", "claude-test").WithURL(srv.URL)
	out, err := ext.Extract(context.Background(), bytes.NewReader(img), int64(len(img)))
	require.NoError(t, err)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "Bolt", out.Products[0].Name)
}

func TestAnthropicVision_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"type":"rate_limit_error","message":"slow down"}}`)
	}))
	defer srv.Close()

	ext := NewAnthropicVision("k", "m").WithURL(srv.URL)
	_, err := ext.Extract(context.Background(), bytes.NewReader(pngBytes(t)), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")
}

func TestAnthropicVision_SinAPIKey(t *testing.T) {
	_, err := NewAnthropicVision("", "m").Extract(context.Background(), bytes.NewReader(nil), 0)
	assert.Error(t, err)
}

func TestReceiptSchema_Estricto(t *testing.T) {
	schema, err := receiptSchema()
	require.NoError(t, err)
	assert.Equal(t, false, schema["additionalProperties"])
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "products")
	assert.Contains(t, props, "entry_date")
}

func TestOpenAIStructurer_Structure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "resp_1",
			"object": "response",
			"status": "completed",
			"model":  "gpt-4o-mini",
			"output": []map[string]any{{
				"type":   "message",
				"id":     "msg_1",
				"role":   "assistant",
				"status": "completed",
				"content": []map[string]any{{
					"type":        "output_text",
					"text":        `{"entry_date":"2024-03-05","products":[{"name":"Nut","description":"","quantity":"10","unit_price":""}]}`,
					"annotations": []any{},
				}},
			}},
		})
	}))
	defer srv.Close()

	s, err := NewOpenAIStructurer("k", "", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	require.NoError(t, err)
	out, err := s.Structure(context.Background(), "10 tuercas")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", out.EntryDate)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "Nut", out.Products[0].Name)
}
