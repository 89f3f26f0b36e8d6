package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/infrastructure/ingest"
)

var _ ingest.TextStructurer = (*OpenAIStructurer)(nil)

// OpenAIStructurer estructura el texto de un remito con la Responses API y salida JSON estricta.
type OpenAIStructurer struct {
	client *openai.Client
	model  string
	schema map[string]any
}

// NewOpenAIStructurer construye el adaptador. opts extra (p. ej. option.WithBaseURL) se suman a la API key.
func NewOpenAIStructurer(apiKey, model string, opts ...option.RequestOption) (*OpenAIStructurer, error) {
	schema, err := receiptSchema()
	if err != nil {
		return nil, err
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	if model == "" {
		model = string(shared.ChatModelGPT4oMini)
	}
	return &OpenAIStructurer{client: &client, model: model, schema: schema}, nil
}

// receiptSchema genera el JSON schema de llmReceipt (sin referencias ni propiedades adicionales).
func receiptSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	raw, err := json.Marshal(reflector.Reflect(llmReceipt{}))
	if err != nil {
		return nil, fmt.Errorf("AI: serializar schema: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("AI: schema a map: %w", err)
	}
	return schema, nil
}

// Structure implementa ingest.TextStructurer.
func (s *OpenAIStructurer) Structure(ctx context.Context, text string) (*dto.ExtractedReceipt, error) {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(s.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(receiptInstructions + "\n\nRemito:\n" + text),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "remito",
					Strict:      param.NewOpt(true),
					Schema:      s.schema,
					Description: param.NewOpt("Líneas de producto de un remito de ingreso"),
				},
			},
		},
	}

	resp, err := s.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("AI: openai responses: %w", err)
	}
	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("AI: respuesta vacía")
	}
	var parsed llmReceipt
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("AI: parsear remito: %w", err)
	}
	return parsed.toExtracted()
}
