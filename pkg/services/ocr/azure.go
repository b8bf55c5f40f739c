package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"

	"invoice-scan/pkg/models"
)

// AzureEngine recognizes printed text through the Azure Computer Vision
// OCR endpoint.
type AzureEngine struct {
	client   *computervision.BaseClient
	language computervision.OcrLanguages
}

// NewAzureEngine creates an engine backed by the Computer Vision API.
// language is an OCR language code such as "en"; empty defaults to "en".
func NewAzureEngine(endpoint, apiKey, language string) *AzureEngine {
	client := computervision.New(endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(apiKey)

	lang := computervision.OcrLanguagesEn
	if language != "" {
		lang = computervision.OcrLanguages(language)
	}
	return &AzureEngine{client: &client, language: lang}
}

func (e *AzureEngine) Name() string { return "azure" }

// Recognize submits one page image and flattens the region/line/word
// hierarchy of the response into plain text, one recognized line per row.
func (e *AzureEngine) Recognize(ctx context.Context, page models.PageImage) (string, error) {
	reader := io.NopCloser(bytes.NewReader(page.Data))
	result, err := e.client.RecognizePrintedTextInStream(ctx, true, reader, e.language)
	if err != nil {
		return "", fmt.Errorf("recognize printed text: %w", err)
	}
	return flattenOCRResult(result), nil
}

func flattenOCRResult(result computervision.OcrResult) string {
	if result.Regions == nil {
		return ""
	}
	var b strings.Builder
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			words := make([]string, 0, len(*line.Words))
			for _, word := range *line.Words {
				if word.Text != nil {
					words = append(words, *word.Text)
				}
			}
			b.WriteString(strings.Join(words, " "))
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
