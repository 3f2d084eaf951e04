package ai

import "fmt"

// GenerateContentRequest представляет структуру запроса generateContent
type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

// Content представляет один блок контента в запросе
type Content struct {
	Parts []Part `json:"parts"`
}

// Part представляет текстовую часть контента
type Part struct {
	Text string `json:"text"`
}

// GenerateContentResponse представляет структуру ответа от Gemini API
type GenerateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// GenerationError описывает ошибку этапа генерации текста.
// Оборачивает ошибки API, пустые ответы и отказы модели.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ошибка генерации твита: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("ошибка генерации твита: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
