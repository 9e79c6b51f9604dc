package rpc

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// payload é o invólucro superjson usado nas entradas e saídas
type payload struct {
	JSON interface{} `json:"json"`
}

type resultData struct {
	Data payload `json:"data"`
}

// resultEnvelope é a resposta de sucesso de um procedimento
type resultEnvelope struct {
	Result resultData `json:"result"`
}

// errorEnvelope é a resposta de erro de um procedimento
type errorEnvelope struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	JSON errorShape `json:"json"`
}

type errorShape struct {
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Data    errorData `json:"data"`
}

type errorData struct {
	Code       string `json:"code"`
	HTTPStatus int    `json:"httpStatus"`
	Path       string `json:"path,omitempty"`
}

// unwrapInput remove o invólucro superjson quando presente.
// Entradas vazias ou nulas viram um objeto vazio.
func unwrapInput(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}")
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return trimmed
	}
	inner, ok := wrapped["json"]
	if !ok {
		return trimmed
	}
	for key := range wrapped {
		if key != "json" && key != "meta" {
			return trimmed
		}
	}
	return unwrapInput(inner)
}

// splitBatch separa as entradas de um lote, indexadas por posição ("0", "1", ...)
func splitBatch(raw json.RawMessage, size int) ([]json.RawMessage, error) {
	inputs := make([]json.RawMessage, size)

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return inputs, nil
	}

	var byIndex map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &byIndex); err != nil {
		return nil, err
	}
	for i := range inputs {
		inputs[i] = byIndex[strconv.Itoa(i)]
	}
	return inputs, nil
}
