package lexoffice

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError respuesta no-2xx del sistema contable.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lexoffice: HTTP %d: %s", e.StatusCode, e.Message)
}

// RateLimited indica si la respuesta fue un HTTP 429.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// ErrBodyTooLarge la respuesta supera el tamaño máximo aceptado.
var ErrBodyTooLarge = errors.New("lexoffice: respuesta demasiado grande")

// errorBody formatos de error conocidos de la API (legacy y actual).
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Issues  []struct {
		Key    string `json:"key"`
		Source string `json:"source"`
		Type   string `json:"type"`
	} `json:"IssueList"`
}

func readAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	msg := http.StatusText(resp.StatusCode)

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Message != "":
			msg = body.Message
		case body.Error != "":
			msg = body.Error
		case len(body.Issues) > 0:
			msg = fmt.Sprintf("%s (%s)", body.Issues[0].Type, body.Issues[0].Source)
		}
	} else if len(raw) > 0 {
		msg = string(raw)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
