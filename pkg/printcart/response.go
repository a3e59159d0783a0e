package printcart

import (
	"strings"

	"github.com/printcart/printcart-go/internal/constants"
	"github.com/tidwall/gjson"
)

// ErrorDecoder inspects a response and returns the API error it declares, or
// nil. It runs on every response that carries a body.
type ErrorDecoder func(statusCode int, body []byte) *APIError

// DecodeAPIError is the default ErrorDecoder. It recognizes JSON objects that
// carry success:false, status:"error", a non-empty "error" or a non-empty
// "errors" member. For non-success statuses a "message" member is enough.
func DecodeAPIError(statusCode int, body []byte) *APIError {
	if !gjson.ValidBytes(body) {
		return nil
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil
	}

	errValue := doc.Get("error")
	errorsValue := doc.Get("errors")
	message := doc.Get("message")

	declared := doc.Get("success").Type == gjson.False ||
		strings.EqualFold(doc.Get("status").String(), "error") ||
		isPresent(errValue) ||
		isPresent(errorsValue)

	if !declared && (IsSuccessStatus(statusCode) || !isPresent(message)) {
		return nil
	}

	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       body,
	}

	switch {
	case errValue.Type == gjson.String:
		apiErr.Message = errValue.String()
	case errValue.IsObject() && errValue.Get("message").Exists():
		apiErr.Message = errValue.Get("message").String()
	case message.Exists():
		apiErr.Message = message.String()
	}

	if code := errValue.Get("code"); errValue.IsObject() && code.Exists() {
		apiErr.Code = code.String()
	} else if code := doc.Get("code"); code.Exists() {
		apiErr.Code = code.String()
	}

	apiErr.Fields = decodeFieldErrors(errorsValue)

	if apiErr.Message == "" && errorsValue.IsArray() {
		apiErr.Message = firstMessage(errorsValue)
	}

	return apiErr
}

// IsSuccessStatus reports whether the status is one of 200, 201 or 204.
func IsSuccessStatus(statusCode int) bool {
	switch statusCode {
	case constants.HTTPStatusOK, constants.HTTPStatusCreated, constants.HTTPStatusNoContent:
		return true
	default:
		return false
	}
}

func isPresent(value gjson.Result) bool {
	switch {
	case !value.Exists(), value.Type == gjson.Null:
		return false
	case value.Type == gjson.False:
		return false
	case value.Type == gjson.String:
		return value.String() != ""
	case value.IsArray():
		return len(value.Array()) > 0
	case value.IsObject():
		return len(value.Map()) > 0
	default:
		return true
	}
}

// decodeFieldErrors reads {"errors": {"field": ["msg", ...] | "msg"}}.
func decodeFieldErrors(errorsValue gjson.Result) map[string][]string {
	if !errorsValue.IsObject() {
		return nil
	}

	fields := make(map[string][]string)

	errorsValue.ForEach(func(key, value gjson.Result) bool {
		if value.IsArray() {
			for _, item := range value.Array() {
				fields[key.String()] = append(fields[key.String()], item.String())
			}
		} else {
			fields[key.String()] = append(fields[key.String()], value.String())
		}

		return true
	})

	if len(fields) == 0 {
		return nil
	}

	return fields
}

func firstMessage(errorsValue gjson.Result) string {
	for _, item := range errorsValue.Array() {
		if item.Type == gjson.String {
			return item.String()
		}

		if msg := item.Get("message"); msg.Exists() {
			return msg.String()
		}
	}

	return ""
}

// processResponse turns a transport result into the uniform outcome of a
// verb: a Body for 200/201/204, a *TransportError for any other status or a
// failed exchange, and an *APIError when a success body declares one.
func processResponse(req *Request, resp *Response, sendErr error, decode ErrorDecoder) (Body, error) {
	if sendErr != nil {
		if resp == nil || !IsSuccessStatus(resp.StatusCode) {
			transportErr := &TransportError{Method: req.Method, URL: req.URL, Err: sendErr}
			if resp != nil {
				transportErr.StatusCode = resp.StatusCode
				transportErr.Body = resp.Body
			}

			return nil, transportErr
		}
	}

	if resp == nil {
		return Body{}, nil
	}

	if !IsSuccessStatus(resp.StatusCode) {
		transportErr := &TransportError{
			Method:     req.Method,
			URL:        req.URL,
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
		}

		if decode != nil && len(resp.Body) > 0 {
			transportErr.APIError = decode(resp.StatusCode, resp.Body)
		}

		return nil, transportErr
	}

	if decode != nil && len(resp.Body) > 0 {
		apiErr := decode(resp.StatusCode, resp.Body)
		if apiErr != nil {
			return nil, apiErr
		}
	}

	if resp.Body == nil {
		return Body{}, nil
	}

	return Body(resp.Body), nil
}
