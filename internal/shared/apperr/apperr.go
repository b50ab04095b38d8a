package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	Invalid       Kind = "invalid"
	NotFound      Kind = "not_found"
	Signature     Kind = "signature"
	Configuration Kind = "configuration"
	Upstream      Kind = "upstream"
	Persistence   Kind = "persistence"
	Internal      Kind = "internal"
)

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error { return e.Err }

// Constructors (PublicMsg should stay short and safe)
func InvalidErr(publicMsg string, fields map[string]string) *AppError {
	return &AppError{Kind: Invalid, PublicMsg: publicMsg, Fields: fields}
}
func NotFoundErr(publicMsg string) *AppError {
	return &AppError{Kind: NotFound, PublicMsg: publicMsg}
}
func SignatureErr(err error) *AppError {
	return &AppError{Kind: Signature, PublicMsg: "Invalid signature or payload.", Err: err}
}
func ConfigurationErr(err error) *AppError {
	return &AppError{Kind: Configuration, PublicMsg: "Service misconfigured.", Err: err}
}
func UpstreamErr(err error) *AppError {
	return &AppError{Kind: Upstream, PublicMsg: "Payment provider unavailable.", Err: err}
}
func PersistenceErr(err error) *AppError {
	return &AppError{Kind: Persistence, PublicMsg: "Storage operation failed.", Err: err}
}

// Wrap: wrap an internal error without a public message (default 500)
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Kind: Internal, PublicMsg: "Unexpected error.", Err: err}
}

func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func HTTPStatus(err error) int {
	if ae, ok := As(err); ok {
		switch ae.Kind {
		case Invalid, Signature:
			return http.StatusBadRequest
		case NotFound:
			return http.StatusNotFound
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return "Unexpected error."
}
