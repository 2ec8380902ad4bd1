package service

import "errors"

// 업무 오류 분류. handler 가 errors.Is 로 HTTP 상태 코드에 매핑한다.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
)
