package util

import "errors"

var (
	ErrEmailRegistered     = errors.New("email address already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrSurveyNotFound      = errors.New("survey not found")
	ErrPassationNotFound   = errors.New("passation not found")
	ErrPassationNotActive  = errors.New("passation is not active")
	ErrInvalidStatusChange = errors.New("passation status can only move forward")
	ErrInvalidPinFormat    = errors.New("PIN must be 6 digits")
	ErrPinUnknown          = errors.New("unknown access code")
	ErrPinAlreadyUsed      = errors.New("access code already used")
	ErrSessionNotFound     = errors.New("survey session not found or expired")
	ErrNoResponses         = errors.New("passation has no responses")
)
