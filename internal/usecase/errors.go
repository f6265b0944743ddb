package usecase

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrContextNotFound        = errors.New("no context found; provide context before requesting recommendations")
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrOracleUnavailable      = errors.New("analysis oracle unavailable and no cached analysis exists")
	ErrStorageFailure         = errors.New("storage failure")
	ErrInternal               = errors.New("internal error")
)
