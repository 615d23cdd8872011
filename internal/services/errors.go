package services

import "errors"

var (
	ErrDomainExists     = errors.New("domain already exists")
	ErrDomainNotFound   = errors.New("domain not found")
	ErrUnknownSetting   = errors.New("unknown setting")
	ErrUnknownChannel   = errors.New("unknown notification channel")
	ErrCheckInProgress  = errors.New("a check run is already in progress")
	ErrImportBadVersion = errors.New("unsupported import file version")
)
