package qr

import "errors"

var (
	ErrQRInvalid = errors.New("qr code is unknown or inactive")
	ErrQRExpired = errors.New("qr code has expired")
)
