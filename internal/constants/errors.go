package constants

import "errors"

// Configuration errors.
var (
	ErrUnknownConfigKey = errors.New("unknown configuration key")
	ErrNoCredentials    = errors.New("no credentials configured, use 'printcart login' or set PRINTCART_USERNAME and PRINTCART_PASSWORD")
)

// Command errors.
var (
	ErrResourcePathRequired = errors.New("resource path is required")
	ErrInvalidResourcePath  = errors.New("invalid resource path")
	ErrInvalidParam         = errors.New("invalid parameter, expected key=value")
	ErrDataRequired         = errors.New("--data is required")
	ErrInvalidJSON          = errors.New("data is not valid JSON")
	ErrUnsupportedOutput    = errors.New("unsupported output format")
	ErrActionPathRequired   = errors.New("action path must end with an action name")
	ErrInvalidResources     = errors.New("invalid resources in configuration")
)
