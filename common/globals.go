package common

const (
	TokenEventTypeLaunchStarted   = "token_launch_started"
	TokenEventTypeLaunchConfirmed = "token_launch_confirmed"

	// Bounds for the launch request fields.
	MaxTokenNameLength        = 32
	MaxTokenSymbolLength      = 10
	MaxTokenDescriptionLength = 280
)
