package openai

import "errors"

var errNoChoices = errors.New("openai returned no completion choices")
