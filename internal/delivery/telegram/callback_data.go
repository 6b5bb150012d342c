package telegram

import "strings"

// Callback action constants.
const (
	actionRehearsal = "rehearsal"
)

// Rehearsal sub-actions.
const (
	rehearsalYes             = "yes"
	rehearsalNo              = "no"
	rehearsalShowTranslation = "show_translation"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildAnswerCallback builds callback data for a yes/no answer button.
func buildAnswerCallback(isKnown bool) string {
	answer := rehearsalNo
	if isKnown {
		answer = rehearsalYes
	}
	return callbackData{
		Action: actionRehearsal,
		Params: []string{answer},
	}.encode()
}

// buildShowTranslationCallback builds callback data for the reveal button.
func buildShowTranslationCallback() string {
	return callbackData{
		Action: actionRehearsal,
		Params: []string{rehearsalShowTranslation},
	}.encode()
}
