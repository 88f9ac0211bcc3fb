package dto

import "encoding/json"

const StatusOK = 200

// Response is the summary echoed after a prompt has been relayed and its answer saved.
type Response struct {
	TimeStamp    string `json:"timeStamp" yaml:"timeStamp"`       // time the answer was saved
	FileCreated  bool   `json:"fileCreated" yaml:"fileCreated"`   // whether the answer file was written
	FileName     string `json:"fileName" yaml:"fileName"`         // path of the answer file
	PromptAnswer string `json:"promptAnswer" yaml:"promptAnswer"` // full answer text
	Message      string `json:"message" yaml:"message"`           // human-readable confirmation
	ReturnCode   int    `json:"returnCode" yaml:"returnCode"`     // always StatusOK for a saved answer
}

// JSON renders the response with 4-space indentation; a nil response renders as "{}".
func (r *Response) JSON() string {
	if r == nil {
		return "{}"
	}
	out, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return "{}"
	}
	return string(out)
}
