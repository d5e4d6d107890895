package http

type runMatchingRequest struct {
	RequestID string `json:"request_id" validate:"required,custom_id,min=1,max=100"`
}

type createPairingRequest struct {
	ExpertID  string `json:"expert_id" validate:"required,custom_id,min=1,max=100"`
	RequestID string `json:"request_id" validate:"required,custom_id,min=1,max=100"`
	Source    string `json:"source" validate:"required,match_source"`
}

type pushToExpertsRequest struct {
	RequestID string   `json:"request_id" validate:"required,custom_id,min=1,max=100"`
	ExpertIDs []string `json:"expert_ids" validate:"required,min=1,dive,custom_id"`
	Source    string   `json:"source" validate:"required,match_source"`
}

type sweepRequest struct {
	RequestID string `json:"request_id" validate:"omitempty,custom_id,max=100"`
}

type viewMatchRequest struct {
	Side string `json:"side" validate:"required,oneof=expert requester"`
}

type markNotifiedRequest struct {
	MatchIDs []string `json:"match_ids" validate:"required,min=1,dive,custom_id"`
	Side     string   `json:"side" validate:"required,oneof=expert requester"`
}
