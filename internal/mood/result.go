package mood

import "fmt"

type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomePartialSuccess Outcome = "partial_success"
	OutcomeFailure        Outcome = "failure"
)

// SubmissionResult is the single terminal outcome of one submission attempt.
type SubmissionResult struct {
	Outcome           Outcome
	RemoteID          string
	AttachmentWarning error
	Reason            error
}

func Success(remoteID string) SubmissionResult {
	return SubmissionResult{Outcome: OutcomeSuccess, RemoteID: remoteID}
}

func PartialSuccess(remoteID string, warning error) SubmissionResult {
	return SubmissionResult{Outcome: OutcomePartialSuccess, RemoteID: remoteID, AttachmentWarning: warning}
}

func Failure(reason error) SubmissionResult {
	return SubmissionResult{Outcome: OutcomeFailure, Reason: reason}
}

// Logged reports whether the mood record exists on the service.
func (r SubmissionResult) Logged() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomePartialSuccess
}

func (r SubmissionResult) String() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return fmt.Sprintf("success id=%s", r.RemoteID)
	case OutcomePartialSuccess:
		return fmt.Sprintf("partial_success id=%s warning=%v", r.RemoteID, r.AttachmentWarning)
	default:
		return fmt.Sprintf("failure reason=%v", r.Reason)
	}
}
