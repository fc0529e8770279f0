package models

import "time"

// HistoryAction is a local audit entry for a mutation that moved a donation
// between buckets. It is never sent to the server.
type HistoryAction struct {
	ID         uint64    `json:"id"`
	Label      string    `json:"label"`
	DonationID int       `json:"donation_id"`
	ActorName  string    `json:"actor_name,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ProcessingAction is the action name carried by processing_action frames.
type ProcessingAction string

const (
	ActionUnprocessed      ProcessingAction = "unprocessed"
	ActionApproved         ProcessingAction = "approved"
	ActionDenied           ProcessingAction = "denied"
	ActionFlagged          ProcessingAction = "flagged"
	ActionSentToReader     ProcessingAction = "sent_to_reader"
	ActionPinned           ProcessingAction = "pinned"
	ActionUnpinned         ProcessingAction = "unpinned"
	ActionRead             ProcessingAction = "read"
	ActionIgnored          ProcessingAction = "ignored"
	ActionModCommentEdited ProcessingAction = "mod_comment_edited"
)

var processingActionLabels = map[ProcessingAction]string{
	ActionUnprocessed:      "Unprocessed",
	ActionApproved:         "Approved",
	ActionDenied:           "Blocked",
	ActionFlagged:          "Flagged",
	ActionSentToReader:     "Sent to Reader",
	ActionPinned:           "Pinned",
	ActionUnpinned:         "Unpinned",
	ActionRead:             "Read",
	ActionIgnored:          "Ignored",
	ActionModCommentEdited: "Mod Comment Edited",
}

// Label returns a human readable label. Actions added on the server side
// before the client knows about them fall back to their raw name.
func (a ProcessingAction) Label() string {
	if label, ok := processingActionLabels[a]; ok {
		return label
	}
	return string(a)
}

// DonationAction is a mutation an operator can issue against a donation.
type DonationAction string

const (
	DonationUnprocess      DonationAction = "unprocess"
	DonationApproveComment DonationAction = "approve_comment"
	DonationDenyComment    DonationAction = "deny_comment"
	DonationFlag           DonationAction = "flag"
	DonationSendToReader   DonationAction = "send_to_reader"
	DonationPin            DonationAction = "pin"
	DonationUnpin          DonationAction = "unpin"
	DonationRead           DonationAction = "read"
	DonationIgnore         DonationAction = "ignore"
)

var DonationActions = []DonationAction{
	DonationUnprocess,
	DonationApproveComment,
	DonationDenyComment,
	DonationFlag,
	DonationSendToReader,
	DonationPin,
	DonationUnpin,
	DonationRead,
	DonationIgnore,
}

var donationActionResults = map[DonationAction]ProcessingAction{
	DonationUnprocess:      ActionUnprocessed,
	DonationApproveComment: ActionApproved,
	DonationDenyComment:    ActionDenied,
	DonationFlag:           ActionFlagged,
	DonationSendToReader:   ActionSentToReader,
	DonationPin:            ActionPinned,
	DonationUnpin:          ActionUnpinned,
	DonationRead:           ActionRead,
	DonationIgnore:         ActionIgnored,
}

func (a DonationAction) Valid() bool {
	_, ok := donationActionResults[a]
	return ok
}

// Result is the processing action the server reports for a.
func (a DonationAction) Result() ProcessingAction {
	return donationActionResults[a]
}

func (a DonationAction) Label() string {
	return a.Result().Label()
}
