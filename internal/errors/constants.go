package errors

// Error message constants
const (
	ErrMsgContentEmpty   = "content must not be empty"
	ErrMsgContentTooLong = "content exceeds maximum allowed length"
	ErrMsgReplyToReply   = "cannot reply to a reply"
	ErrMsgNotOwner       = "only the owner may modify this resource"
	ErrMsgReplyParent    = "reply does not belong to the given comment"
	ErrMsgNotTopLevel    = "comment is a reply; delete it through its parent"
	ErrMsgProfileMissing = "owner profile could not be resolved"
	ErrMsgVideoLookup    = "video existence check failed"
	ErrMsgProfileLookup  = "identity lookup failed"
)
